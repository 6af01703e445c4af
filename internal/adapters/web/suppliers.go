package web

import (
	"net/http"

	"resto-backoffice/internal/app"
)

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListSuppliers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"suppliers": res.Suppliers})
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.GetSupplier(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Supplier)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req app.SupplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateSupplier(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, res.Supplier)
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.SupplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateSupplier(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Supplier)
}

func (h *Handler) deactivateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeactivateSupplier(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
