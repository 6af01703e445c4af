package web

import (
	"net/http"

	"resto-backoffice/internal/app"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"products": res.Products})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Product)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req app.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, res.Product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateProduct(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Product)
}

func (h *Handler) bulkDeleteProducts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductIDs []int `json:"product_ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.BulkDeleteProducts(r.Context(), req.ProductIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Outcome)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Quantity string `json:"quantity"`
		Notes    string `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.AdjustStock(r.Context(), id, req.Quantity, req.Notes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Product)
}

func (h *Handler) syncInventory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Counts []app.SyncCountRequest `json:"counts"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.SyncInventory(r.Context(), req.Counts)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]int{"applied": res.Applied})
}

func (h *Handler) stockOverview(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetStockOverview(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"entries": res.Entries})
}

func (h *Handler) reorderSuggestions(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetReorderSuggestions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"suggestions": res.Suggestions,
		"by_supplier": res.Groups,
	})
}
