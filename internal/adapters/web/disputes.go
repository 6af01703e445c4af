package web

import (
	"net/http"

	"resto-backoffice/internal/app"
)

func (h *Handler) createDispute(w http.ResponseWriter, r *http.Request) {
	var req app.DisputeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateDispute(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, res.Dispute)
}

func (h *Handler) updateDisputeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Status          string `json:"status"`
		ResolutionNotes string `json:"resolution_notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateDisputeStatus(r.Context(), id, req.Status, req.ResolutionNotes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Dispute)
}

func (h *Handler) getDispute(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.GetDispute(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Dispute)
}

func (h *Handler) listDisputes(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListDisputes(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"disputes": res.Disputes})
}
