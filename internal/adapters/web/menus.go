package web

import (
	"net/http"

	"resto-backoffice/internal/app"
)

func (h *Handler) listMenus(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListMenus(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"menus": res.Menus})
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.GetMenu(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Menu)
}

func (h *Handler) createMenu(w http.ResponseWriter, r *http.Request) {
	var req app.MenuRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateMenu(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, res.Menu)
}

func (h *Handler) updateMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.MenuRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateMenu(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Menu)
}

func (h *Handler) deleteMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteMenu(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
