package web

import (
	"net/http"

	"resto-backoffice/internal/app"
)

func (h *Handler) listDishes(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	res, err := h.svc.ListDishes(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"dishes": res.Dishes})
}

func (h *Handler) getDish(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.GetDish(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Dish)
}

func (h *Handler) createDish(w http.ResponseWriter, r *http.Request) {
	var req app.DishRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateDish(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, res.Dish)
}

func (h *Handler) updateDish(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.DishRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateDish(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Dish)
}

func (h *Handler) deleteDish(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteDish(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getDishCosting(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.GetDishCosting(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Costing)
}

func (h *Handler) listDishCostings(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListDishCostings(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"costings": res.Costings})
}
