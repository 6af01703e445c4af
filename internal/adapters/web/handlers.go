package web

import (
	"net/http"
	"strconv"

	"resto-backoffice/internal/app"
	"resto-backoffice/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc app.ApplicationService
	log *logger.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, log *logger.Logger, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc, log: log}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(log.HTTPMiddleware)
	r.Use(h.Recoverer)
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)

	// Document upload: body limit is managed inside the handler (multipart, up to 20 MB).
	r.Post("/api/documents/extract", h.extractDocument)

	// All other endpoints: 1 MB body limit to prevent unbounded request abuse.
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Route("/api/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
			r.Post("/bulk-delete", h.bulkDeleteProducts)
			r.Post("/sync", h.syncInventory)
			r.Get("/{id}", h.getProduct)
			r.Put("/{id}", h.updateProduct)
			r.Post("/{id}/adjust", h.adjustStock)
		})
		r.Get("/api/stock", h.stockOverview)
		r.Get("/api/reorder", h.reorderSuggestions)

		r.Route("/api/dishes", func(r chi.Router) {
			r.Get("/", h.listDishes)
			r.Post("/", h.createDish)
			r.Get("/{id}", h.getDish)
			r.Put("/{id}", h.updateDish)
			r.Delete("/{id}", h.deleteDish)
			r.Get("/{id}/costing", h.getDishCosting)
		})
		r.Get("/api/costings", h.listDishCostings)

		r.Route("/api/menus", func(r chi.Router) {
			r.Get("/", h.listMenus)
			r.Post("/", h.createMenu)
			r.Get("/{id}", h.getMenu)
			r.Put("/{id}", h.updateMenu)
			r.Delete("/{id}", h.deleteMenu)
		})

		r.Route("/api/suppliers", func(r chi.Router) {
			r.Get("/", h.listSuppliers)
			r.Post("/", h.createSupplier)
			r.Get("/{id}", h.getSupplier)
			r.Put("/{id}", h.updateSupplier)
			r.Delete("/{id}", h.deactivateSupplier)
		})

		r.Route("/api/bills", func(r chi.Router) {
			r.Get("/", h.listBills)
			r.Post("/", h.confirmReception)
			r.Get("/{id}", h.getBill)
		})

		r.Route("/api/sales", func(r chi.Router) {
			r.Get("/", h.listSales)
			r.Post("/", h.confirmSale)
			r.Get("/{id}", h.getSale)
		})

		r.Route("/api/disputes", func(r chi.Router) {
			r.Get("/", h.listDisputes)
			r.Post("/", h.createDispute)
			r.Get("/{id}", h.getDispute)
			r.Post("/{id}/status", h.updateDisputeStatus)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// idParam extracts the {id} route parameter as an int; on failure it writes a
// 400 and reports false.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id "+strconv.Quote(raw), "BAD_ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
