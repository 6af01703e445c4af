package app

import (
	"context"

	"resto-backoffice/internal/core"
)

// Attachment is an uploaded document photo for extraction.
// Supports images (JPG, PNG, WEBP) for vision model input.
type Attachment struct {
	MimeType string // "image/jpeg", "image/png", "image/webp"
	Data     []byte // raw file bytes
}

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web)
// call. It decouples presentation from business logic. Implementations must
// contain no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// LoadDefaultRestaurant loads the tenant record, creating it on first run
	// from the RESTAURANT_NAME env var.
	LoadDefaultRestaurant(ctx context.Context) (*core.Restaurant, error)

	// ── Products and stock ──────────────────────────────────────────

	ListProducts(ctx context.Context) (*ProductListResult, error)
	GetProduct(ctx context.Context, productID int) (*ProductResult, error)
	CreateProduct(ctx context.Context, req ProductRequest) (*ProductResult, error)
	UpdateProduct(ctx context.Context, productID int, req ProductRequest) (*ProductResult, error)

	// BulkDeleteProducts deletes the selected products concurrently and
	// reports per-row outcomes; there is no atomicity across rows.
	BulkDeleteProducts(ctx context.Context, productIDs []int) (*BulkDeleteResult, error)

	// AdjustStock sets one product's quantity and records a manual movement.
	AdjustStock(ctx context.Context, productID int, newQuantity string, notes string) (*ProductResult, error)

	// SyncInventory applies counted quantities from the re-sync flow.
	SyncInventory(ctx context.Context, counts []SyncCountRequest) (*SyncResult, error)

	// GetStockOverview returns every product with its urgency classification.
	GetStockOverview(ctx context.Context) (*StockOverviewResult, error)

	// GetReorderSuggestions returns the replenishment list, most urgent
	// first, and the same list bucketed by last-known supplier.
	GetReorderSuggestions(ctx context.Context) (*ReorderResult, error)

	// ── Dishes and costing ──────────────────────────────────────────

	ListDishes(ctx context.Context, activeOnly bool) (*DishListResult, error)
	GetDish(ctx context.Context, dishID int) (*DishResult, error)
	CreateDish(ctx context.Context, req DishRequest) (*DishResult, error)
	UpdateDish(ctx context.Context, dishID int, req DishRequest) (*DishResult, error)
	DeleteDish(ctx context.Context, dishID int) error
	GetDishCosting(ctx context.Context, dishID int) (*CostingResult, error)
	ListDishCostings(ctx context.Context) (*CostingListResult, error)

	// ── Menus ───────────────────────────────────────────────────────

	ListMenus(ctx context.Context) (*MenuListResult, error)
	GetMenu(ctx context.Context, menuID int) (*MenuResult, error)
	CreateMenu(ctx context.Context, req MenuRequest) (*MenuResult, error)
	UpdateMenu(ctx context.Context, menuID int, req MenuRequest) (*MenuResult, error)
	DeleteMenu(ctx context.Context, menuID int) error

	// ── Suppliers ───────────────────────────────────────────────────

	ListSuppliers(ctx context.Context) (*SupplierListResult, error)
	GetSupplier(ctx context.Context, supplierID int) (*SupplierResult, error)
	CreateSupplier(ctx context.Context, req SupplierRequest) (*SupplierResult, error)
	UpdateSupplier(ctx context.Context, supplierID int, req SupplierRequest) (*SupplierResult, error)
	DeactivateSupplier(ctx context.Context, supplierID int) error

	// ── Document flows ──────────────────────────────────────────────

	// ExtractDocument runs vision extraction on an uploaded document photo
	// and returns the review-flow header and line items. Nothing is
	// persisted; the caller drives the review and submits a confirm call.
	ExtractDocument(ctx context.Context, kind core.FlowKind, attachment Attachment) (*ExtractionResult, error)

	// ConfirmReception persists a reviewed delivery bill and applies its
	// lines to stock in one transaction.
	ConfirmReception(ctx context.Context, req ReceptionRequest) (*BillResult, error)
	ListBills(ctx context.Context, status string) (*BillListResult, error)
	GetBill(ctx context.Context, billID int) (*BillResult, error)

	// ConfirmSale persists a reviewed sales ticket and deducts recipe
	// ingredients from stock in one transaction.
	ConfirmSale(ctx context.Context, req SaleRequest) (*SaleResult, error)
	ListSales(ctx context.Context) (*SaleListResult, error)
	GetSale(ctx context.Context, saleID int) (*SaleResult, error)

	// ── Disputes ────────────────────────────────────────────────────

	CreateDispute(ctx context.Context, req DisputeRequest) (*DisputeResult, error)
	UpdateDisputeStatus(ctx context.Context, disputeID int, status string, resolutionNotes string) (*DisputeResult, error)
	GetDispute(ctx context.Context, disputeID int) (*DisputeResult, error)
	ListDisputes(ctx context.Context, status string) (*DisputeListResult, error)
}
