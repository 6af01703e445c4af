package app

import "resto-backoffice/internal/core"

// ProductResult is returned by single-product operations.
type ProductResult struct {
	Product *core.Product
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product
}

// BulkDeleteResult is returned by BulkDeleteProducts.
type BulkDeleteResult struct {
	Outcome core.BulkDeleteResult
}

// SyncResult is returned by SyncInventory.
type SyncResult struct {
	Applied int
}

// StockOverviewResult is returned by GetStockOverview.
type StockOverviewResult struct {
	Entries []core.StockEntry
}

// ReorderResult is returned by GetReorderSuggestions.
type ReorderResult struct {
	Suggestions []core.ReorderSuggestion
	Groups      []core.SupplierGroup
}

// DishResult is returned by dish operations.
type DishResult struct {
	Dish *core.Dish
}

// DishListResult is returned by ListDishes.
type DishListResult struct {
	Dishes []core.Dish
}

// CostingResult is returned by GetDishCosting.
type CostingResult struct {
	Costing *core.DishCosting
}

// CostingListResult is returned by ListDishCostings.
type CostingListResult struct {
	Costings []core.DishCosting
}

// MenuResult is returned by menu operations.
type MenuResult struct {
	Menu *core.Menu
}

// MenuListResult is returned by ListMenus.
type MenuListResult struct {
	Menus []core.Menu
}

// SupplierResult is returned by supplier operations.
type SupplierResult struct {
	Supplier *core.Supplier
}

// SupplierListResult is returned by ListSuppliers.
type SupplierListResult struct {
	Suppliers []core.Supplier
}

// ExtractionResult is returned by ExtractDocument; it seeds a review flow.
type ExtractionResult struct {
	Header core.FlowHeader
	Items  []core.LineItem
}

// BillResult is returned by reception and bill lookups.
type BillResult struct {
	Bill *core.Bill
}

// BillListResult is returned by ListBills.
type BillListResult struct {
	Bills []core.Bill
}

// SaleResult is returned by sale operations.
type SaleResult struct {
	Sale *core.Sale
}

// SaleListResult is returned by ListSales.
type SaleListResult struct {
	Sales []core.Sale
}

// DisputeResult is returned by dispute operations.
type DisputeResult struct {
	Dispute *core.Dispute
}

// DisputeListResult is returned by ListDisputes.
type DisputeListResult struct {
	Disputes []core.Dispute
}
