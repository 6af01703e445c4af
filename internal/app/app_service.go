package app

import (
	"context"
	"fmt"
	"os"

	"resto-backoffice/internal/ai"
	"resto-backoffice/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type appService struct {
	pool        *pgxpool.Pool
	restaurants core.RestaurantService
	products    core.ProductService
	suppliers   core.SupplierService
	dishes      core.DishService
	menus       core.MenuService
	bills       core.BillService
	sales       core.SaleService
	disputes    core.DisputeService
	extractor   ai.Extractor
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	pool *pgxpool.Pool,
	restaurants core.RestaurantService,
	products core.ProductService,
	suppliers core.SupplierService,
	dishes core.DishService,
	menus core.MenuService,
	bills core.BillService,
	sales core.SaleService,
	disputes core.DisputeService,
	extractor ai.Extractor,
) ApplicationService {
	return &appService{
		pool:        pool,
		restaurants: restaurants,
		products:    products,
		suppliers:   suppliers,
		dishes:      dishes,
		menus:       menus,
		bills:       bills,
		sales:       sales,
		disputes:    disputes,
		extractor:   extractor,
	}
}

// ── Parsing helpers ─────────────────────────────────────────────────

func parseOptional(field, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return &d, nil
}

func parseRequired(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("%s is required", field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return d, nil
}

func toLineItems(lines []LineRequest) ([]core.LineItem, error) {
	items := make([]core.LineItem, 0, len(lines))
	for i, l := range lines {
		qty, err := parseRequired("quantity", l.Quantity)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		unitPrice, err := parseOptional("unit price", l.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		totalPrice, err := parseOptional("total price", l.TotalPrice)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		items = append(items, core.LineItem{
			Name:       l.Name,
			Quantity:   qty,
			Unit:       core.Unit(l.Unit),
			UnitPrice:  unitPrice,
			TotalPrice: totalPrice,
		})
	}
	return items, nil
}

func toProductInput(req ProductRequest) (core.ProductInput, error) {
	quantity := decimal.Zero
	if req.Quantity != "" {
		var err error
		quantity, err = parseRequired("quantity", req.Quantity)
		if err != nil {
			return core.ProductInput{}, err
		}
	}
	unitPrice, err := parseOptional("unit price", req.UnitPrice)
	if err != nil {
		return core.ProductInput{}, err
	}
	parLevel, err := parseOptional("par level", req.ParLevel)
	if err != nil {
		return core.ProductInput{}, err
	}
	return core.ProductInput{
		Name:      req.Name,
		Quantity:  quantity,
		Unit:      core.Unit(req.Unit),
		UnitPrice: unitPrice,
		ParLevel:  parLevel,
		Category:  req.Category,
		Trackable: req.Trackable,
		Composite: req.Composite,
	}, nil
}

func toMenuInput(req MenuRequest) (core.MenuInput, error) {
	price := decimal.Zero
	if req.Price != "" {
		var err error
		price, err = parseRequired("price", req.Price)
		if err != nil {
			return core.MenuInput{}, err
		}
	}

	var pricing core.MenuPricing
	switch core.PricingType(req.PricingType) {
	case core.PricingPrixFixe:
		pricing = core.PrixFixe{Price: price}
	case core.PricingChoice:
		pricing = core.Choice{MinCourses: req.MinCourses, MaxCourses: req.MaxCourses, Price: price}
	default:
		return core.MenuInput{}, fmt.Errorf("unknown pricing type %q", req.PricingType)
	}

	sections := make([]core.MenuSectionInput, 0, len(req.Sections))
	for _, sec := range req.Sections {
		sections = append(sections, core.MenuSectionInput{Name: sec.Name, DishIDs: sec.DishIDs})
	}
	return core.MenuInput{
		Name:     req.Name,
		Pricing:  pricing,
		IsActive: req.IsActive,
		Sections: sections,
	}, nil
}

// ── Restaurant ──────────────────────────────────────────────────────

func (s *appService) LoadDefaultRestaurant(ctx context.Context) (*core.Restaurant, error) {
	return s.restaurants.LoadDefaultRestaurant(ctx,
		os.Getenv("RESTAURANT_NAME"), os.Getenv("RESTAURANT_CURRENCY"))
}

// ── Products and stock ──────────────────────────────────────────────

func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) GetProduct(ctx context.Context, productID int) (*ProductResult, error) {
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) CreateProduct(ctx context.Context, req ProductRequest) (*ProductResult, error) {
	input, err := toProductInput(req)
	if err != nil {
		return nil, err
	}
	p, err := s.products.CreateProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) UpdateProduct(ctx context.Context, productID int, req ProductRequest) (*ProductResult, error) {
	input, err := toProductInput(req)
	if err != nil {
		return nil, err
	}
	p, err := s.products.UpdateProduct(ctx, productID, input)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) BulkDeleteProducts(ctx context.Context, productIDs []int) (*BulkDeleteResult, error) {
	if len(productIDs) == 0 {
		return nil, fmt.Errorf("at least one product ID is required")
	}
	outcome := s.products.BulkDeleteProducts(ctx, productIDs)
	return &BulkDeleteResult{Outcome: outcome}, nil
}

func (s *appService) AdjustStock(ctx context.Context, productID int, newQuantity string, notes string) (*ProductResult, error) {
	qty, err := parseRequired("quantity", newQuantity)
	if err != nil {
		return nil, err
	}
	p, err := s.products.AdjustStock(ctx, productID, qty, notes)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) SyncInventory(ctx context.Context, counts []SyncCountRequest) (*SyncResult, error) {
	syncCounts := make([]core.SyncCount, 0, len(counts))
	for i, c := range counts {
		counted, err := parseRequired("counted quantity", c.Counted)
		if err != nil {
			return nil, fmt.Errorf("count %d: %w", i+1, err)
		}
		syncCounts = append(syncCounts, core.SyncCount{ProductID: c.ProductID, Counted: counted})
	}
	applied, err := s.products.SyncCounts(ctx, syncCounts)
	if err != nil {
		return nil, err
	}
	return &SyncResult{Applied: applied}, nil
}

func (s *appService) GetStockOverview(ctx context.Context) (*StockOverviewResult, error) {
	entries, err := s.products.StockOverview(ctx)
	if err != nil {
		return nil, err
	}
	return &StockOverviewResult{Entries: entries}, nil
}

func (s *appService) GetReorderSuggestions(ctx context.Context) (*ReorderResult, error) {
	suggestions, err := s.products.ReorderSuggestions(ctx)
	if err != nil {
		return nil, err
	}
	return &ReorderResult{
		Suggestions: suggestions,
		Groups:      core.GroupBySupplier(suggestions),
	}, nil
}

// ── Dishes and costing ──────────────────────────────────────────────

func toDishInput(req DishRequest) (core.DishInput, error) {
	sellingPrice, err := parseOptional("selling price", req.SellingPrice)
	if err != nil {
		return core.DishInput{}, err
	}
	ingredients := make([]core.RecipeIngredientInput, 0, len(req.Ingredients))
	for i, ing := range req.Ingredients {
		qty, err := parseRequired("quantity required", ing.QuantityRequired)
		if err != nil {
			return core.DishInput{}, fmt.Errorf("ingredient %d: %w", i+1, err)
		}
		ingredients = append(ingredients, core.RecipeIngredientInput{
			ProductID:        ing.ProductID,
			QuantityRequired: qty,
			Unit:             core.Unit(ing.Unit),
		})
	}
	return core.DishInput{
		Name:         req.Name,
		Description:  req.Description,
		SellingPrice: sellingPrice,
		IsActive:     req.IsActive,
		Ingredients:  ingredients,
	}, nil
}

func (s *appService) ListDishes(ctx context.Context, activeOnly bool) (*DishListResult, error) {
	dishes, err := s.dishes.ListDishes(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return &DishListResult{Dishes: dishes}, nil
}

func (s *appService) GetDish(ctx context.Context, dishID int) (*DishResult, error) {
	d, err := s.dishes.GetDish(ctx, dishID)
	if err != nil {
		return nil, err
	}
	return &DishResult{Dish: d}, nil
}

func (s *appService) CreateDish(ctx context.Context, req DishRequest) (*DishResult, error) {
	input, err := toDishInput(req)
	if err != nil {
		return nil, err
	}
	d, err := s.dishes.CreateDish(ctx, input)
	if err != nil {
		return nil, err
	}
	return &DishResult{Dish: d}, nil
}

func (s *appService) UpdateDish(ctx context.Context, dishID int, req DishRequest) (*DishResult, error) {
	input, err := toDishInput(req)
	if err != nil {
		return nil, err
	}
	d, err := s.dishes.UpdateDish(ctx, dishID, input)
	if err != nil {
		return nil, err
	}
	return &DishResult{Dish: d}, nil
}

func (s *appService) DeleteDish(ctx context.Context, dishID int) error {
	return s.dishes.DeleteDish(ctx, dishID)
}

func (s *appService) GetDishCosting(ctx context.Context, dishID int) (*CostingResult, error) {
	c, err := s.dishes.GetCosting(ctx, dishID)
	if err != nil {
		return nil, err
	}
	return &CostingResult{Costing: c}, nil
}

func (s *appService) ListDishCostings(ctx context.Context) (*CostingListResult, error) {
	costings, err := s.dishes.ListCostings(ctx)
	if err != nil {
		return nil, err
	}
	return &CostingListResult{Costings: costings}, nil
}

// ── Menus ───────────────────────────────────────────────────────────

func (s *appService) ListMenus(ctx context.Context) (*MenuListResult, error) {
	menus, err := s.menus.ListMenus(ctx)
	if err != nil {
		return nil, err
	}
	return &MenuListResult{Menus: menus}, nil
}

func (s *appService) GetMenu(ctx context.Context, menuID int) (*MenuResult, error) {
	m, err := s.menus.GetMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	return &MenuResult{Menu: m}, nil
}

func (s *appService) CreateMenu(ctx context.Context, req MenuRequest) (*MenuResult, error) {
	input, err := toMenuInput(req)
	if err != nil {
		return nil, err
	}
	m, err := s.menus.CreateMenu(ctx, input)
	if err != nil {
		return nil, err
	}
	return &MenuResult{Menu: m}, nil
}

func (s *appService) UpdateMenu(ctx context.Context, menuID int, req MenuRequest) (*MenuResult, error) {
	input, err := toMenuInput(req)
	if err != nil {
		return nil, err
	}
	m, err := s.menus.UpdateMenu(ctx, menuID, input)
	if err != nil {
		return nil, err
	}
	return &MenuResult{Menu: m}, nil
}

func (s *appService) DeleteMenu(ctx context.Context, menuID int) error {
	return s.menus.DeleteMenu(ctx, menuID)
}

// ── Suppliers ───────────────────────────────────────────────────────

func (s *appService) ListSuppliers(ctx context.Context) (*SupplierListResult, error) {
	suppliers, err := s.suppliers.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	return &SupplierListResult{Suppliers: suppliers}, nil
}

func (s *appService) GetSupplier(ctx context.Context, supplierID int) (*SupplierResult, error) {
	v, err := s.suppliers.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return &SupplierResult{Supplier: v}, nil
}

func (s *appService) CreateSupplier(ctx context.Context, req SupplierRequest) (*SupplierResult, error) {
	v, err := s.suppliers.CreateSupplier(ctx, core.SupplierInput{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		return nil, err
	}
	return &SupplierResult{Supplier: v}, nil
}

func (s *appService) UpdateSupplier(ctx context.Context, supplierID int, req SupplierRequest) (*SupplierResult, error) {
	v, err := s.suppliers.UpdateSupplier(ctx, supplierID, core.SupplierInput{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		return nil, err
	}
	return &SupplierResult{Supplier: v}, nil
}

func (s *appService) DeactivateSupplier(ctx context.Context, supplierID int) error {
	return s.suppliers.DeactivateSupplier(ctx, supplierID)
}

// ── Document flows ──────────────────────────────────────────────────

func (s *appService) ExtractDocument(ctx context.Context, kind core.FlowKind, attachment Attachment) (*ExtractionResult, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("document extraction is not configured (missing OPENAI_API_KEY)")
	}
	doc, err := s.extractor.ExtractDocument(ctx, kind, attachment.Data, attachment.MimeType)
	if err != nil {
		return nil, err
	}
	header, items := doc.ToFlow()
	if len(items) == 0 {
		return nil, fmt.Errorf("no line items could be extracted from the document")
	}
	return &ExtractionResult{Header: header, Items: items}, nil
}

func (s *appService) ConfirmReception(ctx context.Context, req ReceptionRequest) (*BillResult, error) {
	lines, err := toLineItems(req.Lines)
	if err != nil {
		return nil, err
	}
	total, err := parseOptional("total amount", req.TotalAmount)
	if err != nil {
		return nil, err
	}
	bill, err := s.bills.ConfirmReception(ctx, core.ReceptionInput{
		SupplierName: req.SupplierName,
		BillDate:     req.BillDate,
		TotalAmount:  total,
		Lines:        lines,
	})
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

func (s *appService) ListBills(ctx context.Context, status string) (*BillListResult, error) {
	bills, err := s.bills.ListBills(ctx, core.BillStatus(status))
	if err != nil {
		return nil, err
	}
	return &BillListResult{Bills: bills}, nil
}

func (s *appService) GetBill(ctx context.Context, billID int) (*BillResult, error) {
	bill, err := s.bills.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

func (s *appService) ConfirmSale(ctx context.Context, req SaleRequest) (*SaleResult, error) {
	lines, err := toLineItems(req.Lines)
	if err != nil {
		return nil, err
	}
	total, err := parseOptional("total amount", req.TotalAmount)
	if err != nil {
		return nil, err
	}
	sale, err := s.sales.ConfirmSale(ctx, core.SaleInput{
		SaleDate:    req.SaleDate,
		TotalAmount: total,
		Lines:       lines,
	})
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) ListSales(ctx context.Context) (*SaleListResult, error) {
	sales, err := s.sales.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{Sales: sales}, nil
}

func (s *appService) GetSale(ctx context.Context, saleID int) (*SaleResult, error) {
	sale, err := s.sales.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

// ── Disputes ────────────────────────────────────────────────────────

func (s *appService) CreateDispute(ctx context.Context, req DisputeRequest) (*DisputeResult, error) {
	d, err := s.disputes.CreateDispute(ctx, core.DisputeInput{
		BillID:      req.BillID,
		Type:        core.DisputeType(req.Type),
		Description: req.Description,
		ProductIDs:  req.ProductIDs,
	})
	if err != nil {
		return nil, err
	}
	return &DisputeResult{Dispute: d}, nil
}

func (s *appService) UpdateDisputeStatus(ctx context.Context, disputeID int, status string, resolutionNotes string) (*DisputeResult, error) {
	d, err := s.disputes.UpdateStatus(ctx, disputeID, core.DisputeStatus(status), resolutionNotes)
	if err != nil {
		return nil, err
	}
	return &DisputeResult{Dispute: d}, nil
}

func (s *appService) GetDispute(ctx context.Context, disputeID int) (*DisputeResult, error) {
	d, err := s.disputes.GetDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	return &DisputeResult{Dispute: d}, nil
}

func (s *appService) ListDisputes(ctx context.Context, status string) (*DisputeListResult, error) {
	disputes, err := s.disputes.ListDisputes(ctx, core.DisputeStatus(status))
	if err != nil {
		return nil, err
	}
	return &DisputeListResult{Disputes: disputes}, nil
}
