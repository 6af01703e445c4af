package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ProductInput holds the fields required to create or update a product.
type ProductInput struct {
	Name      string
	Quantity  decimal.Decimal
	Unit      Unit
	UnitPrice *decimal.Decimal
	ParLevel  *decimal.Decimal
	Category  string
	Trackable bool
	Composite bool
}

// StockEntry is a product with its computed urgency classification.
type StockEntry struct {
	Product           Product          `json:"product"`
	Status            StockStatus      `json:"status,omitempty"`
	MenuTotalNeeded   *decimal.Decimal `json:"menu_total_needed,omitempty"`
	ServingsAvailable *decimal.Decimal `json:"servings_available,omitempty"`
}

// SyncCount is one counted quantity from the inventory re-sync flow.
type SyncCount struct {
	ProductID int
	Counted   decimal.Decimal
}

// BulkDeleteResult aggregates per-row outcomes of a bulk delete.
// There is no atomicity across rows: a partial failure leaves some rows
// deleted and others not.
type BulkDeleteResult struct {
	Deleted int      `json:"deleted"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ProductService manages the product catalogue and stock levels.
type ProductService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, productID int, input ProductInput) (*Product, error)
	GetProduct(ctx context.Context, productID int) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)

	// AdjustStock sets a product's quantity to newQuantity and records a
	// MANUAL stock movement for the delta.
	AdjustStock(ctx context.Context, productID int, newQuantity decimal.Decimal, notes string) (*Product, error)

	// BulkDeleteProducts issues one independent delete per ID concurrently
	// and aggregates success/failure counts. Products referenced by a recipe
	// fail their individual delete and are reported, not rolled back.
	BulkDeleteProducts(ctx context.Context, productIDs []int) BulkDeleteResult

	// SyncCounts applies the counted quantities from the inventory re-sync
	// flow in a single transaction, recording SYNC_ADJUST movements.
	SyncCounts(ctx context.Context, counts []SyncCount) (int, error)

	// StockOverview returns every product with its classification, using
	// active-menu demand where it exists and par level otherwise.
	StockOverview(ctx context.Context) ([]StockEntry, error)

	// MenuDemandByProduct sums quantityRequired per product over the recipe
	// ingredients of active dishes placed on active menus.
	MenuDemandByProduct(ctx context.Context) (map[int]MenuDemand, error)

	// ReorderSuggestions derives the replenishment list for trackable
	// below-par products, most urgent first.
	ReorderSuggestions(ctx context.Context) ([]ReorderSuggestion, error)
}

type productService struct {
	pool *pgxpool.Pool
}

// NewProductService constructs a ProductService backed by PostgreSQL.
func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

const productColumns = `id, name, quantity, unit, unit_price, par_level, category,
       trackable, composite, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Quantity, &p.Unit, &p.UnitPrice, &p.ParLevel,
		&p.Category, &p.Trackable, &p.Composite, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if input.Quantity.IsNegative() {
		return fmt.Errorf("product quantity cannot be negative, got %s", input.Quantity)
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return fmt.Errorf("unit price cannot be negative, got %s", input.UnitPrice)
	}
	if input.ParLevel != nil && input.ParLevel.IsNegative() {
		return fmt.Errorf("par level cannot be negative, got %s", input.ParLevel)
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	var category *string
	if input.Category != "" {
		category = &input.Category
	}
	unit := input.Unit
	if unit == "" {
		unit = UnitPC
	}

	p, err := scanProduct(s.pool.QueryRow(ctx, `
		INSERT INTO products (name, quantity, unit, unit_price, par_level, category, trackable, composite)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+productColumns,
		strings.TrimSpace(input.Name), input.Quantity, unit, input.UnitPrice,
		input.ParLevel, category, input.Trackable, input.Composite,
	))
	if err != nil {
		return nil, fmt.Errorf("create product %q: %w", input.Name, err)
	}
	return p, nil
}

func (s *productService) UpdateProduct(ctx context.Context, productID int, input ProductInput) (*Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	var category *string
	if input.Category != "" {
		category = &input.Category
	}

	p, err := scanProduct(s.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $1, quantity = $2, unit = $3, unit_price = $4, par_level = $5,
		    category = $6, trackable = $7, composite = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING `+productColumns,
		strings.TrimSpace(input.Name), input.Quantity, input.Unit, input.UnitPrice,
		input.ParLevel, category, input.Trackable, input.Composite, productID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("update product %d: %w", productID, err)
	}
	return p, nil
}

func (s *productService) GetProduct(ctx context.Context, productID int) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", productID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}
	return p, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// AdjustStock sets the quantity and records a MANUAL movement for the delta.
func (s *productService) AdjustStock(ctx context.Context, productID int, newQuantity decimal.Decimal, notes string) (*Product, error) {
	if newQuantity.IsNegative() {
		return nil, fmt.Errorf("quantity cannot be negative, got %s", newQuantity)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var oldQty decimal.Decimal
	if err := tx.QueryRow(ctx,
		"SELECT quantity FROM products WHERE id = $1 FOR UPDATE", productID,
	).Scan(&oldQty); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("lock product %d: %w", productID, err)
	}

	p, err := scanProduct(tx.QueryRow(ctx, `
		UPDATE products SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+productColumns,
		newQuantity, productID,
	))
	if err != nil {
		return nil, fmt.Errorf("adjust stock for product %d: %w", productID, err)
	}

	var toNotes *string
	if notes != "" {
		toNotes = &notes
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO stock_movements (product_id, movement_type, quantity, notes)
		VALUES ($1, 'MANUAL', $2, $3)`,
		productID, newQuantity.Sub(oldQty), toNotes,
	); err != nil {
		return nil, fmt.Errorf("record manual movement for product %d: %w", productID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit stock adjustment: %w", err)
	}
	return p, nil
}

// BulkDeleteProducts issues the deletes concurrently, one per ID, and
// aggregates outcomes. This mirrors the inventory screen's row selection:
// partial failure is reported, never compensated.
func (s *productService) BulkDeleteProducts(ctx context.Context, productIDs []int) BulkDeleteResult {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result BulkDeleteResult
	)

	for _, id := range productIDs {
		wg.Add(1)
		go func(productID int) {
			defer wg.Done()
			tag, err := s.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", productID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("product %d: %v", productID, err))
			case tag.RowsAffected() == 0:
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("product %d: not found", productID))
			default:
				result.Deleted++
			}
		}(id)
	}

	wg.Wait()
	return result
}

// SyncCounts applies counted quantities in one transaction with SYNC_ADJUST
// movements for each changed product.
func (s *productService) SyncCounts(ctx context.Context, counts []SyncCount) (int, error) {
	if len(counts) == 0 {
		return 0, fmt.Errorf("at least one counted product is required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	applied := 0
	for _, c := range counts {
		if c.Counted.IsNegative() {
			return 0, fmt.Errorf("counted quantity for product %d cannot be negative", c.ProductID)
		}

		var oldQty decimal.Decimal
		if err := tx.QueryRow(ctx,
			"SELECT quantity FROM products WHERE id = $1 FOR UPDATE", c.ProductID,
		).Scan(&oldQty); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, fmt.Errorf("product %d %w", c.ProductID, ErrNotFound)
			}
			return 0, fmt.Errorf("lock product %d: %w", c.ProductID, err)
		}

		if oldQty.Equal(c.Counted) {
			continue
		}

		if _, err := tx.Exec(ctx,
			"UPDATE products SET quantity = $1, updated_at = NOW() WHERE id = $2",
			c.Counted, c.ProductID,
		); err != nil {
			return 0, fmt.Errorf("sync product %d: %w", c.ProductID, err)
		}

		notes := fmt.Sprintf("Inventory sync: counted %s, was %s", c.Counted.String(), oldQty.String())
		if _, err := tx.Exec(ctx, `
			INSERT INTO stock_movements (product_id, movement_type, quantity, notes)
			VALUES ($1, 'SYNC_ADJUST', $2, $3)`,
			c.ProductID, c.Counted.Sub(oldQty), notes,
		); err != nil {
			return 0, fmt.Errorf("record sync movement for product %d: %w", c.ProductID, err)
		}
		applied++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit inventory sync: %w", err)
	}
	return applied, nil
}

func (s *productService) StockOverview(ctx context.Context) ([]StockEntry, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	demand, err := s.MenuDemandByProduct(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]StockEntry, 0, len(products))
	for _, p := range products {
		entry := StockEntry{Product: p}
		if d, ok := demand[p.ID]; ok && d.TotalNeeded.IsPositive() {
			dd := d
			entry.MenuTotalNeeded = &dd.TotalNeeded
			servings := p.Quantity.Div(dd.TotalNeeded).Floor()
			entry.ServingsAvailable = &servings
			entry.Status = ClassifyStock(p.Quantity, p.ParLevel, &dd)
		} else {
			entry.Status = ClassifyStock(p.Quantity, p.ParLevel, nil)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// MenuDemandByProduct walks active menus → sections → dishes → recipes.
// Inactive dishes and inactive menus contribute nothing.
func (s *productService) MenuDemandByProduct(ctx context.Context) (map[int]MenuDemand, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ri.product_id, SUM(ri.quantity_required)
		FROM recipe_ingredients ri
		JOIN dishes d        ON d.id = ri.dish_id AND d.is_active = true
		JOIN menu_dishes md  ON md.dish_id = d.id
		JOIN menu_sections ms ON ms.id = md.section_id
		JOIN menus m         ON m.id = ms.menu_id AND m.is_active = true
		GROUP BY ri.product_id`)
	if err != nil {
		return nil, fmt.Errorf("query menu demand: %w", err)
	}
	defer rows.Close()

	demand := make(map[int]MenuDemand)
	for rows.Next() {
		var d MenuDemand
		if err := rows.Scan(&d.ProductID, &d.TotalNeeded); err != nil {
			return nil, fmt.Errorf("scan menu demand: %w", err)
		}
		demand[d.ProductID] = d
	}
	return demand, rows.Err()
}

func (s *productService) ReorderSuggestions(ctx context.Context) ([]ReorderSuggestion, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	lastSupplier, err := s.lastSupplierByProduct(ctx)
	if err != nil {
		return nil, err
	}
	return BuildReorderSuggestions(products, lastSupplier), nil
}

// lastSupplierByProduct resolves, per product, the supplier on the most
// recent bill whose lines mention the product by name.
func (s *productService) lastSupplierByProduct(ctx context.Context) (map[int]SupplierRef, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, b.supplier_id, COALESCE(sup.name, b.supplier_name)
		FROM products p
		JOIN LATERAL (
			SELECT bl.bill_id
			FROM bill_lines bl
			WHERE lower(bl.name) = lower(p.name)
			ORDER BY bl.id DESC
			LIMIT 1
		) latest ON true
		JOIN bills b ON b.id = latest.bill_id
		LEFT JOIN suppliers sup ON sup.id = b.supplier_id`)
	if err != nil {
		return nil, fmt.Errorf("query last suppliers: %w", err)
	}
	defer rows.Close()

	refs := make(map[int]SupplierRef)
	for rows.Next() {
		var productID int
		var ref SupplierRef
		if err := rows.Scan(&productID, &ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan last supplier: %w", err)
		}
		refs[productID] = ref
	}
	return refs, rows.Err()
}
