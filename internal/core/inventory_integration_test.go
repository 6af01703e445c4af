package core_test

import (
	"context"
	"os"
	"testing"

	"resto-backoffice/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE stock_movements, dispute_products, disputes, sale_lines, sales,
			bill_lines, bills, menu_dishes, menu_sections, menus,
			recipe_ingredients, dishes, products, suppliers, restaurants
		RESTART IDENTITY CASCADE;

		INSERT INTO restaurants (name, currency) VALUES ('Test Bistro', 'EUR');
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func TestProduct_CreateAdjustAndMove(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewProductService(pool)

	p, err := svc.CreateProduct(ctx, core.ProductInput{
		Name:      "Flour",
		Quantity:  dec("5"),
		Unit:      core.UnitKG,
		UnitPrice: decPtr("1.20"),
		ParLevel:  decPtr("20"),
		Trackable: true,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected product ID to be set")
	}

	t.Run("AdjustStock_RecordsManualMovement", func(t *testing.T) {
		updated, err := svc.AdjustStock(ctx, p.ID, dec("12"), "stocktake correction")
		if err != nil {
			t.Fatalf("AdjustStock: %v", err)
		}
		if !updated.Quantity.Equal(dec("12")) {
			t.Errorf("expected quantity 12, got %s", updated.Quantity)
		}

		var movementType string
		var delta string
		err = pool.QueryRow(ctx, `
			SELECT movement_type, quantity::text FROM stock_movements
			WHERE product_id = $1 ORDER BY id DESC LIMIT 1`, p.ID,
		).Scan(&movementType, &delta)
		if err != nil {
			t.Fatalf("query movement: %v", err)
		}
		if movementType != "MANUAL" {
			t.Errorf("expected MANUAL movement, got %s", movementType)
		}
		if !dec(delta).Equal(dec("7")) {
			t.Errorf("expected delta 7, got %s", delta)
		}
	})

	t.Run("AdjustStock_RejectsNegative", func(t *testing.T) {
		if _, err := svc.AdjustStock(ctx, p.ID, dec("-1"), ""); err == nil {
			t.Error("expected error for negative quantity")
		}
	})

	t.Run("SyncCounts_SkipsUnchanged", func(t *testing.T) {
		applied, err := svc.SyncCounts(ctx, []core.SyncCount{
			{ProductID: p.ID, Counted: dec("12")}, // unchanged
		})
		if err != nil {
			t.Fatalf("SyncCounts: %v", err)
		}
		if applied != 0 {
			t.Errorf("expected 0 applied for unchanged count, got %d", applied)
		}

		applied, err = svc.SyncCounts(ctx, []core.SyncCount{
			{ProductID: p.ID, Counted: dec("9.5")},
		})
		if err != nil {
			t.Fatalf("SyncCounts: %v", err)
		}
		if applied != 1 {
			t.Errorf("expected 1 applied, got %d", applied)
		}
	})
}

func TestReception_CreatesAndIncrementsProducts(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	products := core.NewProductService(pool)
	bills := core.NewBillService(pool)

	existing, err := products.CreateProduct(ctx, core.ProductInput{
		Name: "Milk", Quantity: dec("2"), Unit: core.UnitL, Trackable: true,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	bill, err := bills.ConfirmReception(ctx, core.ReceptionInput{
		SupplierName: "Metro",
		BillDate:     "2026-03-14",
		TotalAmount:  decPtr("23.30"),
		Lines: []core.LineItem{
			{Name: "Milk", Quantity: dec("12"), Unit: core.UnitL, UnitPrice: decPtr("0.95")},
			{Name: "Burrata", Quantity: dec("6"), Unit: core.UnitPC, UnitPrice: decPtr("2.00")},
		},
	})
	if err != nil {
		t.Fatalf("ConfirmReception: %v", err)
	}
	if bill.Status != core.BillProcessed {
		t.Errorf("expected PROCESSED bill, got %s", bill.Status)
	}
	if len(bill.Lines) != 2 {
		t.Fatalf("expected 2 bill lines, got %d", len(bill.Lines))
	}

	milk, err := products.GetProduct(ctx, existing.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if !milk.Quantity.Equal(dec("14")) {
		t.Errorf("expected milk quantity 14 after reception, got %s", milk.Quantity)
	}
	if milk.UnitPrice == nil || !milk.UnitPrice.Equal(dec("0.95")) {
		t.Errorf("expected milk unit price refreshed to 0.95, got %v", milk.UnitPrice)
	}

	// The unknown line created a trackable product at the delivered quantity.
	all, err := products.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	found := false
	for _, p := range all {
		if p.Name == "Burrata" {
			found = true
			if !p.Quantity.Equal(dec("6")) {
				t.Errorf("expected burrata quantity 6, got %s", p.Quantity)
			}
			if !p.Trackable {
				t.Error("expected created product to be trackable")
			}
		}
	}
	if !found {
		t.Error("expected reception to create the unknown product")
	}
}

func TestSale_DeductsRecipeAndClampsAtZero(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	products := core.NewProductService(pool)
	dishes := core.NewDishService(pool)
	sales := core.NewSaleService(pool)

	eggs, err := products.CreateProduct(ctx, core.ProductInput{
		Name: "Eggs", Quantity: dec("5"), Unit: core.UnitPC, Trackable: true,
	})
	if err != nil {
		t.Fatalf("CreateProduct eggs: %v", err)
	}
	butter, err := products.CreateProduct(ctx, core.ProductInput{
		Name: "Butter", Quantity: dec("0.1"), Unit: core.UnitKG, Trackable: true,
	})
	if err != nil {
		t.Fatalf("CreateProduct butter: %v", err)
	}

	_, err = dishes.CreateDish(ctx, core.DishInput{
		Name:         "Omelette",
		SellingPrice: decPtr("9.50"),
		IsActive:     true,
		Ingredients: []core.RecipeIngredientInput{
			{ProductID: eggs.ID, QuantityRequired: dec("3")},
			{ProductID: butter.ID, QuantityRequired: dec("0.05")},
		},
	})
	if err != nil {
		t.Fatalf("CreateDish: %v", err)
	}

	sale, err := sales.ConfirmSale(ctx, core.SaleInput{
		SaleDate: "2026-03-14",
		Lines: []core.LineItem{
			{Name: "Omelette", Quantity: dec("2"), UnitPrice: decPtr("9.50")},
			{Name: "Mystery special", Quantity: dec("1")}, // matches no dish
		},
	})
	if err != nil {
		t.Fatalf("ConfirmSale: %v", err)
	}
	if len(sale.Lines) != 2 {
		t.Fatalf("expected 2 sale lines, got %d", len(sale.Lines))
	}

	// Eggs: 5 − 2×3 clamps at 0. Butter: 0.1 − 2×0.05 = 0.
	gotEggs, _ := products.GetProduct(ctx, eggs.ID)
	if !gotEggs.Quantity.IsZero() {
		t.Errorf("expected eggs clamped at 0, got %s", gotEggs.Quantity)
	}
	gotButter, _ := products.GetProduct(ctx, butter.ID)
	if !gotButter.Quantity.IsZero() {
		t.Errorf("expected butter at 0, got %s", gotButter.Quantity)
	}

	// The clamped deduction records only what actually left stock.
	var delta string
	err = pool.QueryRow(ctx, `
		SELECT quantity::text FROM stock_movements
		WHERE product_id = $1 AND movement_type = 'SALE_DEDUCT'`, eggs.ID,
	).Scan(&delta)
	if err != nil {
		t.Fatalf("query sale movement: %v", err)
	}
	if !dec(delta).Equal(dec("-5")) {
		t.Errorf("expected movement -5, got %s", delta)
	}
}

func TestDispute_LifecycleGuards(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	bills := core.NewBillService(pool)
	disputes := core.NewDisputeService(pool)

	bill, err := bills.ConfirmReception(ctx, core.ReceptionInput{
		SupplierName: "Metro",
		Lines: []core.LineItem{
			{Name: "Cream", Quantity: dec("4"), Unit: core.UnitL, UnitPrice: decPtr("1.80")},
		},
	})
	if err != nil {
		t.Fatalf("ConfirmReception: %v", err)
	}

	d, err := disputes.CreateDispute(ctx, core.DisputeInput{
		BillID:      bill.ID,
		Type:        core.DisputeReturn,
		Description: "Cream arrived spoiled",
	})
	if err != nil {
		t.Fatalf("CreateDispute: %v", err)
	}
	if d.Status != core.DisputeOpen {
		t.Errorf("expected OPEN, got %s", d.Status)
	}

	// Opening a dispute flips the bill.
	got, err := bills.GetBill(ctx, bill.ID)
	if err != nil {
		t.Fatalf("GetBill: %v", err)
	}
	if got.Status != core.BillDisputed {
		t.Errorf("expected DISPUTED bill, got %s", got.Status)
	}

	t.Run("ResolveRequiresNotes", func(t *testing.T) {
		if _, err := disputes.UpdateStatus(ctx, d.ID, core.DisputeResolved, ""); err == nil {
			t.Error("expected error resolving without notes")
		}
	})

	t.Run("ResolveThenNoReopen", func(t *testing.T) {
		resolved, err := disputes.UpdateStatus(ctx, d.ID, core.DisputeResolved, "Credit note received")
		if err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		if resolved.ResolutionNotes == nil || *resolved.ResolutionNotes != "Credit note received" {
			t.Errorf("expected resolution notes persisted, got %v", resolved.ResolutionNotes)
		}

		if _, err := disputes.UpdateStatus(ctx, d.ID, core.DisputeOpen, ""); err == nil {
			t.Error("expected error reopening a resolved dispute")
		}
	})
}
