package core_test

import (
	"testing"

	"resto-backoffice/internal/core"
)

func TestDishCost(t *testing.T) {
	t.Run("sums quantity times unit price", func(t *testing.T) {
		ingredients := []core.RecipeIngredient{
			{ProductID: 1, QuantityRequired: dec("0.2"), UnitPrice: decPtr("10.00")},
			{ProductID: 2, QuantityRequired: dec("3"), UnitPrice: decPtr("3.00")},
		}
		cost, hasAll := core.DishCost(ingredients)
		if !cost.Equal(dec("11")) {
			t.Errorf("expected cost 11, got %s", cost)
		}
		if !hasAll {
			t.Error("expected hasAllPrices with every ingredient priced")
		}
	})

	t.Run("unpriced ingredient contributes zero and clears the flag", func(t *testing.T) {
		ingredients := []core.RecipeIngredient{
			{ProductID: 1, QuantityRequired: dec("0.2"), UnitPrice: decPtr("10.00")},
			{ProductID: 2, QuantityRequired: dec("5"), UnitPrice: nil},
		}
		cost, hasAll := core.DishCost(ingredients)
		if !cost.Equal(dec("2")) {
			t.Errorf("expected cost 2, got %s", cost)
		}
		if hasAll {
			t.Error("expected hasAllPrices to be false with an unpriced ingredient")
		}
	})

	t.Run("empty recipe costs zero", func(t *testing.T) {
		cost, hasAll := core.DishCost(nil)
		if !cost.IsZero() {
			t.Errorf("expected zero cost, got %s", cost)
		}
		if !hasAll {
			t.Error("empty recipe has no missing prices")
		}
	})
}

func TestMargin(t *testing.T) {
	t.Run("standard margin", func(t *testing.T) {
		m := core.Margin(dec("11"), decPtr("15"))
		if m == nil {
			t.Fatal("expected a margin, got nil")
		}
		// (15 − 11) / 15 × 100 = 26.666…
		if !m.Round(2).Equal(dec("26.67")) {
			t.Errorf("expected margin ≈26.67, got %s", m)
		}
	})

	t.Run("negative margin allowed", func(t *testing.T) {
		m := core.Margin(dec("20"), decPtr("15"))
		if m == nil {
			t.Fatal("expected a margin, got nil")
		}
		if !m.IsNegative() {
			t.Errorf("expected negative margin, got %s", m)
		}
	})

	t.Run("nil without a selling price", func(t *testing.T) {
		if m := core.Margin(dec("11"), nil); m != nil {
			t.Errorf("expected nil margin, got %s", m)
		}
	})

	t.Run("nil when cost is zero", func(t *testing.T) {
		if m := core.Margin(dec("0"), decPtr("15")); m != nil {
			t.Errorf("expected nil margin on zero cost, got %s", m)
		}
	})

	t.Run("nil when selling price is zero", func(t *testing.T) {
		if m := core.Margin(dec("11"), decPtr("0")); m != nil {
			t.Errorf("expected nil margin on zero selling price, got %s", m)
		}
	})
}

func TestCosting_SuppressesMarginOnMissingPrices(t *testing.T) {
	d := core.Dish{
		ID:           1,
		Name:         "Ratatouille",
		SellingPrice: decPtr("15"),
		Ingredients: []core.RecipeIngredient{
			{ProductID: 1, QuantityRequired: dec("0.5"), UnitPrice: decPtr("4.00")},
			{ProductID: 2, QuantityRequired: dec("0.3"), UnitPrice: nil},
		},
	}

	c := core.Costing(d)
	if !c.Cost.Equal(dec("2")) {
		t.Errorf("expected cost 2, got %s", c.Cost)
	}
	if c.HasAllPrices {
		t.Error("expected HasAllPrices false")
	}
	if c.Margin != nil {
		t.Errorf("margin must be suppressed when an ingredient is unpriced, got %s", c.Margin)
	}
}

func TestCosting_FullyPriced(t *testing.T) {
	d := core.Dish{
		ID:           2,
		Name:         "Omelette",
		SellingPrice: decPtr("15"),
		Ingredients: []core.RecipeIngredient{
			{ProductID: 1, QuantityRequired: dec("0.2"), UnitPrice: decPtr("10.00")},
			{ProductID: 2, QuantityRequired: dec("3"), UnitPrice: decPtr("3.00")},
		},
	}

	c := core.Costing(d)
	if !c.HasAllPrices {
		t.Fatal("expected HasAllPrices true")
	}
	if c.Margin == nil {
		t.Fatal("expected a margin")
	}
	if !c.Margin.Round(2).Equal(dec("26.67")) {
		t.Errorf("expected margin ≈26.67, got %s", c.Margin)
	}
}
