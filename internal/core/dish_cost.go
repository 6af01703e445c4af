package core

import "github.com/shopspring/decimal"

// DishCosting is the derived cost summary for one dish.
type DishCosting struct {
	DishID       int              `json:"dish_id"`
	DishName     string           `json:"dish_name"`
	Cost         decimal.Decimal  `json:"cost"`
	HasAllPrices bool             `json:"has_all_prices"`
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
	Margin       *decimal.Decimal `json:"margin,omitempty"`
}

// DishCost sums quantityRequired × product unit price over the recipe.
// An ingredient without a price contributes zero to the sum and clears
// hasAllPrices, so callers can suppress a margin that would understate
// the true cost.
func DishCost(ingredients []RecipeIngredient) (cost decimal.Decimal, hasAllPrices bool) {
	hasAllPrices = true
	for _, ing := range ingredients {
		if ing.UnitPrice == nil {
			hasAllPrices = false
			continue
		}
		cost = cost.Add(ing.QuantityRequired.Mul(*ing.UnitPrice))
	}
	return cost, hasAllPrices
}

// Margin computes (sellingPrice − cost) / sellingPrice × 100. It returns nil
// when sellingPrice is absent or zero, or when cost is zero — no division by
// zero and no infinite margin on a free dish.
func Margin(cost decimal.Decimal, sellingPrice *decimal.Decimal) *decimal.Decimal {
	if sellingPrice == nil || sellingPrice.IsZero() || cost.IsZero() {
		return nil
	}
	m := sellingPrice.Sub(cost).Div(*sellingPrice).Mul(hundred)
	return &m
}

// Costing builds the full DishCosting view for a dish. Margin is suppressed
// whenever any ingredient is unpriced, even if a cost was computed.
func Costing(d Dish) DishCosting {
	cost, hasAll := DishCost(d.Ingredients)
	c := DishCosting{
		DishID:       d.ID,
		DishName:     d.Name,
		Cost:         cost,
		HasAllPrices: hasAll,
		SellingPrice: d.SellingPrice,
	}
	if hasAll {
		c.Margin = Margin(cost, d.SellingPrice)
	}
	return c
}
