package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dish is a menu item with an ordered recipe. Cost is always derived from
// the recipe, never stored.
type Dish struct {
	ID           int                `json:"id"`
	Name         string             `json:"name"`
	Description  *string            `json:"description,omitempty"`
	SellingPrice *decimal.Decimal   `json:"selling_price,omitempty"`
	IsActive     bool               `json:"is_active"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// RecipeIngredient links a dish to one product. Unit may differ from the
// product's native unit; no conversion is performed.
type RecipeIngredient struct {
	ID               int              `json:"id"`
	DishID           int              `json:"dish_id"`
	ProductID        int              `json:"product_id"`
	ProductName      string           `json:"product_name"`
	Position         int              `json:"position"`
	QuantityRequired decimal.Decimal  `json:"quantity_required"`
	Unit             Unit             `json:"unit"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"` // from the product
}

// RecipeIngredientInput holds the fields required to attach an ingredient.
type RecipeIngredientInput struct {
	ProductID        int
	QuantityRequired decimal.Decimal
	Unit             Unit
}

// DishInput holds the fields required to create or update a dish.
type DishInput struct {
	Name         string
	Description  string
	SellingPrice *decimal.Decimal
	IsActive     bool
	Ingredients  []RecipeIngredientInput
}
