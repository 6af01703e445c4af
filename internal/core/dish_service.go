package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DishService manages dishes and their ordered recipes.
type DishService interface {
	// CreateDish inserts a dish with its recipe in one transaction.
	CreateDish(ctx context.Context, input DishInput) (*Dish, error)
	// UpdateDish replaces the dish header and its entire recipe.
	UpdateDish(ctx context.Context, dishID int, input DishInput) (*Dish, error)
	GetDish(ctx context.Context, dishID int) (*Dish, error)
	ListDishes(ctx context.Context, activeOnly bool) ([]Dish, error)
	DeleteDish(ctx context.Context, dishID int) error

	// GetCosting returns the derived cost/margin view for one dish.
	GetCosting(ctx context.Context, dishID int) (*DishCosting, error)
	// ListCostings returns the costing view for every dish.
	ListCostings(ctx context.Context) ([]DishCosting, error)
}

type dishService struct {
	pool *pgxpool.Pool
}

// NewDishService constructs a DishService backed by PostgreSQL.
func NewDishService(pool *pgxpool.Pool) DishService {
	return &dishService{pool: pool}
}

func validateDishInput(input DishInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("dish name is required")
	}
	if input.SellingPrice != nil && input.SellingPrice.IsNegative() {
		return fmt.Errorf("selling price cannot be negative")
	}
	for i, ing := range input.Ingredients {
		if !ing.QuantityRequired.IsPositive() {
			return fmt.Errorf("ingredient %d: quantity required must be positive, got %s",
				i+1, ing.QuantityRequired)
		}
	}
	return nil
}

func (s *dishService) CreateDish(ctx context.Context, input DishInput) (*Dish, error) {
	if err := validateDishInput(input); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var dishID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO dishes (name, description, selling_price, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		strings.TrimSpace(input.Name), toPtr(input.Description), input.SellingPrice, input.IsActive,
	).Scan(&dishID); err != nil {
		return nil, fmt.Errorf("insert dish %q: %w", input.Name, err)
	}

	if err := insertIngredients(ctx, tx, dishID, input.Ingredients); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit dish: %w", err)
	}
	return s.GetDish(ctx, dishID)
}

func (s *dishService) UpdateDish(ctx context.Context, dishID int, input DishInput) (*Dish, error) {
	if err := validateDishInput(input); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE dishes
		SET name = $1, description = $2, selling_price = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5`,
		strings.TrimSpace(input.Name), toPtr(input.Description), input.SellingPrice,
		input.IsActive, dishID,
	)
	if err != nil {
		return nil, fmt.Errorf("update dish %d: %w", dishID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("dish %d %w", dishID, ErrNotFound)
	}

	// Replace the whole recipe; position order follows the input order.
	if _, err := tx.Exec(ctx, "DELETE FROM recipe_ingredients WHERE dish_id = $1", dishID); err != nil {
		return nil, fmt.Errorf("clear recipe for dish %d: %w", dishID, err)
	}
	if err := insertIngredients(ctx, tx, dishID, input.Ingredients); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit dish update: %w", err)
	}
	return s.GetDish(ctx, dishID)
}

func insertIngredients(ctx context.Context, tx pgx.Tx, dishID int, ingredients []RecipeIngredientInput) error {
	for i, ing := range ingredients {
		unit := ing.Unit
		if unit == "" {
			// Default to the product's native unit.
			if err := tx.QueryRow(ctx,
				"SELECT unit FROM products WHERE id = $1", ing.ProductID,
			).Scan(&unit); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return fmt.Errorf("ingredient %d: product %d %w", i+1, ing.ProductID, ErrNotFound)
				}
				return fmt.Errorf("ingredient %d: resolve product %d: %w", i+1, ing.ProductID, err)
			}
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO recipe_ingredients (dish_id, product_id, position, quantity_required, unit)
			VALUES ($1, $2, $3, $4, $5)`,
			dishID, ing.ProductID, i+1, ing.QuantityRequired, unit,
		); err != nil {
			return fmt.Errorf("insert ingredient %d for dish %d: %w", i+1, dishID, err)
		}
	}
	return nil
}

func (s *dishService) GetDish(ctx context.Context, dishID int) (*Dish, error) {
	d := &Dish{}
	if err := s.pool.QueryRow(ctx, `
		SELECT id, name, description, selling_price, is_active, created_at, updated_at
		FROM dishes WHERE id = $1`, dishID,
	).Scan(&d.ID, &d.Name, &d.Description, &d.SellingPrice, &d.IsActive,
		&d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("dish %d %w", dishID, ErrNotFound)
		}
		return nil, fmt.Errorf("get dish %d: %w", dishID, err)
	}

	ingredients, err := s.fetchIngredients(ctx, dishID)
	if err != nil {
		return nil, err
	}
	d.Ingredients = ingredients
	return d, nil
}

func (s *dishService) fetchIngredients(ctx context.Context, dishID int) ([]RecipeIngredient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ri.id, ri.dish_id, ri.product_id, p.name, ri.position,
		       ri.quantity_required, ri.unit, p.unit_price
		FROM recipe_ingredients ri
		JOIN products p ON p.id = ri.product_id
		WHERE ri.dish_id = $1
		ORDER BY ri.position`, dishID)
	if err != nil {
		return nil, fmt.Errorf("fetch recipe for dish %d: %w", dishID, err)
	}
	defer rows.Close()

	var ingredients []RecipeIngredient
	for rows.Next() {
		var ing RecipeIngredient
		if err := rows.Scan(&ing.ID, &ing.DishID, &ing.ProductID, &ing.ProductName,
			&ing.Position, &ing.QuantityRequired, &ing.Unit, &ing.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

func (s *dishService) ListDishes(ctx context.Context, activeOnly bool) ([]Dish, error) {
	query := `
		SELECT id, name, description, selling_price, is_active, created_at, updated_at
		FROM dishes`
	if activeOnly {
		query += " WHERE is_active = true"
	}
	query += " ORDER BY name"

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	defer rows.Close()

	var dishes []Dish
	for rows.Next() {
		var d Dish
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.SellingPrice,
			&d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		dishes = append(dishes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range dishes {
		ingredients, err := s.fetchIngredients(ctx, dishes[i].ID)
		if err != nil {
			return nil, err
		}
		dishes[i].Ingredients = ingredients
	}
	return dishes, nil
}

func (s *dishService) DeleteDish(ctx context.Context, dishID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM dishes WHERE id = $1", dishID)
	if err != nil {
		return fmt.Errorf("delete dish %d: %w", dishID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dish %d %w", dishID, ErrNotFound)
	}
	return nil
}

func (s *dishService) GetCosting(ctx context.Context, dishID int) (*DishCosting, error) {
	d, err := s.GetDish(ctx, dishID)
	if err != nil {
		return nil, err
	}
	c := Costing(*d)
	return &c, nil
}

func (s *dishService) ListCostings(ctx context.Context) ([]DishCosting, error) {
	dishes, err := s.ListDishes(ctx, false)
	if err != nil {
		return nil, err
	}
	costings := make([]DishCosting, 0, len(dishes))
	for _, d := range dishes {
		costings = append(costings, Costing(d))
	}
	return costings, nil
}
