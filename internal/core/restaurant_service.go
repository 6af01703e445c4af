package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RestaurantService exposes the single tenant record of a deployment.
type RestaurantService interface {
	// LoadDefaultRestaurant returns the restaurant row, creating one from
	// RESTAURANT_NAME (or a placeholder) on first run.
	LoadDefaultRestaurant(ctx context.Context, name, currency string) (*Restaurant, error)

	// UpdateRestaurant renames the tenant or changes its currency label.
	UpdateRestaurant(ctx context.Context, restaurantID int, name, currency string) (*Restaurant, error)
}

type restaurantService struct {
	pool *pgxpool.Pool
}

// NewRestaurantService constructs a RestaurantService backed by PostgreSQL.
func NewRestaurantService(pool *pgxpool.Pool) RestaurantService {
	return &restaurantService{pool: pool}
}

func (s *restaurantService) LoadDefaultRestaurant(ctx context.Context, name, currency string) (*Restaurant, error) {
	r := &Restaurant{}
	err := s.pool.QueryRow(ctx,
		"SELECT id, name, currency, created_at FROM restaurants ORDER BY id LIMIT 1",
	).Scan(&r.ID, &r.Name, &r.Currency, &r.CreatedAt)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load restaurant: %w", err)
	}

	if name == "" {
		name = "My Restaurant"
	}
	if currency == "" {
		currency = "EUR"
	}
	if err := s.pool.QueryRow(ctx, `
		INSERT INTO restaurants (name, currency)
		VALUES ($1, $2)
		RETURNING id, name, currency, created_at`,
		name, currency,
	).Scan(&r.ID, &r.Name, &r.Currency, &r.CreatedAt); err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	return r, nil
}

func (s *restaurantService) UpdateRestaurant(ctx context.Context, restaurantID int, name, currency string) (*Restaurant, error) {
	r := &Restaurant{}
	err := s.pool.QueryRow(ctx, `
		UPDATE restaurants SET name = $1, currency = $2
		WHERE id = $3
		RETURNING id, name, currency, created_at`,
		name, currency, restaurantID,
	).Scan(&r.ID, &r.Name, &r.Currency, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("restaurant %d %w", restaurantID, ErrNotFound)
		}
		return nil, fmt.Errorf("update restaurant %d: %w", restaurantID, err)
	}
	return r, nil
}
