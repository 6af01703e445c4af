package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SupplierService manages the vendor directory bills and disputes refer to.
type SupplierService interface {
	CreateSupplier(ctx context.Context, input SupplierInput) (*Supplier, error)
	UpdateSupplier(ctx context.Context, supplierID int, input SupplierInput) (*Supplier, error)
	GetSupplier(ctx context.Context, supplierID int) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)
	// DeactivateSupplier soft-deletes; bill history keeps pointing at the row.
	DeactivateSupplier(ctx context.Context, supplierID int) error
}

type supplierService struct {
	pool *pgxpool.Pool
}

// NewSupplierService constructs a SupplierService backed by PostgreSQL.
func NewSupplierService(pool *pgxpool.Pool) SupplierService {
	return &supplierService{pool: pool}
}

const supplierColumns = `id, name, contact_person, email, phone, address, is_active, created_at`

func scanSupplier(row pgx.Row) (*Supplier, error) {
	v := &Supplier{}
	err := row.Scan(&v.ID, &v.Name, &v.ContactPerson, &v.Email, &v.Phone,
		&v.Address, &v.IsActive, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func toPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *supplierService) CreateSupplier(ctx context.Context, input SupplierInput) (*Supplier, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("supplier name is required")
	}

	v, err := scanSupplier(s.pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, contact_person, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+supplierColumns,
		strings.TrimSpace(input.Name), toPtr(input.ContactPerson), toPtr(input.Email),
		toPtr(input.Phone), toPtr(input.Address),
	))
	if err != nil {
		return nil, fmt.Errorf("create supplier %q: %w", input.Name, err)
	}
	return v, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, supplierID int, input SupplierInput) (*Supplier, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("supplier name is required")
	}

	v, err := scanSupplier(s.pool.QueryRow(ctx, `
		UPDATE suppliers
		SET name = $1, contact_person = $2, email = $3, phone = $4, address = $5
		WHERE id = $6
		RETURNING `+supplierColumns,
		strings.TrimSpace(input.Name), toPtr(input.ContactPerson), toPtr(input.Email),
		toPtr(input.Phone), toPtr(input.Address), supplierID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("supplier %d %w", supplierID, ErrNotFound)
		}
		return nil, fmt.Errorf("update supplier %d: %w", supplierID, err)
	}
	return v, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, supplierID int) (*Supplier, error) {
	v, err := scanSupplier(s.pool.QueryRow(ctx,
		"SELECT "+supplierColumns+" FROM suppliers WHERE id = $1", supplierID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("supplier %d %w", supplierID, ErrNotFound)
		}
		return nil, fmt.Errorf("get supplier %d: %w", supplierID, err)
	}
	return v, nil
}

func (s *supplierService) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+supplierColumns+" FROM suppliers WHERE is_active = true ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		v, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, *v)
	}
	return suppliers, rows.Err()
}

func (s *supplierService) DeactivateSupplier(ctx context.Context, supplierID int) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE suppliers SET is_active = false WHERE id = $1", supplierID)
	if err != nil {
		return fmt.Errorf("deactivate supplier %d: %w", supplierID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("supplier %d %w", supplierID, ErrNotFound)
	}
	return nil
}
