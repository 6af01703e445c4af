package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type saleService struct {
	pool *pgxpool.Pool
}

// NewSaleService constructs a SaleService backed by PostgreSQL.
func NewSaleService(pool *pgxpool.Pool) SaleService {
	return &saleService{pool: pool}
}

// ConfirmSale persists the reviewed ticket in one transaction: sale header,
// lines, and recipe deductions land together or not at all.
func (s *saleService) ConfirmSale(ctx context.Context, input SaleInput) (*Sale, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("sale must have at least one line")
	}
	for i, line := range input.Lines {
		if strings.TrimSpace(line.Name) == "" {
			return nil, fmt.Errorf("line %d: name is required", i+1)
		}
		if line.Quantity.IsNegative() || line.Quantity.IsZero() {
			return nil, fmt.Errorf("line %d: quantity must be positive, got %s", i+1, line.Quantity)
		}
	}

	saleDate := input.SaleDate
	if saleDate == "" {
		saleDate = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", saleDate); err != nil {
		return nil, fmt.Errorf("invalid sale date %q: %w", input.SaleDate, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var saleID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO sales (sale_date, total_amount, status)
		VALUES ($1, $2, 'PROCESSED')
		RETURNING id`,
		saleDate, input.TotalAmount,
	).Scan(&saleID); err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}

	for i, line := range input.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO sale_lines (sale_id, line_number, name, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			saleID, i+1, strings.TrimSpace(line.Name), line.Quantity,
			line.UnitPrice, line.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("insert sale line %d: %w", i+1, err)
		}

		if err := s.deductRecipeTx(ctx, tx, saleID, line); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit sale: %w", err)
	}
	return s.GetSale(ctx, saleID)
}

// deductRecipeTx resolves the line to an active dish by name and deducts the
// recipe quantities × sold quantity from product stock. A line matching no
// dish moves no stock. Deductions clamp at zero; the shortfall is noted on
// the movement row.
func (s *saleService) deductRecipeTx(ctx context.Context, tx pgx.Tx, saleID int, line LineItem) error {
	name := strings.TrimSpace(line.Name)

	var dishID int
	err := tx.QueryRow(ctx,
		"SELECT id FROM dishes WHERE lower(name) = lower($1) AND is_active = true", name,
	).Scan(&dishID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Unknown dish: the line stays on the sale, stock is untouched.
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve dish %q: %w", name, err)
	}

	rows, err := tx.Query(ctx, `
		SELECT ri.product_id, ri.quantity_required
		FROM recipe_ingredients ri
		WHERE ri.dish_id = $1
		ORDER BY ri.position`, dishID)
	if err != nil {
		return fmt.Errorf("fetch recipe for dish %q: %w", name, err)
	}

	type deduction struct {
		productID int
		needed    decimal.Decimal
	}
	var deductions []deduction
	for rows.Next() {
		var d deduction
		var required decimal.Decimal
		if err := rows.Scan(&d.productID, &required); err != nil {
			rows.Close()
			return fmt.Errorf("scan recipe ingredient: %w", err)
		}
		d.needed = required.Mul(line.Quantity)
		deductions = append(deductions, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate recipe for dish %q: %w", name, err)
	}

	for _, d := range deductions {
		var onHand decimal.Decimal
		if err := tx.QueryRow(ctx,
			"SELECT quantity FROM products WHERE id = $1 FOR UPDATE", d.productID,
		).Scan(&onHand); err != nil {
			return fmt.Errorf("lock product %d for sale deduction: %w", d.productID, err)
		}

		deducted := d.needed
		shortfall := decimal.Zero
		if onHand.LessThan(d.needed) {
			deducted = onHand
			shortfall = d.needed.Sub(onHand)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE products SET quantity = quantity - $1, updated_at = NOW()
			WHERE id = $2`,
			deducted, d.productID,
		); err != nil {
			return fmt.Errorf("deduct stock for product %d: %w", d.productID, err)
		}

		notes := fmt.Sprintf("Sale of %s × %s", name, line.Quantity.String())
		if !shortfall.IsZero() {
			notes += fmt.Sprintf(" (short by %s, clamped at zero)", shortfall.String())
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO stock_movements (product_id, movement_type, quantity, sale_id, notes)
			VALUES ($1, 'SALE_DEDUCT', $2, $3, $4)`,
			d.productID, deducted.Neg(), saleID, notes,
		); err != nil {
			return fmt.Errorf("record sale movement for product %d: %w", d.productID, err)
		}
	}
	return nil
}

func (s *saleService) GetSale(ctx context.Context, saleID int) (*Sale, error) {
	sale := &Sale{}
	if err := s.pool.QueryRow(ctx, `
		SELECT id, sale_date::text, total_amount, status, created_at
		FROM sales WHERE id = $1`, saleID,
	).Scan(&sale.ID, &sale.SaleDate, &sale.TotalAmount, &sale.Status, &sale.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sale %d %w", saleID, ErrNotFound)
		}
		return nil, fmt.Errorf("get sale %d: %w", saleID, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, sale_id, line_number, name, quantity, unit_price, total_price
		FROM sale_lines
		WHERE sale_id = $1
		ORDER BY line_number`, saleID)
	if err != nil {
		return nil, fmt.Errorf("fetch lines for sale %d: %w", saleID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var l SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.LineNumber, &l.Name, &l.Quantity,
			&l.UnitPrice, &l.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		sale.Lines = append(sale.Lines, l)
	}
	return sale, rows.Err()
}

func (s *saleService) ListSales(ctx context.Context) ([]Sale, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sale_date::text, total_amount, status, created_at
		FROM sales
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.ID, &sale.SaleDate, &sale.TotalAmount,
			&sale.Status, &sale.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}
