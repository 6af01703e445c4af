package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type billService struct {
	pool *pgxpool.Pool
}

// NewBillService constructs a BillService backed by PostgreSQL.
func NewBillService(pool *pgxpool.Pool) BillService {
	return &billService{pool: pool}
}

// ConfirmReception persists the reviewed reception in one transaction:
// bill header, lines, stock increments, and RECEIPT movements all land
// together or not at all.
func (s *billService) ConfirmReception(ctx context.Context, input ReceptionInput) (*Bill, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("reception must have at least one line")
	}
	for i, line := range input.Lines {
		if strings.TrimSpace(line.Name) == "" {
			return nil, fmt.Errorf("line %d: name is required", i+1)
		}
		if line.Quantity.IsNegative() || line.Quantity.IsZero() {
			return nil, fmt.Errorf("line %d: quantity must be positive, got %s", i+1, line.Quantity)
		}
	}

	billDate := input.BillDate
	if billDate == "" {
		billDate = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", billDate); err != nil {
		return nil, fmt.Errorf("invalid bill date %q: %w", input.BillDate, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Resolve the supplier by name when one exists; otherwise keep the
	// free-text name from the extracted document.
	var supplierID *int
	supplierName := toPtr(strings.TrimSpace(input.SupplierName))
	if supplierName != nil {
		var id int
		err := tx.QueryRow(ctx,
			"SELECT id FROM suppliers WHERE lower(name) = lower($1) AND is_active = true",
			*supplierName,
		).Scan(&id)
		switch {
		case err == nil:
			supplierID = &id
		case errors.Is(err, pgx.ErrNoRows):
			// keep name only
		default:
			return nil, fmt.Errorf("resolve supplier %q: %w", *supplierName, err)
		}
	}

	var billID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO bills (supplier_id, supplier_name, bill_date, total_amount, status)
		VALUES ($1, $2, $3, $4, 'PROCESSED')
		RETURNING id`,
		supplierID, supplierName, billDate, input.TotalAmount,
	).Scan(&billID); err != nil {
		return nil, fmt.Errorf("insert bill: %w", err)
	}

	for i, line := range input.Lines {
		unit := line.Unit
		if unit == "" {
			unit = UnitPC
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO bill_lines (bill_id, line_number, name, quantity, unit, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			billID, i+1, strings.TrimSpace(line.Name), line.Quantity, unit,
			line.UnitPrice, line.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("insert bill line %d: %w", i+1, err)
		}

		if err := s.receiveLineTx(ctx, tx, billID, line, unit); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reception: %w", err)
	}
	return s.GetBill(ctx, billID)
}

// receiveLineTx matches the line to a product by name (creating a trackable
// product for unknown names), increments stock, refreshes the unit price,
// and appends a RECEIPT movement.
func (s *billService) receiveLineTx(ctx context.Context, tx pgx.Tx, billID int, line LineItem, unit Unit) error {
	name := strings.TrimSpace(line.Name)

	var productID int
	err := tx.QueryRow(ctx,
		"SELECT id FROM products WHERE lower(name) = lower($1) FOR UPDATE", name,
	).Scan(&productID)
	if errors.Is(err, pgx.ErrNoRows) {
		if err := tx.QueryRow(ctx, `
			INSERT INTO products (name, quantity, unit, unit_price, trackable)
			VALUES ($1, 0, $2, $3, true)
			RETURNING id`,
			name, unit, line.UnitPrice,
		).Scan(&productID); err != nil {
			return fmt.Errorf("create product %q from reception: %w", name, err)
		}
	} else if err != nil {
		return fmt.Errorf("resolve product %q: %w", name, err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE products
		SET quantity   = quantity + $1,
		    unit_price = COALESCE($2, unit_price),
		    updated_at = NOW()
		WHERE id = $3`,
		line.Quantity, line.UnitPrice, productID,
	); err != nil {
		return fmt.Errorf("increment stock for product %q: %w", name, err)
	}

	notes := fmt.Sprintf("Delivery reception: %s × %s", name, line.Quantity.String())
	if _, err := tx.Exec(ctx, `
		INSERT INTO stock_movements (product_id, movement_type, quantity, bill_id, notes)
		VALUES ($1, 'RECEIPT', $2, $3, $4)`,
		productID, line.Quantity, billID, notes,
	); err != nil {
		return fmt.Errorf("record receipt movement for product %q: %w", name, err)
	}
	return nil
}

func (s *billService) GetBill(ctx context.Context, billID int) (*Bill, error) {
	b := &Bill{}
	if err := s.pool.QueryRow(ctx, `
		SELECT id, supplier_id, supplier_name, bill_date::text, total_amount, status, created_at
		FROM bills WHERE id = $1`, billID,
	).Scan(&b.ID, &b.SupplierID, &b.SupplierName, &b.BillDate, &b.TotalAmount,
		&b.Status, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bill %d %w", billID, ErrNotFound)
		}
		return nil, fmt.Errorf("get bill %d: %w", billID, err)
	}

	lines, err := s.fetchLines(ctx, billID)
	if err != nil {
		return nil, err
	}
	b.Lines = lines
	return b, nil
}

func (s *billService) fetchLines(ctx context.Context, billID int) ([]BillLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, bill_id, line_number, name, quantity, unit, unit_price, total_price
		FROM bill_lines
		WHERE bill_id = $1
		ORDER BY line_number`, billID)
	if err != nil {
		return nil, fmt.Errorf("fetch lines for bill %d: %w", billID, err)
	}
	defer rows.Close()

	var lines []BillLine
	for rows.Next() {
		var l BillLine
		if err := rows.Scan(&l.ID, &l.BillID, &l.LineNumber, &l.Name, &l.Quantity,
			&l.Unit, &l.UnitPrice, &l.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan bill line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *billService) ListBills(ctx context.Context, status BillStatus) ([]Bill, error) {
	query := `
		SELECT id, supplier_id, supplier_name, bill_date::text, total_amount, status, created_at
		FROM bills`
	args := []any{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []Bill
	for rows.Next() {
		var b Bill
		if err := rows.Scan(&b.ID, &b.SupplierID, &b.SupplierName, &b.BillDate,
			&b.TotalAmount, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (s *billService) MarkDisputed(ctx context.Context, billID int) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE bills SET status = 'DISPUTED' WHERE id = $1", billID)
	if err != nil {
		return fmt.Errorf("mark bill %d disputed: %w", billID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bill %d %w", billID, ErrNotFound)
	}
	return nil
}
