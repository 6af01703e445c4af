package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type disputeService struct {
	pool *pgxpool.Pool
}

// NewDisputeService constructs a DisputeService backed by PostgreSQL.
func NewDisputeService(pool *pgxpool.Pool) DisputeService {
	return &disputeService{pool: pool}
}

func validDisputeType(t DisputeType) bool {
	switch t {
	case DisputeReturn, DisputeComplaint, DisputeRefund:
		return true
	}
	return false
}

func validDisputeStatus(s DisputeStatus) bool {
	switch s {
	case DisputeOpen, DisputeInProgress, DisputeResolved, DisputeClosed:
		return true
	}
	return false
}

func (s *disputeService) CreateDispute(ctx context.Context, input DisputeInput) (*Dispute, error) {
	if !validDisputeType(input.Type) {
		return nil, fmt.Errorf("invalid dispute type %q", input.Type)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var billStatus BillStatus
	err = tx.QueryRow(ctx,
		"SELECT status FROM bills WHERE id = $1 FOR UPDATE", input.BillID,
	).Scan(&billStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("bill %d %w", input.BillID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock bill %d: %w", input.BillID, err)
	}

	var disputeID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO disputes (bill_id, dispute_type, status, description)
		VALUES ($1, $2, 'OPEN', $3)
		RETURNING id`,
		input.BillID, input.Type, toPtr(strings.TrimSpace(input.Description)),
	).Scan(&disputeID); err != nil {
		return nil, fmt.Errorf("insert dispute for bill %d: %w", input.BillID, err)
	}

	for _, productID := range input.ProductIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO dispute_products (dispute_id, product_id)
			VALUES ($1, $2)`,
			disputeID, productID,
		); err != nil {
			return nil, fmt.Errorf("attach product %d to dispute %d: %w", productID, disputeID, err)
		}
	}

	if _, err := tx.Exec(ctx,
		"UPDATE bills SET status = 'DISPUTED' WHERE id = $1", input.BillID,
	); err != nil {
		return nil, fmt.Errorf("mark bill %d disputed: %w", input.BillID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit dispute: %w", err)
	}
	return s.GetDispute(ctx, disputeID)
}

func (s *disputeService) UpdateStatus(ctx context.Context, disputeID int, status DisputeStatus, resolutionNotes string) (*Dispute, error) {
	if !validDisputeStatus(status) {
		return nil, fmt.Errorf("invalid dispute status %q", status)
	}
	notes := strings.TrimSpace(resolutionNotes)
	if (status == DisputeResolved || status == DisputeClosed) && notes == "" {
		return nil, fmt.Errorf("resolution notes are required to move a dispute to %s", status)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current DisputeStatus
	err = tx.QueryRow(ctx,
		"SELECT status FROM disputes WHERE id = $1 FOR UPDATE", disputeID,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("dispute %d %w", disputeID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock dispute %d: %w", disputeID, err)
	}

	// RESOLVED and CLOSED are terminal. Forward moves are otherwise free:
	// an OPEN dispute may be resolved or closed directly without passing
	// through IN_PROGRESS.
	if (current == DisputeResolved || current == DisputeClosed) && current != status {
		return nil, fmt.Errorf("dispute %d is %s and cannot be reopened", disputeID, current)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE disputes
		SET status = $1,
		    resolution_notes = COALESCE($2, resolution_notes),
		    updated_at = NOW()
		WHERE id = $3`,
		status, toPtr(notes), disputeID,
	); err != nil {
		return nil, fmt.Errorf("update dispute %d: %w", disputeID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit dispute update: %w", err)
	}
	return s.GetDispute(ctx, disputeID)
}

const disputeColumns = `id, bill_id, dispute_type, status, description, resolution_notes, created_at, updated_at`

func scanDispute(row pgx.Row) (*Dispute, error) {
	d := &Dispute{}
	err := row.Scan(&d.ID, &d.BillID, &d.Type, &d.Status, &d.Description,
		&d.ResolutionNotes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *disputeService) GetDispute(ctx context.Context, disputeID int) (*Dispute, error) {
	d, err := scanDispute(s.pool.QueryRow(ctx,
		"SELECT "+disputeColumns+" FROM disputes WHERE id = $1", disputeID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("dispute %d %w", disputeID, ErrNotFound)
		}
		return nil, fmt.Errorf("get dispute %d: %w", disputeID, err)
	}

	rows, err := s.pool.Query(ctx,
		"SELECT product_id FROM dispute_products WHERE dispute_id = $1 ORDER BY product_id",
		disputeID)
	if err != nil {
		return nil, fmt.Errorf("fetch products for dispute %d: %w", disputeID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int
		if err := rows.Scan(&productID); err != nil {
			return nil, fmt.Errorf("scan dispute product: %w", err)
		}
		d.ProductIDs = append(d.ProductIDs, productID)
	}
	return d, rows.Err()
}

func (s *disputeService) ListDisputes(ctx context.Context, status DisputeStatus) ([]Dispute, error) {
	query := "SELECT " + disputeColumns + " FROM disputes"
	args := []any{}
	if status != "" {
		if !validDisputeStatus(status) {
			return nil, fmt.Errorf("invalid dispute status %q", status)
		}
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list disputes: %w", err)
	}
	defer rows.Close()

	var disputes []Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dispute: %w", err)
		}
		disputes = append(disputes, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range disputes {
		full, err := s.GetDispute(ctx, disputes[i].ID)
		if err != nil {
			return nil, err
		}
		disputes[i].ProductIDs = full.ProductIDs
	}
	return disputes, nil
}
