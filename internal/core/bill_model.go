package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the delivery bill lifecycle label.
type BillStatus string

const (
	BillPending   BillStatus = "PENDING"
	BillProcessed BillStatus = "PROCESSED"
	BillDisputed  BillStatus = "DISPUTED"
)

// Bill is a supplier delivery note or invoice ingested from an uploaded
// document.
type Bill struct {
	ID           int              `json:"id"`
	SupplierID   *int             `json:"supplier_id,omitempty"`
	SupplierName *string          `json:"supplier_name,omitempty"`
	BillDate     string           `json:"bill_date"` // YYYY-MM-DD
	TotalAmount  *decimal.Decimal `json:"total_amount,omitempty"`
	Status       BillStatus       `json:"status"`
	Lines        []BillLine       `json:"lines"`
	CreatedAt    time.Time        `json:"created_at"`
}

// BillLine is one extracted and reviewed delivery line.
type BillLine struct {
	ID         int              `json:"id"`
	BillID     int              `json:"bill_id"`
	LineNumber int              `json:"line_number"`
	Name       string           `json:"name"`
	Quantity   decimal.Decimal  `json:"quantity"`
	Unit       Unit             `json:"unit"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice *decimal.Decimal `json:"total_price,omitempty"`
}

// ReceptionInput is the batched confirm payload of the reception flow.
// Nothing was persisted before this point; the whole reception lands in one
// transaction or not at all.
type ReceptionInput struct {
	SupplierName string
	BillDate     string // YYYY-MM-DD, empty means today
	TotalAmount  *decimal.Decimal
	Lines        []LineItem
}

// BillService manages delivery bills and applies confirmed receptions to
// product stock.
type BillService interface {
	// ConfirmReception inserts the bill with its lines and increments product
	// stock in a single transaction. Lines whose name matches no product
	// create a trackable product with the line's unit and price. A line's
	// unit price, when present, refreshes the matched product's unit price.
	ConfirmReception(ctx context.Context, input ReceptionInput) (*Bill, error)

	// GetBill returns a bill with its lines.
	GetBill(ctx context.Context, billID int) (*Bill, error)

	// ListBills returns bills newest first, optionally filtered by status.
	ListBills(ctx context.Context, status BillStatus) ([]Bill, error)

	// MarkDisputed transitions a bill to DISPUTED.
	MarkDisputed(ctx context.Context, billID int) error
}
