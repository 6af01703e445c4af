package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus is the sales ticket lifecycle label.
type SaleStatus string

const (
	SalePending   SaleStatus = "PENDING"
	SaleProcessed SaleStatus = "PROCESSED"
)

// Sale is a POS receipt ingested from an uploaded document.
type Sale struct {
	ID          int              `json:"id"`
	SaleDate    string           `json:"sale_date"` // YYYY-MM-DD
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	Status      SaleStatus       `json:"status"`
	Lines       []SaleLine       `json:"lines"`
	CreatedAt   time.Time        `json:"created_at"`
}

// SaleLine is one sold dish on the ticket. Name matches a dish by name; a
// line matching no dish stays on the sale but moves no stock.
type SaleLine struct {
	ID         int              `json:"id"`
	SaleID     int              `json:"sale_id"`
	LineNumber int              `json:"line_number"`
	Name       string           `json:"name"`
	Quantity   decimal.Decimal  `json:"quantity"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice *decimal.Decimal `json:"total_price,omitempty"`
}

// SaleInput is the batched confirm payload of the sales flow.
type SaleInput struct {
	SaleDate    string // YYYY-MM-DD, empty means today
	TotalAmount *decimal.Decimal
	Lines       []LineItem
}

// SaleService manages sales tickets and deducts recipe ingredients from
// stock when a ticket is confirmed.
type SaleService interface {
	// ConfirmSale inserts the sale with its lines and deducts each sold
	// dish's recipe quantities from product stock in a single transaction.
	// Deductions clamp at zero so product quantity never goes negative.
	ConfirmSale(ctx context.Context, input SaleInput) (*Sale, error)

	// GetSale returns a sale with its lines.
	GetSale(ctx context.Context, saleID int) (*Sale, error)

	// ListSales returns sales newest first.
	ListSales(ctx context.Context) ([]Sale, error)
}
