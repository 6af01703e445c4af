package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound marks a lookup that missed. Services wrap it with the entity
// and ID so adapters can branch on errors.Is while keeping the message.
var ErrNotFound = errors.New("not found")

// Unit is an opaque unit-of-measure label. Quantities carrying different
// units are never converted; they are compared and summed as-is.
type Unit string

const (
	UnitKG  Unit = "KG"
	UnitG   Unit = "G"
	UnitL   Unit = "L"
	UnitCL  Unit = "CL"
	UnitPC  Unit = "PC"
	UnitBox Unit = "BOX"
	UnitBtl Unit = "BTL"
)

// Restaurant is the single tenant record for a deployment.
type Restaurant struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a stocked ingredient or resale item.
// Quantity never goes below zero; deductions clamp at zero.
type Product struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Unit      Unit             `json:"unit"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	ParLevel  *decimal.Decimal `json:"par_level,omitempty"`
	Category  *string          `json:"category,omitempty"`
	Trackable bool             `json:"trackable"`
	Composite bool             `json:"composite"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Supplier is a vendor that delivery bills and reorder suggestions refer to.
type Supplier struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// SupplierInput holds the fields required to create or update a supplier.
type SupplierInput struct {
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
}

// MovementType labels a stock_movements row.
type MovementType string

const (
	MovementReceipt    MovementType = "RECEIPT"
	MovementSaleDeduct MovementType = "SALE_DEDUCT"
	MovementSyncAdjust MovementType = "SYNC_ADJUST"
	MovementManual     MovementType = "MANUAL"
)

// StockMovement is an audit record of a quantity change on a product.
// Quantity is signed: receipts positive, deductions negative.
type StockMovement struct {
	ID           int             `json:"id"`
	ProductID    int             `json:"product_id"`
	MovementType MovementType    `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	BillID       *int            `json:"bill_id,omitempty"`
	SaleID       *int            `json:"sale_id,omitempty"`
	MovementDate string          `json:"movement_date"` // YYYY-MM-DD
	Notes        *string         `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
