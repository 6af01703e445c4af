package core

import (
	"context"
	"time"
)

// DisputeType classifies what the restaurant wants from the supplier.
type DisputeType string

const (
	DisputeReturn    DisputeType = "RETURN"
	DisputeComplaint DisputeType = "COMPLAINT"
	DisputeRefund    DisputeType = "REFUND"
)

// DisputeStatus is the dispute lifecycle label.
type DisputeStatus string

const (
	DisputeOpen       DisputeStatus = "OPEN"
	DisputeInProgress DisputeStatus = "IN_PROGRESS"
	DisputeResolved   DisputeStatus = "RESOLVED"
	DisputeClosed     DisputeStatus = "CLOSED"
)

// Dispute references a bill and zero or more disputed products.
// ResolutionNotes is set on transition to RESOLVED or CLOSED.
type Dispute struct {
	ID              int           `json:"id"`
	BillID          int           `json:"bill_id"`
	Type            DisputeType   `json:"type"`
	Status          DisputeStatus `json:"status"`
	Description     *string       `json:"description,omitempty"`
	ResolutionNotes *string       `json:"resolution_notes,omitempty"`
	ProductIDs      []int         `json:"product_ids"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// DisputeInput holds the fields required to open a dispute.
type DisputeInput struct {
	BillID      int
	Type        DisputeType
	Description string
	ProductIDs  []int
}

// DisputeService manages supplier disputes against delivery bills.
type DisputeService interface {
	// CreateDispute opens a dispute and marks the bill DISPUTED in one
	// transaction.
	CreateDispute(ctx context.Context, input DisputeInput) (*Dispute, error)

	// UpdateStatus transitions a dispute. Moving to RESOLVED or CLOSED
	// requires non-empty resolution notes; a RESOLVED or CLOSED dispute
	// cannot be reopened.
	UpdateStatus(ctx context.Context, disputeID int, status DisputeStatus, resolutionNotes string) (*Dispute, error)

	// GetDispute returns a dispute with its disputed product IDs.
	GetDispute(ctx context.Context, disputeID int) (*Dispute, error)

	// ListDisputes returns disputes newest first, optionally filtered by status.
	ListDisputes(ctx context.Context, status DisputeStatus) ([]Dispute, error)
}
