package core

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FlowKind identifies which wizard a review flow drives. All three share the
// same state machine.
type FlowKind string

const (
	FlowReception FlowKind = "RECEPTION"
	FlowSales     FlowKind = "SALES"
	FlowSync      FlowKind = "SYNC"
)

// FlowState is the review flow's position in its lifecycle.
type FlowState string

const (
	FlowStart      FlowState = "START"
	FlowProcessing FlowState = "PROCESSING"
	FlowReview     FlowState = "REVIEW"
	FlowConfirm    FlowState = "CONFIRM"
	FlowComplete   FlowState = "COMPLETE"
)

// LineItem is one extracted document line under review. Bills, sales tickets,
// and sync counts all review the same shape; unused fields stay nil.
type LineItem struct {
	Name       string           `json:"name"`
	Quantity   decimal.Decimal  `json:"quantity"`
	Unit       Unit             `json:"unit,omitempty"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice *decimal.Decimal `json:"total_price,omitempty"`
}

// FlowHeader holds the document-level fields edited on the confirm screen.
type FlowHeader struct {
	SupplierName string           `json:"supplier_name,omitempty"`
	Date         string           `json:"date,omitempty"` // YYYY-MM-DD
	TotalAmount  *decimal.Decimal `json:"total_amount,omitempty"`
}

// ReviewFlow is one in-memory review session. Every transition method has a
// value receiver and returns a new snapshot; nothing is persisted until the
// caller submits the final confirm payload, so abandoning a flow at any point
// just discards the value.
type ReviewFlow struct {
	ID        uuid.UUID  `json:"id"`
	Kind      FlowKind   `json:"kind"`
	State     FlowState  `json:"state"`
	Header    FlowHeader `json:"header"`
	Items     []LineItem `json:"items"`
	Confirmed []bool     `json:"confirmed"`
	Current   int        `json:"current"`
}

// NewReviewFlow returns a flow at START.
func NewReviewFlow(kind FlowKind) ReviewFlow {
	return ReviewFlow{ID: uuid.New(), Kind: kind, State: FlowStart}
}

// Begin moves START → PROCESSING when the user triggers capture.
func (f ReviewFlow) Begin() (ReviewFlow, error) {
	if f.State != FlowStart {
		return f, fmt.Errorf("cannot begin capture from state %s", f.State)
	}
	f.State = FlowProcessing
	return f, nil
}

// ExtractionSucceeded loads the extracted lines and moves PROCESSING → REVIEW.
// Zero extracted lines counts as an extraction failure.
func (f ReviewFlow) ExtractionSucceeded(header FlowHeader, items []LineItem) (ReviewFlow, error) {
	if f.State != FlowProcessing {
		return f, fmt.Errorf("cannot load extraction results in state %s", f.State)
	}
	if len(items) == 0 {
		return f, fmt.Errorf("extraction returned no line items")
	}
	f.Header = header
	f.Items = append([]LineItem(nil), items...)
	f.Confirmed = make([]bool, len(items))
	f.Current = 0
	f.State = FlowReview
	return f, nil
}

// ExtractionFailed resets PROCESSING → START; the caller surfaces the error.
func (f ReviewFlow) ExtractionFailed() ReviewFlow {
	return NewReviewFlow(f.Kind)
}

// ConfirmItem writes the patched copy over the current item, marks it
// confirmed, and advances. Confirming the last item moves REVIEW → CONFIRM.
func (f ReviewFlow) ConfirmItem(patch LineItem) (ReviewFlow, error) {
	if f.State != FlowReview {
		return f, fmt.Errorf("cannot confirm an item in state %s", f.State)
	}
	f.Items = append([]LineItem(nil), f.Items...)
	f.Confirmed = append([]bool(nil), f.Confirmed...)
	f.Items[f.Current] = patch
	f.Confirmed[f.Current] = true
	if f.Current == len(f.Items)-1 {
		f.State = FlowConfirm
	} else {
		f.Current++
	}
	return f, nil
}

// SkipItem advances past the current item without marking it confirmed.
// Skipping the last item moves to CONFIRM.
func (f ReviewFlow) SkipItem() (ReviewFlow, error) {
	if f.State != FlowReview {
		return f, fmt.Errorf("cannot skip an item in state %s", f.State)
	}
	if f.Current == len(f.Items)-1 {
		f.State = FlowConfirm
	} else {
		f.Current++
	}
	return f, nil
}

// RemoveItem deletes the current item. Removing the last remaining item
// resets the flow to START, discarding cursor and confirmed-set state.
func (f ReviewFlow) RemoveItem() (ReviewFlow, error) {
	if f.State != FlowReview {
		return f, fmt.Errorf("cannot remove an item in state %s", f.State)
	}
	if len(f.Items) == 1 {
		return NewReviewFlow(f.Kind), nil
	}
	i := f.Current
	f.Items = append(append([]LineItem(nil), f.Items[:i]...), f.Items[i+1:]...)
	f.Confirmed = append(append([]bool(nil), f.Confirmed[:i]...), f.Confirmed[i+1:]...)
	if f.Current >= len(f.Items) {
		f.Current = len(f.Items) - 1
	}
	return f, nil
}

// PrevItem moves the cursor back one item without mutating anything.
func (f ReviewFlow) PrevItem() (ReviewFlow, error) {
	if f.State != FlowReview {
		return f, fmt.Errorf("cannot navigate in state %s", f.State)
	}
	if f.Current > 0 {
		f.Current--
	}
	return f, nil
}

// NextItem moves the cursor forward one item without mutating anything.
func (f ReviewFlow) NextItem() (ReviewFlow, error) {
	if f.State != FlowReview {
		return f, fmt.Errorf("cannot navigate in state %s", f.State)
	}
	if f.Current < len(f.Items)-1 {
		f.Current++
	}
	return f, nil
}

// BackToReview reopens the item list from the confirm summary.
func (f ReviewFlow) BackToReview() (ReviewFlow, error) {
	if f.State != FlowConfirm {
		return f, fmt.Errorf("cannot reopen review from state %s", f.State)
	}
	f.State = FlowReview
	f.Current = 0
	return f, nil
}

// EditHeader patches the document-level fields on the confirm screen.
func (f ReviewFlow) EditHeader(h FlowHeader) (ReviewFlow, error) {
	if f.State != FlowReview && f.State != FlowConfirm {
		return f, fmt.Errorf("cannot edit header in state %s", f.State)
	}
	f.Header = h
	return f, nil
}

// SubmitSucceeded moves CONFIRM → COMPLETE after the batched persistence
// call succeeds.
func (f ReviewFlow) SubmitSucceeded() (ReviewFlow, error) {
	if f.State != FlowConfirm {
		return f, fmt.Errorf("cannot complete submission from state %s", f.State)
	}
	f.State = FlowComplete
	return f, nil
}

// SubmitFailed keeps the flow on CONFIRM so the user can retry without
// re-entering anything.
func (f ReviewFlow) SubmitFailed() (ReviewFlow, error) {
	if f.State != FlowConfirm {
		return f, fmt.Errorf("no submission in flight in state %s", f.State)
	}
	return f, nil
}

// Cancel discards all in-memory state and returns to START.
func (f ReviewFlow) Cancel() ReviewFlow {
	return NewReviewFlow(f.Kind)
}

// HasUnconfirmed reports whether any item was never confirmed; callers prompt
// before discarding such flows.
func (f ReviewFlow) HasUnconfirmed() bool {
	for _, c := range f.Confirmed {
		if !c {
			return true
		}
	}
	return false
}

// CurrentItem returns the item under the cursor.
func (f ReviewFlow) CurrentItem() (LineItem, error) {
	if f.State != FlowReview || f.Current < 0 || f.Current >= len(f.Items) {
		return LineItem{}, fmt.Errorf("no current item in state %s", f.State)
	}
	return f.Items[f.Current], nil
}
