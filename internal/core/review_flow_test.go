package core_test

import (
	"testing"

	"resto-backoffice/internal/core"

	"github.com/stretchr/testify/require"
)

func extractedLines() (core.FlowHeader, []core.LineItem) {
	header := core.FlowHeader{SupplierName: "Metro", Date: "2026-03-14", TotalAmount: decPtr("54.20")}
	items := []core.LineItem{
		{Name: "Flour", Quantity: dec("10"), Unit: core.UnitKG, UnitPrice: decPtr("1.20")},
		{Name: "Milk", Quantity: dec("12"), Unit: core.UnitL, UnitPrice: decPtr("0.95")},
		{Name: "Butter", Quantity: dec("4"), Unit: core.UnitKG, UnitPrice: decPtr("7.70")},
	}
	return header, items
}

func TestReviewFlow_HappyPath(t *testing.T) {
	header, items := extractedLines()

	f := core.NewReviewFlow(core.FlowReception)
	require.Equal(t, core.FlowStart, f.State)

	f, err := f.Begin()
	require.NoError(t, err)
	require.Equal(t, core.FlowProcessing, f.State)

	f, err = f.ExtractionSucceeded(header, items)
	require.NoError(t, err)
	require.Equal(t, core.FlowReview, f.State)
	require.Equal(t, 0, f.Current)
	require.True(t, f.HasUnconfirmed())

	// Confirm every item; the last confirm moves to CONFIRM.
	for i := range items {
		cur, err := f.CurrentItem()
		require.NoError(t, err)
		require.Equal(t, items[i].Name, cur.Name)

		f, err = f.ConfirmItem(cur)
		require.NoError(t, err)
	}
	require.Equal(t, core.FlowConfirm, f.State)
	require.False(t, f.HasUnconfirmed())

	f, err = f.SubmitSucceeded()
	require.NoError(t, err)
	require.Equal(t, core.FlowComplete, f.State)
}

func TestReviewFlow_InvalidTransitions(t *testing.T) {
	header, items := extractedLines()
	f := core.NewReviewFlow(core.FlowSales)

	_, err := f.ConfirmItem(core.LineItem{})
	require.Error(t, err, "cannot confirm from START")

	_, err = f.SubmitSucceeded()
	require.Error(t, err, "cannot complete from START")

	_, err = f.ExtractionSucceeded(header, items)
	require.Error(t, err, "cannot load results before capture begins")

	f, err = f.Begin()
	require.NoError(t, err)
	_, err = f.Begin()
	require.Error(t, err, "cannot begin capture twice")
}

func TestReviewFlow_EmptyExtractionIsFailure(t *testing.T) {
	f := core.NewReviewFlow(core.FlowReception)
	f, err := f.Begin()
	require.NoError(t, err)

	_, err = f.ExtractionSucceeded(core.FlowHeader{}, nil)
	require.Error(t, err)

	// The wizard falls back to ExtractionFailed, which is a fresh START.
	f = f.ExtractionFailed()
	require.Equal(t, core.FlowStart, f.State)
	require.Empty(t, f.Items)
}

func TestReviewFlow_SkipLeavesItemUnconfirmed(t *testing.T) {
	header, items := extractedLines()
	f := core.NewReviewFlow(core.FlowReception)
	f, _ = f.Begin()
	f, err := f.ExtractionSucceeded(header, items)
	require.NoError(t, err)

	f, err = f.ConfirmItem(f.Items[0])
	require.NoError(t, err)
	f, err = f.SkipItem()
	require.NoError(t, err)
	f, err = f.ConfirmItem(f.Items[2])
	require.NoError(t, err)

	require.Equal(t, core.FlowConfirm, f.State)
	require.True(t, f.HasUnconfirmed(), "skipped item stays unconfirmed")
}

func TestReviewFlow_RemoveItem(t *testing.T) {
	header, items := extractedLines()
	f := core.NewReviewFlow(core.FlowReception)
	f, _ = f.Begin()
	f, err := f.ExtractionSucceeded(header, items)
	require.NoError(t, err)

	f, err = f.RemoveItem()
	require.NoError(t, err)
	require.Len(t, f.Items, 2)
	require.Equal(t, "Milk", f.Items[0].Name)
	require.Equal(t, 0, f.Current)

	// Removing the last remaining item resets the whole flow.
	f, err = f.RemoveItem()
	require.NoError(t, err)
	f, err = f.RemoveItem()
	require.NoError(t, err)
	require.Equal(t, core.FlowStart, f.State)
	require.Empty(t, f.Items)
}

func TestReviewFlow_NavigationClamps(t *testing.T) {
	header, items := extractedLines()
	f := core.NewReviewFlow(core.FlowSync)
	f, _ = f.Begin()
	f, err := f.ExtractionSucceeded(header, items)
	require.NoError(t, err)

	f, err = f.PrevItem()
	require.NoError(t, err)
	require.Equal(t, 0, f.Current, "prev at first item stays put")

	f, err = f.NextItem()
	require.NoError(t, err)
	f, err = f.NextItem()
	require.NoError(t, err)
	f, err = f.NextItem()
	require.NoError(t, err)
	require.Equal(t, 2, f.Current, "next at last item stays put")
}

func TestReviewFlow_BackToReviewAndRetry(t *testing.T) {
	header, items := extractedLines()
	f := core.NewReviewFlow(core.FlowReception)
	f, _ = f.Begin()
	f, _ = f.ExtractionSucceeded(header, items)
	for range items {
		f, _ = f.ConfirmItem(core.LineItem{Name: "x", Quantity: dec("1")})
	}
	require.Equal(t, core.FlowConfirm, f.State)

	// Header edits are allowed on the confirm screen.
	f, err := f.EditHeader(core.FlowHeader{SupplierName: "Biocoop", Date: "2026-03-15"})
	require.NoError(t, err)
	require.Equal(t, "Biocoop", f.Header.SupplierName)

	f, err = f.BackToReview()
	require.NoError(t, err)
	require.Equal(t, core.FlowReview, f.State)
	require.Equal(t, 0, f.Current)

	for range items {
		f, _ = f.ConfirmItem(core.LineItem{Name: "x", Quantity: dec("1")})
	}

	// A failed submit keeps everything in place for a retry.
	f, err = f.SubmitFailed()
	require.NoError(t, err)
	require.Equal(t, core.FlowConfirm, f.State)
	require.Len(t, f.Items, 3)

	f, err = f.SubmitSucceeded()
	require.NoError(t, err)
	require.Equal(t, core.FlowComplete, f.State)
}

func TestReviewFlow_TransitionsAreSnapshots(t *testing.T) {
	header, items := extractedLines()
	f := core.NewReviewFlow(core.FlowReception)
	f, _ = f.Begin()
	f, _ = f.ExtractionSucceeded(header, items)

	next, err := f.ConfirmItem(core.LineItem{Name: "Patched", Quantity: dec("1")})
	require.NoError(t, err)

	require.Equal(t, "Flour", f.Items[0].Name, "original snapshot unchanged")
	require.False(t, f.Confirmed[0])
	require.Equal(t, "Patched", next.Items[0].Name)
	require.True(t, next.Confirmed[0])
}

func TestReviewFlow_CancelDiscardsEverything(t *testing.T) {
	header, items := extractedLines()
	f := core.NewReviewFlow(core.FlowSales)
	f, _ = f.Begin()
	f, _ = f.ExtractionSucceeded(header, items)

	f = f.Cancel()
	require.Equal(t, core.FlowStart, f.State)
	require.Equal(t, core.FlowSales, f.Kind)
	require.Empty(t, f.Items)
	require.Empty(t, f.Confirmed)
}
