package ai_test

import (
	"testing"

	"resto-backoffice/internal/ai"
	"resto-backoffice/internal/core"

	"github.com/shopspring/decimal"
)

func TestExtractedDocument_ToFlow(t *testing.T) {
	doc := &ai.ExtractedDocument{
		SupplierName: "Metro",
		Date:         "2026-03-14",
		TotalAmount:  "54.20",
		Lines: []ai.ExtractedLine{
			{Name: "Flour", Quantity: "10", Unit: "KG", UnitPrice: "1.20", TotalPrice: "12.00"},
			{Name: "Milk", Quantity: "", Unit: "L"},              // quantity defaults to 1
			{Name: "Butter", Quantity: "not-a-number"},           // same
			{Name: "", Quantity: "3"},                            // nameless lines are dropped
			{Name: "Cream", Quantity: "2", UnitPrice: "garbled"}, // bad price becomes nil
		},
	}

	header, items := doc.ToFlow()

	if header.SupplierName != "Metro" || header.Date != "2026-03-14" {
		t.Errorf("header mismatch: %+v", header)
	}
	if header.TotalAmount == nil || !header.TotalAmount.Equal(decimal.RequireFromString("54.20")) {
		t.Errorf("expected total 54.20, got %v", header.TotalAmount)
	}

	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	if items[0].Unit != core.UnitKG || !items[0].Quantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("first item mismatch: %+v", items[0])
	}
	if !items[1].Quantity.Equal(decimal.NewFromInt(1)) {
		t.Errorf("blank quantity should default to 1, got %s", items[1].Quantity)
	}
	if !items[2].Quantity.Equal(decimal.NewFromInt(1)) {
		t.Errorf("unparseable quantity should default to 1, got %s", items[2].Quantity)
	}
	if items[3].UnitPrice != nil {
		t.Errorf("unparseable price should be nil, got %s", items[3].UnitPrice)
	}
}
