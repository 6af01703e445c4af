package core_test

import (
	"testing"

	"resto-backoffice/internal/core"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestClassifyStock_ParLevelRule(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		parLevel string
		expect   core.StockStatus
	}{
		{"at 25 percent of par", "5", "20", core.StockCritical},
		{"below 25 percent of par", "4", "20", core.StockCritical},
		{"zero quantity", "0", "20", core.StockCritical},
		{"just above 25 percent", "5.1", "20", core.StockLow},
		{"at 50 percent of par", "10", "20", core.StockLow},
		{"just above 50 percent", "10.1", "20", core.StockNone},
		{"at par", "20", "20", core.StockNone},
		{"above par", "25", "20", core.StockNone},
		{"fractional par", "0.6", "2.5", core.StockCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.ClassifyStock(dec(tt.quantity), decPtr(tt.parLevel), nil)
			if got != tt.expect {
				t.Errorf("ClassifyStock(%s, par=%s) = %q, want %q",
					tt.quantity, tt.parLevel, got, tt.expect)
			}
		})
	}
}

func TestClassifyStock_MenuDemandRule(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		needed   string
		expect   core.StockStatus
	}{
		{"zero servings", "0", "0.5", core.StockCritical},
		{"fraction of one serving", "0.4", "0.5", core.StockCritical},
		{"exactly three servings", "1.5", "0.5", core.StockCritical},
		{"four servings", "2", "0.5", core.StockLow},
		{"nine servings", "4.5", "0.5", core.StockLow},
		{"floor lands under ten", "4.9", "0.5", core.StockLow},
		{"exactly ten servings", "5", "0.5", core.StockNone},
		{"plenty", "100", "0.5", core.StockNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			demand := &core.MenuDemand{ProductID: 1, TotalNeeded: dec(tt.needed)}
			got := core.ClassifyStock(dec(tt.quantity), nil, demand)
			if got != tt.expect {
				t.Errorf("ClassifyStock(%s, needed=%s) = %q, want %q",
					tt.quantity, tt.needed, got, tt.expect)
			}
		})
	}
}

func TestClassifyStock_DemandTakesPriorityOverPar(t *testing.T) {
	// 80% of par would be fine, but the quantity only covers 2 servings.
	demand := &core.MenuDemand{ProductID: 1, TotalNeeded: dec("8")}
	got := core.ClassifyStock(dec("16"), decPtr("20"), demand)
	if got != core.StockCritical {
		t.Errorf("expected demand rule to win with critical, got %q", got)
	}

	// Conversely: demand says plenty of servings even though par says low.
	demand = &core.MenuDemand{ProductID: 1, TotalNeeded: dec("0.1")}
	got = core.ClassifyStock(dec("9"), decPtr("20"), demand)
	if got != core.StockNone {
		t.Errorf("expected demand rule to silence par alert, got %q", got)
	}
}

func TestClassifyStock_NoSignalsMeansNoAlert(t *testing.T) {
	if got := core.ClassifyStock(dec("0"), nil, nil); got != core.StockNone {
		t.Errorf("no par, no demand: got %q, want none", got)
	}

	zero := decimal.Zero
	if got := core.ClassifyStock(dec("0"), &zero, nil); got != core.StockNone {
		t.Errorf("zero par level: got %q, want none", got)
	}

	// Demand present but nothing needed behaves like no demand.
	demand := &core.MenuDemand{ProductID: 1, TotalNeeded: decimal.Zero}
	if got := core.ClassifyStock(dec("3"), decPtr("20"), demand); got != core.StockLow {
		t.Errorf("zero demand should fall through to par rule, got %q", got)
	}
}
