package core_test

import (
	"testing"

	"resto-backoffice/internal/core"
)

func TestBuildReorderSuggestions_FiltersAndCeil(t *testing.T) {
	products := []core.Product{
		{ID: 1, Name: "Flour", Unit: core.UnitKG, Quantity: dec("5.5"), ParLevel: decPtr("20"), Trackable: true},
		{ID: 2, Name: "Olive oil", Unit: core.UnitL, Quantity: dec("8"), ParLevel: decPtr("8"), Trackable: true},    // at par
		{ID: 3, Name: "Napkins", Unit: core.UnitBox, Quantity: dec("1"), ParLevel: decPtr("4"), Trackable: false},   // untracked
		{ID: 4, Name: "Saffron", Unit: core.UnitG, Quantity: dec("2"), Trackable: true},                            // no par
		{ID: 5, Name: "Eggs", Unit: core.UnitPC, Quantity: dec("30"), ParLevel: decPtr("24"), Trackable: true},     // above par
	}

	suggestions := core.BuildReorderSuggestions(products, nil)
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}

	s := suggestions[0]
	if s.ProductID != 1 {
		t.Errorf("expected product 1, got %d", s.ProductID)
	}
	// ceil(20 − 5.5) = 15
	if !s.SuggestedQuantity.Equal(dec("15")) {
		t.Errorf("expected suggested quantity 15, got %s", s.SuggestedQuantity)
	}
	if !s.PercentOfPar.Equal(dec("27.5")) {
		t.Errorf("expected 27.5 percent of par, got %s", s.PercentOfPar)
	}
	if s.Status != core.StockLow {
		t.Errorf("expected low status, got %q", s.Status)
	}
}

func TestBuildReorderSuggestions_SortedByUrgency(t *testing.T) {
	products := []core.Product{
		{ID: 1, Name: "Flour", Quantity: dec("10"), ParLevel: decPtr("20"), Trackable: true}, // 50%
		{ID: 2, Name: "Milk", Quantity: dec("1"), ParLevel: decPtr("10"), Trackable: true},   // 10%
		{ID: 3, Name: "Butter", Quantity: dec("3"), ParLevel: decPtr("10"), Trackable: true}, // 30%
	}

	suggestions := core.BuildReorderSuggestions(products, nil)
	if len(suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(suggestions))
	}
	wantOrder := []int{2, 3, 1}
	for i, want := range wantOrder {
		if suggestions[i].ProductID != want {
			t.Errorf("position %d: expected product %d, got %d", i, want, suggestions[i].ProductID)
		}
	}
}

func TestBuildReorderSuggestions_CarriesLastSupplier(t *testing.T) {
	supplierID := 7
	supplierName := "Metro"
	products := []core.Product{
		{ID: 1, Name: "Flour", Quantity: dec("2"), ParLevel: decPtr("20"), Trackable: true},
		{ID: 2, Name: "Milk", Quantity: dec("3"), ParLevel: decPtr("10"), Trackable: true},
	}
	lastSupplier := map[int]core.SupplierRef{
		1: {ID: &supplierID, Name: &supplierName},
	}

	suggestions := core.BuildReorderSuggestions(products, lastSupplier)
	for _, s := range suggestions {
		switch s.ProductID {
		case 1:
			if s.SupplierID == nil || *s.SupplierID != supplierID {
				t.Errorf("product 1: expected supplier %d, got %v", supplierID, s.SupplierID)
			}
		case 2:
			if s.SupplierID != nil {
				t.Errorf("product 2: expected no supplier, got %d", *s.SupplierID)
			}
		}
	}
}

func TestGroupBySupplier(t *testing.T) {
	metroID, biocoopID := 1, 2
	metro, biocoop := "Metro", "Biocoop"

	suggestions := []core.ReorderSuggestion{
		{ProductID: 1, SupplierID: nil, SuggestedQuantity: dec("5"), LastPrice: decPtr("2.00")},
		{ProductID: 2, SupplierID: &metroID, SupplierName: &metro, SuggestedQuantity: dec("10"), LastPrice: decPtr("1.50")},
		{ProductID: 3, SupplierID: &biocoopID, SupplierName: &biocoop, SuggestedQuantity: dec("3")}, // unpriced
		{ProductID: 4, SupplierID: &metroID, SupplierName: &metro, SuggestedQuantity: dec("4"), LastPrice: decPtr("0.25")},
	}

	groups := core.GroupBySupplier(suggestions)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	// Unknown bucket is always last, even when its suggestion arrived first.
	last := groups[len(groups)-1]
	if last.SupplierID != nil {
		t.Errorf("expected trailing unknown-supplier bucket, got supplier %d", *last.SupplierID)
	}
	if len(last.Suggestions) != 1 || last.Suggestions[0].ProductID != 1 {
		t.Errorf("unknown bucket holds wrong suggestions: %+v", last.Suggestions)
	}

	for _, g := range groups[:2] {
		switch g.SupplierName {
		case "Metro":
			if len(g.Suggestions) != 2 {
				t.Errorf("Metro: expected 2 suggestions, got %d", len(g.Suggestions))
			}
			// 10 × 1.50 + 4 × 0.25
			if !g.EstimatedCost.Equal(dec("16")) {
				t.Errorf("Metro: expected estimated cost 16, got %s", g.EstimatedCost)
			}
		case "Biocoop":
			if !g.EstimatedCost.IsZero() {
				t.Errorf("Biocoop: unpriced item should contribute nothing, got %s", g.EstimatedCost)
			}
		default:
			t.Errorf("unexpected group %q", g.SupplierName)
		}
	}
}
