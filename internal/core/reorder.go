package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ReorderSuggestion proposes replenishing one below-par product.
type ReorderSuggestion struct {
	ProductID         int              `json:"product_id"`
	ProductName       string           `json:"product_name"`
	Unit              Unit             `json:"unit"`
	Quantity          decimal.Decimal  `json:"quantity"`
	ParLevel          decimal.Decimal  `json:"par_level"`
	SuggestedQuantity decimal.Decimal  `json:"suggested_quantity"`
	PercentOfPar      decimal.Decimal  `json:"percent_of_par"`
	Status            StockStatus      `json:"status,omitempty"`
	SupplierID        *int             `json:"supplier_id,omitempty"`
	SupplierName      *string          `json:"supplier_name,omitempty"`
	LastPrice         *decimal.Decimal `json:"last_price,omitempty"`
}

// SupplierGroup is one ordering-UI bucket of suggestions for a supplier.
// SupplierID is nil for the unknown-supplier bucket.
type SupplierGroup struct {
	SupplierID    *int                `json:"supplier_id,omitempty"`
	SupplierName  string              `json:"supplier_name"`
	Suggestions   []ReorderSuggestion `json:"suggestions"`
	EstimatedCost decimal.Decimal     `json:"estimated_cost"`
}

// SupplierRef identifies the supplier a product was last delivered by.
type SupplierRef struct {
	ID   *int
	Name *string
}

// BuildReorderSuggestions derives the replenishment list from trackable
// products. Only products with a par level and a quantity strictly below it
// are included. suggestedQuantity = ceil(parLevel − quantity). lastSupplier
// maps product ID to the supplier of the most recent bill line for that
// product; entries are optional.
//
// The result is sorted ascending by percent-of-par, most urgent first.
// Ties keep input order (stable sort).
func BuildReorderSuggestions(products []Product, lastSupplier map[int]SupplierRef) []ReorderSuggestion {
	var suggestions []ReorderSuggestion
	for _, p := range products {
		if !p.Trackable || p.ParLevel == nil || !p.ParLevel.IsPositive() {
			continue
		}
		if !p.Quantity.LessThan(*p.ParLevel) {
			continue
		}

		s := ReorderSuggestion{
			ProductID:         p.ID,
			ProductName:       p.Name,
			Unit:              p.Unit,
			Quantity:          p.Quantity,
			ParLevel:          *p.ParLevel,
			SuggestedQuantity: p.ParLevel.Sub(p.Quantity).Ceil(),
			PercentOfPar:      p.Quantity.Div(*p.ParLevel).Mul(hundred),
			Status:            ClassifyStock(p.Quantity, p.ParLevel, nil),
			LastPrice:         p.UnitPrice,
		}
		if ref, ok := lastSupplier[p.ID]; ok {
			s.SupplierID = ref.ID
			s.SupplierName = ref.Name
		}
		suggestions = append(suggestions, s)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].PercentOfPar.LessThan(suggestions[j].PercentOfPar)
	})
	return suggestions
}

// GroupBySupplier buckets suggestions by supplier for the ordering screen.
// Suggestions without a supplier land in a trailing "unknown supplier"
// bucket. Each group's EstimatedCost sums lastPrice × suggestedQuantity over
// items that have a price; unpriced items are skipped without error.
func GroupBySupplier(suggestions []ReorderSuggestion) []SupplierGroup {
	var groups []SupplierGroup
	index := make(map[int]int) // supplier ID → position in groups
	unknown := -1

	for _, s := range suggestions {
		var g *SupplierGroup
		if s.SupplierID != nil {
			pos, ok := index[*s.SupplierID]
			if !ok {
				name := ""
				if s.SupplierName != nil {
					name = *s.SupplierName
				}
				groups = append(groups, SupplierGroup{SupplierID: s.SupplierID, SupplierName: name})
				pos = len(groups) - 1
				index[*s.SupplierID] = pos
			}
			g = &groups[pos]
		} else {
			if unknown < 0 {
				groups = append(groups, SupplierGroup{SupplierName: "Unknown supplier"})
				unknown = len(groups) - 1
			}
			g = &groups[unknown]
		}

		g.Suggestions = append(g.Suggestions, s)
		if s.LastPrice != nil {
			g.EstimatedCost = g.EstimatedCost.Add(s.LastPrice.Mul(s.SuggestedQuantity))
		}
	}

	// Keep the unknown bucket last regardless of arrival order.
	if unknown >= 0 && unknown != len(groups)-1 {
		u := groups[unknown]
		groups = append(append(groups[:unknown], groups[unknown+1:]...), u)
	}
	return groups
}
