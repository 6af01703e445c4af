package core

import "github.com/shopspring/decimal"

// StockStatus is the urgency label the inventory screens surface.
// StockNone means no alert; untracked or unbounded products stay silent
// rather than producing false positives.
type StockStatus string

const (
	StockNone     StockStatus = ""
	StockLow      StockStatus = "low"
	StockCritical StockStatus = "critical"
)

// MenuDemand is the aggregate requirement for one product across every
// recipe ingredient on the active menus.
type MenuDemand struct {
	ProductID   int             `json:"product_id"`
	TotalNeeded decimal.Decimal `json:"total_needed"`
}

var (
	servingsCriticalMax = decimal.NewFromInt(3)
	servingsLowMax      = decimal.NewFromInt(10)
	percentCriticalMax  = decimal.NewFromInt(25)
	percentLowMax       = decimal.NewFromInt(50)
	hundred             = decimal.NewFromInt(100)
)

// ClassifyStock returns the stock urgency for a product. Rules apply in
// priority order and the first match wins:
//
//  1. Active-menu demand, when present with TotalNeeded > 0: the number of
//     servings the current quantity covers decides the label, regardless of
//     par level. Zero or ≤3 servings is critical, under 10 is low.
//  2. Par level, when set and > 0: percent-of-par ≤25 is critical, ≤50 low.
//  3. Otherwise no classification.
func ClassifyStock(quantity decimal.Decimal, parLevel *decimal.Decimal, demand *MenuDemand) StockStatus {
	if demand != nil && demand.TotalNeeded.IsPositive() {
		servings := quantity.Div(demand.TotalNeeded).Floor()
		switch {
		case servings.IsZero():
			return StockCritical
		case servings.LessThanOrEqual(servingsCriticalMax):
			return StockCritical
		case servings.LessThan(servingsLowMax):
			return StockLow
		default:
			return StockNone
		}
	}

	if parLevel != nil && parLevel.IsPositive() {
		percentOfPar := quantity.Div(*parLevel).Mul(hundred)
		switch {
		case percentOfPar.LessThanOrEqual(percentCriticalMax):
			return StockCritical
		case percentOfPar.LessThanOrEqual(percentLowMax):
			return StockLow
		default:
			return StockNone
		}
	}

	return StockNone
}

// ClassifyProduct applies ClassifyStock to a product row.
func ClassifyProduct(p Product, demand *MenuDemand) StockStatus {
	return ClassifyStock(p.Quantity, p.ParLevel, demand)
}
