package revision

import (
	"github.com/barstock/revisor/internal/models"

	"github.com/shopspring/decimal"
)

// EffectiveCounted is the counted quantity, or the expected quantity while
// the item has not been counted.
func EffectiveCounted(item models.RevisionItem) float64 {
	if item.CountedQuantity != nil {
		return *item.CountedQuantity
	}
	return item.ExpectedQuantity
}

// Difference is counted minus expected, negative for a shortage.
func Difference(item models.RevisionItem) float64 {
	d := decimal.NewFromFloat(EffectiveCounted(item)).Sub(decimal.NewFromFloat(item.ExpectedQuantity))
	return d.InexactFloat64()
}

// LossValue prices the shortage of one item at its snapshot cost. Overages
// count as zero, never as a negative loss.
func LossValue(item models.RevisionItem) decimal.Decimal {
	shortage := decimal.NewFromFloat(item.ExpectedQuantity).Sub(decimal.NewFromFloat(EffectiveCounted(item)))
	if !shortage.IsPositive() {
		return decimal.Zero
	}
	return shortage.Mul(item.CostPrice)
}

// TotalLoss sums LossValue over every item. Display, count updates and
// completion all call this, so they agree on the same inputs.
func TotalLoss(items []models.RevisionItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(LossValue(item))
	}
	return total
}

// CountedItems is the number of items with a non-null counted quantity.
func CountedItems(items []models.RevisionItem) int {
	n := 0
	for _, item := range items {
		if item.CountedQuantity != nil {
			n++
		}
	}
	return n
}
