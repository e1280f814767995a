package handlers

import "github.com/shopspring/decimal"

// costLine pairs an insum's current average cost with the quantity a
// composition line consumes, both as fixed-point strings from the store.
type costLine struct {
	AverageCost  string
	QuantityUsed string
}

var oneHundred = decimal.NewFromInt(100)

// productionCost sums averageCost x quantityUsed over the composition.
// Malformed numerics parse to zero instead of failing the whole product:
// NewFromString's error is deliberately dropped so one bad line costs 0
// rather than poisoning the record.
func productionCost(lines []costLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		avgCost, _ := decimal.NewFromString(line.AverageCost)
		qty, _ := decimal.NewFromString(line.QuantityUsed)
		total = total.Add(avgCost.Mul(qty))
	}
	return total
}

// profitMargin returns ((salePrice - cost) / salePrice) * 100, or zero when
// the sale price is not positive. Used on the create path.
func profitMargin(salePrice, cost decimal.Decimal) decimal.Decimal {
	if salePrice.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return salePrice.Sub(cost).Div(salePrice).Mul(oneHundred)
}

// profitMarginOnUpdate additionally treats a non-positive production cost as
// "no margin". The update path has always behaved this way, so a product
// whose composition was cleared reports 0 instead of 100.
func profitMarginOnUpdate(salePrice, cost decimal.Decimal) decimal.Decimal {
	if cost.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return profitMargin(salePrice, cost)
}
