package service

import "github.com/shopspring/decimal"

// Money arithmetic runs in decimal and is converted back to float64 only for storage.

func orderTotal(quantity int64, price float64) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(decimal.NewFromFloat(price))
}

// averageCost re-averages a position after buying quantity more shares at price:
// (heldQty*heldAvg + quantity*price) / (heldQty + quantity).
func averageCost(heldQty int64, heldAvg float64, quantity int64, price float64) float64 {
	cost := decimal.NewFromInt(heldQty).Mul(decimal.NewFromFloat(heldAvg)).
		Add(orderTotal(quantity, price))
	return cost.Div(decimal.NewFromInt(heldQty + quantity)).InexactFloat64()
}

func debit(cash float64, total decimal.Decimal) float64 {
	return decimal.NewFromFloat(cash).Sub(total).InexactFloat64()
}

func credit(cash float64, total decimal.Decimal) float64 {
	return decimal.NewFromFloat(cash).Add(total).InexactFloat64()
}

func covers(cash float64, total decimal.Decimal) bool {
	return decimal.NewFromFloat(cash).GreaterThanOrEqual(total)
}
