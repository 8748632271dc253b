package render

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency of every amount in the ledger.
const Currency = money.USD

// Money formats an amount in the ledger currency, e.g. "$1,234.56".
func Money(amount float64) string {
	return toMoney(amount).Display()
}

// SignedMoney is like Money but always carries a sign, e.g. "+$12.00".
func SignedMoney(amount float64) string {
	m := toMoney(amount)
	if m.IsPositive() {
		return "+" + m.Display()
	}
	return m.Display()
}

// Price formats a per-share price, keeping up to four decimals for sub-cent quotes.
func Price(price float64) string {
	d := decimal.NewFromFloat(price)
	if d.Mul(decimal.NewFromInt(100)).IsInteger() {
		return Money(price)
	}
	return "$" + d.StringFixed(4)
}

func toMoney(amount float64) *money.Money {
	cur := money.GetCurrency(Currency)
	factor := decimal.New(1, int32(cur.Fraction))
	cents := decimal.NewFromFloat(amount).Mul(factor).Round(0).IntPart()
	return money.New(cents, Currency)
}
