// Package derive computes display-ready financial metrics from raw API
// rows. Everything here is a pure function of its inputs; nothing touches
// the network or the terminal, so it is all testable in isolation.
package derive

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"botwatch/pkg/botapi"
)

// StatusClass drives the color of a status string in the activity log and
// order tables.
type StatusClass int

const (
	ClassNeutral StatusClass = iota
	ClassInfo
	ClassSuccess
	ClassError
)

// PositionMetrics holds the derived values for one position. Money math is
// done in decimal so ratios like pnlPct come out exact, not float-drifted.
type PositionMetrics struct {
	MarketValue   decimal.Decimal
	CostBasis     decimal.Decimal
	UnrealizedPnL decimal.Decimal
	PnLPct        decimal.Decimal
}

// Compute derives metrics for a position. A zero market price means the
// backend had no market data and the average cost is used instead. A
// position with zero cost basis yields a flat 0% rather than dividing by
// zero.
func Compute(p botapi.Position) PositionMetrics {
	qty := decimal.NewFromFloat(p.Quantity)
	avgCost := decimal.NewFromFloat(p.AvgCost)

	price := decimal.NewFromFloat(p.MarketPrice)
	if price.IsZero() {
		price = avgCost
	}

	marketValue := qty.Mul(price)
	costBasis := qty.Mul(avgCost)
	unrealized := marketValue.Sub(costBasis)

	pnlPct := decimal.Zero
	if !costBasis.IsZero() {
		pnlPct = unrealized.Div(costBasis).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return PositionMetrics{
		MarketValue:   marketValue,
		CostBasis:     costBasis,
		UnrealizedPnL: unrealized,
		PnLPct:        pnlPct,
	}
}

// TotalPnL is always realized + unrealized; the total is never taken from
// the wire.
func TotalPnL(pnl botapi.PnL) decimal.Decimal {
	return decimal.NewFromFloat(pnl.Realized).Add(decimal.NewFromFloat(pnl.Unrealized))
}

// Utilization estimates how much of the account's buying power is in use,
// as a percentage in [0, 100]. Returns 0 when net liquidation is not
// positive or buying power exceeds equity (unused margin account).
func Utilization(acct botapi.Account) decimal.Decimal {
	netLiq := decimal.NewFromFloat(acct.NetLiquidation)
	if !netLiq.IsPositive() {
		return decimal.Zero
	}

	bp := decimal.NewFromFloat(acct.BuyingPower)
	used := decimal.NewFromInt(1).Sub(bp.Div(netLiq))
	if used.IsNegative() {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	pct := used.Mul(hundred).Round(1)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// SignedMoney formats a monetary value with an explicit sign: "+$100.00"
// or "-$23.50". Zero counts as non-negative.
func SignedMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "+$" + d.StringFixed(2)
}

// SignedPercent formats a percentage with an explicit sign: "+6.67%".
func SignedPercent(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + d.Neg().StringFixed(2) + "%"
	}
	return "+" + d.StringFixed(2) + "%"
}

// Money formats a monetary value without a leading plus: "$1600.00".
// No digit grouping.
func Money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// IsGain classifies a value for styling: anything >= 0 gets the positive
// style.
func IsGain(d decimal.Decimal) bool {
	return !d.IsNegative()
}

const (
	truncateLimit = 50
	truncateKeep  = 47
)

// Truncate trims free-form backend text for display. Strings longer than
// 50 characters are cut to 47 plus an ellipsis. The cut counts runes, not
// bytes, so multibyte text is never split mid-character.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= truncateLimit {
		return s
	}
	return string([]rune(s)[:truncateKeep]) + "..."
}

// Classify maps a free-form status string from the backend onto a display
// class. Matching is case-insensitive substring search: the backend emits
// variants like "Filled", "error: rejected by risk engine", "submitted".
func Classify(status string) StatusClass {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "error"), strings.Contains(s, "rejected"):
		return ClassError
	case strings.Contains(s, "filled"):
		return ClassSuccess
	case strings.Contains(s, "submitted"):
		return ClassInfo
	default:
		return ClassNeutral
	}
}
