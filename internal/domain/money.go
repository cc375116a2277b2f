package domain

import "github.com/shopspring/decimal"

// ─── Money Helpers ──────────────────────────────────────────────────────────
// All monetary values are rounded to 2 decimal places immediately after each
// computation; unrounded fractional cents are never carried forward.

// Epsilon is the absolute tolerance used when comparing a closing value to
// the residual value during schedule generation, and when checking that a
// balance sheet balances.
var Epsilon = decimal.RequireFromString("0.0001")

// BalanceTolerance is the maximum |assets − (liabilities+equity+P/L)|
// difference still reported as balanced, and the threshold below which a
// trial-balance row counts as zero.
var BalanceTolerance = decimal.RequireFromString("0.005")

// Round2 rounds a monetary value to 2 decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// WithinEpsilon reports whether a and b differ by less than Epsilon.
func WithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Epsilon)
}
