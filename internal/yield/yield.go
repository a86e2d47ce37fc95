// Package yield derives pool-level aggregates from the two figures the
// pool actually reports: utilization and available liquidity.
//
// The borrowed-volume formula is a client-side inverse of the assumed
// utilization definition borrowed / (available + borrowed). It excludes
// protocol reserves and can diverge from the on-chain total if the
// contract computes utilization differently; treat the figure as a
// heuristic, not ground truth.
package yield

import (
	"github.com/shopspring/decimal"

	"lenderScope/internal/model"
)

var (
	baseAPY    = decimal.NewFromInt(5)
	maxAPY     = decimal.NewFromInt(15)
	hundredPct = decimal.NewFromInt(100)
)

// APY interpolates linearly between the base and max rate over the
// utilization range. Utilization is a percentage and is clamped to
// [0, 100] before interpolation.
func APY(utilization decimal.Decimal) decimal.Decimal {
	u := clampPercent(utilization)
	spread := maxAPY.Sub(baseAPY)
	return baseAPY.Add(spread.Mul(u).Div(hundredPct))
}

// Borrowed returns the implied borrowed volume for the given
// utilization percentage and available liquidity. Outside (0, 100) the
// result is zero: at zero utilization nothing is borrowed, and at
// saturation the inversion would divide by zero, so the known
// undercount is accepted.
func Borrowed(utilization, available decimal.Decimal) decimal.Decimal {
	u := clampPercent(utilization)
	if u.IsZero() || u.GreaterThanOrEqual(hundredPct) {
		return decimal.Zero
	}
	return available.Mul(u).Div(hundredPct.Sub(u))
}

// BuildStatistics assembles a PoolStatistics whole, so the invariant
// TotalValueLocked = AvailableLiquidity + TotalBorrowed holds by
// construction.
func BuildStatistics(utilization, available decimal.Decimal) model.PoolStatistics {
	borrowed := Borrowed(utilization, available)
	return model.PoolStatistics{
		TotalValueLocked:   available.Add(borrowed),
		UtilizationRate:    clampPercent(utilization),
		CurrentAPY:         APY(utilization),
		TotalBorrowed:      borrowed,
		AvailableLiquidity: available,
	}
}

func clampPercent(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(hundredPct) {
		return hundredPct
	}
	return d
}
