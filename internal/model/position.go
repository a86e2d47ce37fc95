package model

import "github.com/shopspring/decimal"

// LenderPosition is one account's stake in the pool, in human currency
// units. TotalValue is always DepositAmount + EarnedInterest; positions
// are built whole by the synchronizer and never mutated field by field.
type LenderPosition struct {
	DepositAmount   decimal.Decimal `json:"deposit_amount"`
	EarnedInterest  decimal.Decimal `json:"earned_interest"`
	SharePercentage decimal.Decimal `json:"share_percentage"`
	TotalValue      decimal.Decimal `json:"total_value"`
}

// NewLenderPosition derives the total from its parts.
func NewLenderPosition(deposit, interest, share decimal.Decimal) LenderPosition {
	return LenderPosition{
		DepositAmount:   deposit,
		EarnedInterest:  interest,
		SharePercentage: share,
		TotalValue:      deposit.Add(interest),
	}
}

// PoolStatistics is the aggregate pool state at a point in time.
// TotalValueLocked and TotalBorrowed are derived (see internal/yield);
// only AvailableLiquidity and UtilizationRate come from the pool.
type PoolStatistics struct {
	TotalValueLocked   decimal.Decimal `json:"total_value_locked"`
	UtilizationRate    decimal.Decimal `json:"utilization_rate"`
	CurrentAPY         decimal.Decimal `json:"current_apy"`
	TotalBorrowed      decimal.Decimal `json:"total_borrowed"`
	AvailableLiquidity decimal.Decimal `json:"available_liquidity"`
}
