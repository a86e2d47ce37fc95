package model

import "github.com/shopspring/decimal"

// PositionSnapshot is the persisted form of one synchronization pass.
type PositionSnapshot struct {
	Account    string          `json:"account"`
	Position   LenderPosition  `json:"position"`
	Statistics PoolStatistics  `json:"statistics"`
	Allowance  decimal.Decimal `json:"allowance"`
	TakenAt    string          `json:"taken_at"`
}
