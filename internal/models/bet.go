package models

import (
	"time"

	"github.com/google/uuid"
)

// SkipReason explains why a record/market pair produced no bet
type SkipReason string

const (
	SkipMarketUnavailable SkipReason = "market_unavailable"
	SkipInvalidOdds       SkipReason = "invalid_odds"
	SkipNoProbability     SkipReason = "no_probability"
	SkipPushOutcome       SkipReason = "push_outcome"
	SkipBelowThreshold    SkipReason = "below_threshold"
	SkipZeroStake         SkipReason = "zero_stake"
)

// Exclusion reasons count toward the pack's excluded-record metadata.
// SkipBelowThreshold is a policy decision, not a data problem, so it does not.
func (s SkipReason) IsExclusion() bool {
	switch s {
	case SkipMarketUnavailable, SkipInvalidOdds, SkipNoProbability, SkipPushOutcome:
		return true
	default:
		return false
	}
}

// Bet represents a synthetic betting decision derived from a historical
// record under a candidate policy. Immutable once synthesized.
type Bet struct {
	RecordID          uuid.UUID  `json:"record_id"`
	Market            MarketType `json:"market"`
	Date              time.Time  `json:"date"`
	ModelProbability  float64    `json:"model_probability"` // variance-adjusted
	MarketProbability float64    `json:"market_probability"`
	Edge              float64    `json:"edge"`
	DecimalOdds       float64    `json:"decimal_odds"`
	StakeFraction     float64    `json:"stake_fraction"`
	Won               bool       `json:"won"`
	Profit            float64    `json:"profit"`
}

// Return is the per-bet return: profit as a fraction of stake
func (b *Bet) Return() float64 {
	if b.StakeFraction == 0 {
		return 0
	}
	return b.Profit / b.StakeFraction
}
