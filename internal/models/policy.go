package models

import "time"

// KellyPolicy describes the tuned staking policy: the fractional Kelly
// multiplier, the hard stake cap, and the resulting per-market stake
// fractions of a unit bankroll.
type KellyPolicy struct {
	Fraction       float64                `json:"fraction"`
	Cap            float64                `json:"cap"`
	StakeFractions map[MarketType]float64 `json:"stake_fractions"`
}

// PolicyParameters is the tuned, versioned parameter set applied to the
// test window. Immutable once produced by the tuner.
type PolicyParameters struct {
	Version         string                 `json:"version" validate:"required,semver"`
	EdgeThresholds  map[MarketType]float64 `json:"edge_thresholds" validate:"required,min=1"`
	Kelly           KellyPolicy            `json:"kelly_policy"`
	VarianceScalars map[MarketType]float64 `json:"variance_scalars" validate:"required,min=1"`
	LowConfidence   map[MarketType]bool    `json:"low_confidence,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// Threshold returns the edge threshold for a market, defaulting to the
// most restrictive possible value when the market was never tuned
func (p PolicyParameters) Threshold(mt MarketType) float64 {
	if t, ok := p.EdgeThresholds[mt]; ok {
		return t
	}
	return 1.0
}

// Scalar returns the variance scalar for a market, defaulting to neutral
func (p PolicyParameters) Scalar(mt MarketType) float64 {
	if s, ok := p.VarianceScalars[mt]; ok {
		return s
	}
	return 1.0
}

// Stake returns the tuned stake fraction for a market
func (p PolicyParameters) Stake(mt MarketType) float64 {
	return p.Kelly.StakeFractions[mt]
}
