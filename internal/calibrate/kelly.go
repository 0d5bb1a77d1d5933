package calibrate

import (
	"math"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// Default Kelly policy: quarter Kelly, stakes capped at 5% of bankroll
const (
	DefaultKellyFraction    = 0.25
	DefaultMaxStakeFraction = 0.05
)

// KellyConfig configures staking-policy optimization
type KellyConfig struct {
	Fraction float64
	Cap      float64
}

// OptimizeKelly derives per-market stake fractions from the training bet
// set synthesized under the tuned thresholds. The full-Kelly estimate per
// market is the mean of edge/(decimal_odds-1) across its training bets,
// scaled by the fractional multiplier and capped. A negative or non-finite
// estimate means no sizing signal and clamps to zero; it is not an error.
func OptimizeKelly(trainBets []*models.Bet, markets []models.MarketType, cfg KellyConfig) models.KellyPolicy {
	if cfg.Fraction <= 0 || cfg.Fraction > 1 {
		cfg.Fraction = DefaultKellyFraction
	}
	if cfg.Cap <= 0 {
		cfg.Cap = DefaultMaxStakeFraction
	}

	sums := make(map[models.MarketType]float64)
	counts := make(map[models.MarketType]int)
	for _, bet := range trainBets {
		denom := bet.DecimalOdds - 1
		if denom <= 0 {
			continue
		}
		sums[bet.Market] += bet.Edge / denom
		counts[bet.Market]++
	}

	stakes := make(map[models.MarketType]float64, len(markets))
	for _, market := range markets {
		stakes[market] = stakeFor(sums[market], counts[market], cfg)
	}

	return models.KellyPolicy{
		Fraction:       cfg.Fraction,
		Cap:            cfg.Cap,
		StakeFractions: stakes,
	}
}

func stakeFor(sum float64, count int, cfg KellyConfig) float64 {
	if count == 0 {
		return 0
	}
	full := sum / float64(count)
	if math.IsNaN(full) || math.IsInf(full, 0) || full < 0 {
		return 0
	}
	stake := full * cfg.Fraction
	if stake > cfg.Cap {
		return cfg.Cap
	}
	return stake
}
