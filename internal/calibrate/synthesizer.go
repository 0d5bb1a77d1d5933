package calibrate

import (
	"github.com/yourusername/edge-calibrator/internal/models"
	"github.com/yourusername/edge-calibrator/internal/odds"
)

// probabilityClamp bounds adjusted probabilities away from exact 0 and 1
const probabilityClamp = 1e-6

// AdjustProbability applies the variance scalar to a model probability by
// scaling its distance from 0.5: adjusted = 0.5 + scalar*(p - 0.5).
// A scalar below 1 compresses over-confident models toward 0.5, above 1
// expands under-confident ones. The transform is linear and reversible
// for any positive scalar; the result is clamped to (0,1).
func AdjustProbability(p, scalar float64) float64 {
	adjusted := 0.5 + scalar*(p-0.5)
	if adjusted < probabilityClamp {
		return probabilityClamp
	}
	if adjusted > 1-probabilityClamp {
		return 1 - probabilityClamp
	}
	return adjusted
}

// Synthesize decides whether a bet would be placed on one record/market
// under the candidate policy. Pure function: same inputs always produce
// the same output. Malformed or missing odds are a skip, never an error.
func Synthesize(
	rec *models.HistoricalRecord,
	market models.MarketType,
	modelProb float64,
	varianceScalar float64,
	edgeThreshold float64,
	stakeFraction float64,
) (*models.Bet, models.SkipReason) {
	line, ok := rec.Market(market)
	if !ok {
		return nil, models.SkipMarketUnavailable
	}
	if modelProb <= 0 || modelProb >= 1 {
		return nil, models.SkipNoProbability
	}

	marketProb, ok := odds.MarketProbability(line.Price.InexactFloat64(), line.OpposingPrice.InexactFloat64())
	if !ok {
		return nil, models.SkipInvalidOdds
	}
	if line.Won == nil {
		// Push or void settlement carries no outcome to score against.
		return nil, models.SkipPushOutcome
	}

	adjusted := AdjustProbability(modelProb, varianceScalar)
	edge := adjusted - marketProb
	if edge < edgeThreshold {
		return nil, models.SkipBelowThreshold
	}
	if stakeFraction <= 0 {
		return nil, models.SkipZeroStake
	}

	decimalOdds := line.Price.InexactFloat64()
	profit := -stakeFraction
	if *line.Won {
		profit = stakeFraction * (decimalOdds - 1)
	}

	return &models.Bet{
		RecordID:          rec.ID,
		Market:            market,
		Date:              rec.Date,
		ModelProbability:  adjusted,
		MarketProbability: marketProb,
		Edge:              edge,
		DecimalOdds:       decimalOdds,
		StakeFraction:     stakeFraction,
		Won:               *line.Won,
		Profit:            profit,
	}, ""
}

// SynthesizeWindow applies a fixed policy to every record/market pair in a
// window, returning the resulting bet set plus skip counts by reason.
// Bets come out in record order, which is date order for repository data.
func SynthesizeWindow(
	records []*models.HistoricalRecord,
	markets []models.MarketType,
	probs ProbabilityTable,
	params models.PolicyParameters,
) ([]*models.Bet, map[models.SkipReason]int) {
	bets := make([]*models.Bet, 0, len(records))
	skips := make(map[models.SkipReason]int)

	for _, rec := range records {
		for _, market := range markets {
			prob, ok := probs.Lookup(rec.ID, market)
			if !ok {
				skips[models.SkipNoProbability]++
				continue
			}
			bet, reason := Synthesize(rec, market, prob, params.Scalar(market), params.Threshold(market), params.Stake(market))
			if bet == nil {
				skips[reason]++
				continue
			}
			bets = append(bets, bet)
		}
	}
	return bets, skips
}
