package calibrate

import (
	"math"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// logLossClamp bounds probabilities away from 0/1 before taking logs so a
// single confident miss cannot produce an infinite loss
const logLossClamp = 1e-12

// CalculateMetrics computes the full performance and calibration summary
// for a bet set. Bets must be in chronological order; the drawdown scan
// depends on it. Undefined ratios come back as nil, never 0 or NaN.
func CalculateMetrics(bets []*models.Bet) models.PerformanceMetrics {
	metrics := models.PerformanceMetrics{NBets: len(bets)}

	wins := 0
	for _, bet := range bets {
		metrics.TotalStaked += bet.StakeFraction
		metrics.TotalProfit += bet.Profit
		if bet.Won {
			wins++
		}
	}

	metrics.ROI = ratio(metrics.TotalProfit, metrics.TotalStaked)
	metrics.HitRate = ratio(float64(wins), float64(len(bets)))
	metrics.MaxDrawdown = maxDrawdown(bets)
	metrics.Sharpe = sharpeRatio(bets)
	metrics.BrierScore = brierScore(bets)
	metrics.LogLoss = logLoss(bets)
	return metrics
}

// ratio returns num/den, or nil when the denominator is zero
func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := num / den
	return &v
}

// maxDrawdown scans cumulative profit in bet order on a unit starting
// bankroll and returns the largest peak-to-trough decline as a fraction
// of the running peak. Always non-negative.
func maxDrawdown(bets []*models.Bet) float64 {
	bankroll := 1.0
	peak := 1.0
	maxDD := 0.0
	for _, bet := range bets {
		bankroll += bet.Profit
		if bankroll > peak {
			peak = bankroll
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - bankroll) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// sharpeRatio is mean per-bet return over its population standard
// deviation. Undefined for fewer than two bets or zero dispersion.
func sharpeRatio(bets []*models.Bet) *float64 {
	if len(bets) < 2 {
		return nil
	}
	returns := make([]float64, len(bets))
	for i, bet := range bets {
		returns[i] = bet.Return()
	}
	std := stddev(returns)
	if std == 0 {
		return nil
	}
	v := average(returns) / std
	return &v
}

func brierScore(bets []*models.Bet) *float64 {
	if len(bets) == 0 {
		return nil
	}
	sum := 0.0
	for _, bet := range bets {
		outcome := 0.0
		if bet.Won {
			outcome = 1.0
		}
		diff := bet.ModelProbability - outcome
		sum += diff * diff
	}
	v := sum / float64(len(bets))
	return &v
}

func logLoss(bets []*models.Bet) *float64 {
	if len(bets) == 0 {
		return nil
	}
	sum := 0.0
	for _, bet := range bets {
		p := clamp(bet.ModelProbability, logLossClamp, 1-logLossClamp)
		if bet.Won {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	v := sum / float64(len(bets))
	return &v
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
