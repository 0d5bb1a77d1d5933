package calibrate

import (
	"github.com/yourusername/edge-calibrator/internal/models"
)

// DefaultBinCount partitions [0,1] into ten equal-width reliability bins
const DefaultBinCount = 10

// BuildReliabilityBins buckets every bet by its adjusted model probability
// into n equal-width bins over [0,1]. Bins are lower-inclusive and
// upper-exclusive except the final bin, which also includes 1.0, so each
// bet lands in exactly one bin and the bin counts sum to len(bets).
func BuildReliabilityBins(bets []*models.Bet, n int) []models.ReliabilityBin {
	if n <= 0 {
		n = DefaultBinCount
	}

	counts := make([]int, n)
	wins := make([]int, n)
	probSums := make([]float64, n)
	for _, bet := range bets {
		idx := int(bet.ModelProbability * float64(n))
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
		probSums[idx] += bet.ModelProbability
		if bet.Won {
			wins[idx]++
		}
	}

	bins := make([]models.ReliabilityBin, n)
	for i := 0; i < n; i++ {
		bins[i] = models.ReliabilityBin{
			Lower:         float64(i) / float64(n),
			Upper:         float64(i+1) / float64(n),
			Count:         counts[i],
			Wins:          wins[i],
			EmpiricalRate: ratio(float64(wins[i]), float64(counts[i])),
			MeanPredicted: ratio(probSums[i], float64(counts[i])),
		}
	}
	return bins
}
