package calibrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/edge-calibrator/internal/models"
)

func binBet(prob float64, won bool) *models.Bet {
	return &models.Bet{ModelProbability: prob, Won: won, StakeFraction: 1}
}

func TestBuildReliabilityBinsPartition(t *testing.T) {
	bins := BuildReliabilityBins(nil, 10)
	require.Len(t, bins, 10)

	assert.Equal(t, 0.0, bins[0].Lower)
	assert.Equal(t, 1.0, bins[9].Upper)
	for i := 1; i < 10; i++ {
		assert.Equal(t, bins[i-1].Upper, bins[i].Lower)
	}
}

func TestBuildReliabilityBinsCountConservation(t *testing.T) {
	bets := []*models.Bet{
		binBet(0.05, false),
		binBet(0.15, true),
		binBet(0.55, true),
		binBet(0.55, false),
		binBet(0.95, true),
		binBet(1.0, true), // upper edge lands in the final bin
	}

	bins := BuildReliabilityBins(bets, 10)
	total := 0
	for _, bin := range bins {
		total += bin.Count
	}
	assert.Equal(t, len(bets), total)
	assert.Equal(t, 2, bins[9].Count)
}

func TestBuildReliabilityBinsRates(t *testing.T) {
	bets := []*models.Bet{
		binBet(0.52, true),
		binBet(0.55, true),
		binBet(0.58, false),
		binBet(0.54, false),
	}

	bins := BuildReliabilityBins(bets, 10)
	bin := bins[5] // [0.5, 0.6)
	assert.Equal(t, 4, bin.Count)
	assert.Equal(t, 2, bin.Wins)
	require.NotNil(t, bin.EmpiricalRate)
	assert.InDelta(t, 0.5, *bin.EmpiricalRate, 1e-12)
	require.NotNil(t, bin.MeanPredicted)
	assert.InDelta(t, (0.52+0.55+0.58+0.54)/4, *bin.MeanPredicted, 1e-12)
}

func TestBuildReliabilityBinsEmptyBinUndefined(t *testing.T) {
	bets := []*models.Bet{binBet(0.55, true)}
	bins := BuildReliabilityBins(bets, 10)

	assert.Nil(t, bins[0].EmpiricalRate)
	assert.Nil(t, bins[0].MeanPredicted)
	assert.Equal(t, 0, bins[0].Count)
}

func TestBuildReliabilityBinsDefaultCount(t *testing.T) {
	bins := BuildReliabilityBins(nil, 0)
	assert.Len(t, bins, DefaultBinCount)
}
