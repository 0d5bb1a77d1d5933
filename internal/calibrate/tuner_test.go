package calibrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/edge-calibrator/internal/models"
)

func TestDefaultThresholdGrid(t *testing.T) {
	grid := DefaultThresholdGrid()
	require.Len(t, grid, 20)
	assert.InDelta(t, 0.005, grid[0], 1e-12)
	assert.InDelta(t, 0.10, grid[19], 1e-12)
	for i := 1; i < len(grid); i++ {
		assert.InDelta(t, 0.005, grid[i]-grid[i-1], 1e-12)
	}
}

// Two cohorts: a thin-edge cohort that loses money overall and a
// wide-edge cohort that wins. The tuner should pick the lowest threshold
// that excludes the thin-edge cohort.
func TestTuneThresholdsSelectsProfitableCutoff(t *testing.T) {
	// 30 records at 2% edge, 10 winners: contributes -10 units
	thin := recordSeries(30, []bool{true, false, false}, 2.0, 2.0)
	// 30 records at 6% edge, 20 winners: contributes +10 units
	wide := recordSeries(30, []bool{true, true, false}, 2.0, 2.0)

	records := append(append([]*models.HistoricalRecord{}, thin...), wide...)
	probs := make(ProbabilityTable)
	for _, rec := range thin {
		probs.Set(rec.ID, models.MarketMoneyline, 0.52)
	}
	for _, rec := range wide {
		probs.Set(rec.ID, models.MarketMoneyline, 0.56)
	}

	results := TuneThresholds(records, []models.MarketType{models.MarketMoneyline}, probs, nil, TunerConfig{MinBets: 20})
	result := results[models.MarketMoneyline]

	assert.InDelta(t, 0.025, result.Threshold, 1e-12)
	assert.False(t, result.LowConfidence)
	assert.Equal(t, 30, result.NBets)
	require.NotNil(t, result.ROI)
	assert.InDelta(t, 1.0/3.0, *result.ROI, 1e-9)
	assert.Len(t, result.Candidates, 20)
}

// When every eligible candidate ties on ROI the lowest threshold wins.
func TestTuneThresholdsTieBreaksLow(t *testing.T) {
	records := recordSeries(60, []bool{true, true, false}, 2.0, 2.0)
	probs := tableFor(records, 0.58) // 8% edge everywhere

	results := TuneThresholds(records, []models.MarketType{models.MarketMoneyline}, probs, nil, TunerConfig{MinBets: 20})
	result := results[models.MarketMoneyline]

	// thresholds 0.005 through 0.08 produce the identical bet set
	assert.InDelta(t, 0.005, result.Threshold, 1e-12)
	assert.False(t, result.LowConfidence)
}

func TestTuneThresholdsLowConfidenceFallback(t *testing.T) {
	// Too few records for any candidate to clear the bet-count floor.
	records := recordSeries(10, []bool{true, false}, 2.0, 2.0)
	probs := tableFor(records, 0.56)

	results := TuneThresholds(records, []models.MarketType{models.MarketMoneyline}, probs, nil, TunerConfig{MinBets: 20})
	result := results[models.MarketMoneyline]

	assert.True(t, result.LowConfidence)
	assert.InDelta(t, 0.005, result.Threshold, 1e-12, "fallback is the lowest grid threshold")
}

// Records dated after the split boundary must have no effect on the
// tuned thresholds: the training window alone drives the grid search.
func TestTuneThresholdsUnaffectedByLaterRecords(t *testing.T) {
	splitter := NewSplitter(0.7, 10)
	markets := []models.MarketType{models.MarketMoneyline}
	records := recordSeries(60, []bool{true, true, false}, 2.0, 2.0)
	probs := tableFor(records, 0.56)

	train, _, err := splitter.SplitByDate(records, day(40))
	require.NoError(t, err)
	before := TuneThresholds(train, markets, probs, nil, TunerConfig{MinBets: 20})

	// A run of heavy losers with inflated probabilities, all dated
	// after the original range.
	later := make([]*models.HistoricalRecord, 0, 30)
	for i := 0; i < 30; i++ {
		rec := moneylineRecord(day(60+i), false, 2.0, 2.0)
		probs.Set(rec.ID, models.MarketMoneyline, 0.9)
		later = append(later, rec)
	}
	extended := append(append([]*models.HistoricalRecord{}, records...), later...)

	train, _, err = splitter.SplitByDate(extended, day(40))
	require.NoError(t, err)
	after := TuneThresholds(train, markets, probs, nil, TunerConfig{MinBets: 20})

	assert.Equal(t, before[models.MarketMoneyline].Threshold, after[models.MarketMoneyline].Threshold)
	assert.Equal(t, before[models.MarketMoneyline].NBets, after[models.MarketMoneyline].NBets)
	assert.Equal(t, before[models.MarketMoneyline].ROI, after[models.MarketMoneyline].ROI)
}

func TestTuneThresholdsDeterministic(t *testing.T) {
	records := recordSeries(90, []bool{true, false, true, true, false}, 1.91, 1.91)
	probs := tableFor(records, 0.57)

	first := TuneThresholds(records, []models.MarketType{models.MarketMoneyline}, probs, nil, TunerConfig{MinBets: 20})
	for i := 0; i < 5; i++ {
		again := TuneThresholds(records, []models.MarketType{models.MarketMoneyline}, probs, nil, TunerConfig{MinBets: 20})
		assert.Equal(t, first[models.MarketMoneyline].Threshold, again[models.MarketMoneyline].Threshold)
		assert.Equal(t, first[models.MarketMoneyline].NBets, again[models.MarketMoneyline].NBets)
	}
}

func TestTuneThresholdsSortsCustomGrid(t *testing.T) {
	records := recordSeries(60, []bool{true, true, false}, 2.0, 2.0)
	probs := tableFor(records, 0.58)

	// Unordered custom grid must not change the tie-break.
	results := TuneThresholds(records, []models.MarketType{models.MarketMoneyline}, probs, nil, TunerConfig{
		Grid:    []float64{0.05, 0.01, 0.03},
		MinBets: 20,
	})
	result := results[models.MarketMoneyline]
	assert.InDelta(t, 0.01, result.Threshold, 1e-12)
}

func TestTuneThresholdsAppliesVarianceScalar(t *testing.T) {
	records := recordSeries(60, []bool{true, true, false}, 2.0, 2.0)
	probs := tableFor(records, 0.58)

	// A compressing scalar pulls 0.58 to 0.556, leaving a 5.6% edge, so
	// only thresholds up to 0.055 produce bets.
	scalars := map[models.MarketType]float64{models.MarketMoneyline: 0.7}
	results := TuneThresholds(records, []models.MarketType{models.MarketMoneyline}, probs, scalars, TunerConfig{MinBets: 20})
	result := results[models.MarketMoneyline]

	for _, candidate := range result.Candidates {
		if candidate.Threshold > 0.056 {
			assert.Equal(t, 0, candidate.NBets)
		}
	}
}

func TestProbabilityTable(t *testing.T) {
	records := recordSeries(1, []bool{true}, 2.0, 2.0)
	table := make(ProbabilityTable)

	_, ok := table.Lookup(records[0].ID, models.MarketMoneyline)
	assert.False(t, ok)

	table.Set(records[0].ID, models.MarketMoneyline, 0.61)
	p, ok := table.Lookup(records[0].ID, models.MarketMoneyline)
	assert.True(t, ok)
	assert.Equal(t, 0.61, p)
}
