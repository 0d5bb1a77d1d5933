package calibrate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/edge-calibrator/internal/models"
	"github.com/yourusername/edge-calibrator/internal/predictor"
)

// fakeRepository serves a fixed record set filtered by date range
type fakeRepository struct {
	records []*models.HistoricalRecord
	err     error
}

func (f *fakeRepository) GetByLeagueAndDateRange(_ context.Context, _ string, start, end time.Time) ([]*models.HistoricalRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.HistoricalRecord, 0, len(f.records))
	for _, rec := range f.records {
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeRepository) CountByLeague(_ context.Context, _ string) (int, error) {
	return len(f.records), nil
}

// failingSource returns a hard error for every lookup
type failingSource struct{}

func (failingSource) WinProbability(context.Context, *models.HistoricalRecord, models.MarketType) (float64, error) {
	return 0, errors.New("prediction service down")
}

func engineRecords(n int) []*models.HistoricalRecord {
	records := recordSeries(n, []bool{true, true, false}, 2.0, 2.0)
	for _, rec := range records {
		rec.ModelProbabilities = map[models.MarketType]float64{models.MarketMoneyline: 0.56}
	}
	return records
}

func engineConfig() Config {
	cfg := DefaultConfig()
	cfg.Markets = []models.MarketType{models.MarketMoneyline}
	cfg.MinWindowRecords = 10
	cfg.MinBets = 10
	return cfg
}

func TestNewEngineRequiresRepository(t *testing.T) {
	_, err := NewEngine(engineConfig(), nil, nil, nil)
	assert.Error(t, err)
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := engineConfig()
	cfg.SplitRatio = 2.0
	_, err := NewEngine(cfg, &fakeRepository{}, nil, nil)
	assert.Error(t, err)
}

func TestEngineRunProducesValidPack(t *testing.T) {
	repo := &fakeRepository{records: engineRecords(120)}
	engine, err := NewEngine(engineConfig(), repo, predictor.RecordSource{}, nil)
	require.NoError(t, err)

	pack, err := engine.Run(context.Background(), "nba", day(0), day(120))
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", pack.Version)
	assert.Equal(t, "nba", pack.League)
	assert.Contains(t, pack.EdgeThresholds, models.MarketMoneyline)
	assert.Len(t, pack.ReliabilityBins, DefaultBinCount)
	assert.Equal(t, 84, pack.Metadata.TrainRecords)
	assert.Equal(t, 36, pack.Metadata.TestRecords)
}

// The tuned threshold must admit the training data's uniform 6% edge.
func TestEngineRunThresholdWithinEdge(t *testing.T) {
	repo := &fakeRepository{records: engineRecords(120)}
	engine, err := NewEngine(engineConfig(), repo, predictor.RecordSource{}, nil)
	require.NoError(t, err)

	pack, err := engine.Run(context.Background(), "nba", day(0), day(120))
	require.NoError(t, err)

	threshold := pack.EdgeThresholds[models.MarketMoneyline]
	assert.Greater(t, threshold, 0.0)
	assert.LessOrEqual(t, threshold, 0.06+1e-9)
	assert.Greater(t, pack.TestMetrics.NBets, 0)
}

// Train and test windows must never share a calendar date.
func TestEngineRunWindowsDisjoint(t *testing.T) {
	repo := &fakeRepository{records: engineRecords(120)}
	engine, err := NewEngine(engineConfig(), repo, predictor.RecordSource{}, nil)
	require.NoError(t, err)

	pack, err := engine.Run(context.Background(), "nba", day(0), day(120))
	require.NoError(t, err)

	assert.True(t, pack.TrainWindow.End.Before(pack.TestWindow.Start))
}

func TestEngineRunDeterministic(t *testing.T) {
	repo := &fakeRepository{records: engineRecords(120)}
	engine, err := NewEngine(engineConfig(), repo, predictor.RecordSource{}, nil)
	require.NoError(t, err)

	first, err := engine.Run(context.Background(), "nba", day(0), day(120))
	require.NoError(t, err)
	second, err := engine.Run(context.Background(), "nba", day(0), day(120))
	require.NoError(t, err)

	assert.Equal(t, first.EdgeThresholds, second.EdgeThresholds)
	assert.Equal(t, first.KellyPolicy.StakeFractions, second.KellyPolicy.StakeFractions)
	assert.Equal(t, first.TestMetrics.NBets, second.TestMetrics.NBets)
}

// Records without a model probability are excluded whichever window
// they fall in, and the pack metadata accounts for all of them.
func TestEngineRunCountsTrainWindowExclusions(t *testing.T) {
	records := engineRecords(120)
	for _, rec := range records[10:15] {
		rec.ModelProbabilities = nil
	}
	repo := &fakeRepository{records: records}
	engine, err := NewEngine(engineConfig(), repo, predictor.RecordSource{}, nil)
	require.NoError(t, err)

	pack, err := engine.Run(context.Background(), "nba", day(0), day(120))
	require.NoError(t, err)

	assert.Equal(t, 5, pack.Metadata.Exclusions[models.SkipNoProbability])
	assert.Equal(t, 5, pack.Metadata.ExcludedRecords)
}

// An empty repository result is a valid response and must surface as an
// insufficient-data error, never a panic.
func TestEngineRunEmptyRepository(t *testing.T) {
	repo := &fakeRepository{}
	engine, err := NewEngine(engineConfig(), repo, predictor.RecordSource{}, nil)
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), "nba", day(0), day(120))
	var dataErr *models.InsufficientDataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, 0, dataErr.Got)
}

func TestEngineRunInsufficientData(t *testing.T) {
	repo := &fakeRepository{records: engineRecords(15)}
	engine, err := NewEngine(engineConfig(), repo, predictor.RecordSource{}, nil)
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), "nba", day(0), day(120))
	var dataErr *models.InsufficientDataError
	assert.True(t, errors.As(err, &dataErr))
}

func TestEngineRunRepositoryError(t *testing.T) {
	repo := &fakeRepository{err: errors.New("connection refused")}
	engine, err := NewEngine(engineConfig(), repo, predictor.RecordSource{}, nil)
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), "nba", day(0), day(120))
	assert.Error(t, err)
}

func TestEngineRunProbabilitySourceHardErrorAborts(t *testing.T) {
	repo := &fakeRepository{records: engineRecords(120)}
	engine, err := NewEngine(engineConfig(), repo, failingSource{}, nil)
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), "nba", day(0), day(120))
	assert.Error(t, err)
}
