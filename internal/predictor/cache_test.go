package predictor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// countingSource records how many times it was consulted
type countingSource struct {
	calls int
	prob  float64
	err   error
}

func (c *countingSource) WinProbability(context.Context, *models.HistoricalRecord, models.MarketType) (float64, error) {
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	return c.prob, nil
}

func testRecord() *models.HistoricalRecord {
	return &models.HistoricalRecord{
		ID:                 uuid.New(),
		ModelProbabilities: map[models.MarketType]float64{models.MarketMoneyline: 0.58},
	}
}

func TestRecordSource(t *testing.T) {
	rec := testRecord()

	p, err := RecordSource{}.WinProbability(context.Background(), rec, models.MarketMoneyline)
	require.NoError(t, err)
	assert.Equal(t, 0.58, p)

	_, err = RecordSource{}.WinProbability(context.Background(), rec, models.MarketSpread)
	assert.ErrorIs(t, err, ErrProbabilityUnavailable)
}

func TestRecordSourceRejectsDegenerateProbabilities(t *testing.T) {
	rec := testRecord()
	rec.ModelProbabilities[models.MarketMoneyline] = 1.0

	_, err := RecordSource{}.WinProbability(context.Background(), rec, models.MarketMoneyline)
	assert.ErrorIs(t, err, ErrProbabilityUnavailable)
}

func TestCachedSourceHit(t *testing.T) {
	source := &countingSource{prob: 0.61}
	cached := NewCachedSource(source, time.Minute)
	rec := testRecord()

	for i := 0; i < 5; i++ {
		p, err := cached.WinProbability(context.Background(), rec, models.MarketMoneyline)
		require.NoError(t, err)
		assert.Equal(t, 0.61, p)
	}

	assert.Equal(t, 1, source.calls)
	hits, misses := cached.Stats()
	assert.Equal(t, uint64(4), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCachedSourceCachesUnavailable(t *testing.T) {
	source := &countingSource{err: ErrProbabilityUnavailable}
	cached := NewCachedSource(source, time.Minute)
	rec := testRecord()

	for i := 0; i < 3; i++ {
		_, err := cached.WinProbability(context.Background(), rec, models.MarketMoneyline)
		assert.ErrorIs(t, err, ErrProbabilityUnavailable)
	}

	assert.Equal(t, 1, source.calls, "negative results must be cached too")
}

func TestCachedSourceDoesNotCacheHardErrors(t *testing.T) {
	source := &countingSource{err: errors.New("service down")}
	cached := NewCachedSource(source, time.Minute)
	rec := testRecord()

	_, err := cached.WinProbability(context.Background(), rec, models.MarketMoneyline)
	assert.Error(t, err)
	_, err = cached.WinProbability(context.Background(), rec, models.MarketMoneyline)
	assert.Error(t, err)

	assert.Equal(t, 2, source.calls)
}

func TestCachedSourceKeysByMarket(t *testing.T) {
	source := &countingSource{prob: 0.55}
	cached := NewCachedSource(source, time.Minute)
	rec := testRecord()

	_, _ = cached.WinProbability(context.Background(), rec, models.MarketMoneyline)
	_, _ = cached.WinProbability(context.Background(), rec, models.MarketSpread)

	assert.Equal(t, 2, source.calls)
}

func TestCachedSourceClear(t *testing.T) {
	source := &countingSource{prob: 0.55}
	cached := NewCachedSource(source, time.Minute)
	rec := testRecord()

	_, _ = cached.WinProbability(context.Background(), rec, models.MarketMoneyline)
	cached.Clear()
	_, _ = cached.WinProbability(context.Background(), rec, models.MarketMoneyline)

	assert.Equal(t, 2, source.calls)
}
