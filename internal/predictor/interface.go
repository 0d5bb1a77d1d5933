// Package predictor integrates the external prediction/simulation engine
// that supplies model win probabilities per record and market.
package predictor

import (
	"context"
	"errors"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// ErrProbabilityUnavailable signals that no model probability exists for a
// record/market pair. Callers treat it as a skip, not a fault.
var ErrProbabilityUnavailable = errors.New("model probability unavailable")

// ProbabilitySource supplies the modeled-side win probability for a
// record/market pair. Implementations must return a value in (0,1) or
// ErrProbabilityUnavailable.
type ProbabilitySource interface {
	WinProbability(ctx context.Context, record *models.HistoricalRecord, market models.MarketType) (float64, error)
}

// RecordSource reads probabilities already attached to the record by the
// data pipeline. The zero value is ready to use.
type RecordSource struct{}

// WinProbability returns the record-embedded probability for the market
func (RecordSource) WinProbability(_ context.Context, record *models.HistoricalRecord, market models.MarketType) (float64, error) {
	p, ok := record.ModelProbability(market)
	if !ok || p <= 0 || p >= 1 {
		return 0, ErrProbabilityUnavailable
	}
	return p, nil
}
