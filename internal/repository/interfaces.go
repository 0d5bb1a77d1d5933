// Package repository provides read-only access to the historical record
// store. The calibration core consumes the interface only; a live
// database is never required for testing.
package repository

import (
	"context"
	"time"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// RecordRepository supplies settled historical records for calibration.
// Implementations must return records ordered by date ascending with no
// duplicate identifiers, and an empty slice (not an error) when nothing
// matches.
type RecordRepository interface {
	GetByLeagueAndDateRange(ctx context.Context, league string, start, end time.Time) ([]*models.HistoricalRecord, error)
	CountByLeague(ctx context.Context, league string) (int, error)
}
