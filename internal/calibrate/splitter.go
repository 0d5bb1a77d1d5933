package calibrate

import (
	"sort"
	"time"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// DefaultMinWindowRecords is the minimum record count either window must hold
const DefaultMinWindowRecords = 30

// Splitter partitions a date-ordered record set into non-overlapping train
// and test windows. The canonical method is count-based: the raw boundary
// index is floor(ratio * len), then every record sharing the boundary date
// is pushed into the test window so no date straddles the cut. The rule is
// deterministic and monotonic: increasing the ratio never moves the
// boundary earlier.
type Splitter struct {
	Ratio            float64
	MinWindowRecords int
}

// NewSplitter creates a splitter with the given train ratio
func NewSplitter(ratio float64, minWindowRecords int) Splitter {
	if minWindowRecords <= 0 {
		minWindowRecords = DefaultMinWindowRecords
	}
	return Splitter{Ratio: ratio, MinWindowRecords: minWindowRecords}
}

// Split partitions records by the count-based boundary rule
func (s Splitter) Split(records []*models.HistoricalRecord) (train, test []*models.HistoricalRecord, err error) {
	if s.Ratio <= 0 || s.Ratio >= 1 {
		return nil, nil, &models.InvalidSplitRatioError{Ratio: s.Ratio}
	}

	ordered := sortedByDate(records)
	if len(ordered) < s.MinWindowRecords {
		return nil, nil, &models.InsufficientDataError{Window: "train", Got: len(ordered), Min: s.MinWindowRecords}
	}

	// Epsilon guards the floor against float error: 0.7*100 must be 70, not 69.
	idx := int(s.Ratio*float64(len(ordered)) + 1e-9)
	if idx >= len(ordered) {
		idx = len(ordered) - 1
	}
	// All records on the boundary date belong to the test window.
	boundary := ordered[idx].Date
	for idx > 0 && sameDay(ordered[idx-1].Date, boundary) {
		idx--
	}

	train = ordered[:idx]
	test = ordered[idx:]
	if len(train) < s.MinWindowRecords {
		return nil, nil, &models.InsufficientDataError{Window: "train", Got: len(train), Min: s.MinWindowRecords}
	}
	if len(test) < s.MinWindowRecords {
		return nil, nil, &models.InsufficientDataError{Window: "test", Got: len(test), Min: s.MinWindowRecords}
	}
	return train, test, nil
}

// SplitByDate partitions records at an explicit boundary date: records
// strictly before the boundary train, the rest test
func (s Splitter) SplitByDate(records []*models.HistoricalRecord, boundary time.Time) (train, test []*models.HistoricalRecord, err error) {
	ordered := sortedByDate(records)
	if len(ordered) > 0 {
		first, last := ordered[0].Date, ordered[len(ordered)-1].Date
		if boundary.Before(first) || boundary.After(last) {
			return nil, nil, &models.InvalidSplitRatioError{Ratio: 0, Detail: "boundary date outside record range"}
		}
	}

	idx := sort.Search(len(ordered), func(i int) bool {
		return !ordered[i].Date.Before(boundary)
	})
	train = ordered[:idx]
	test = ordered[idx:]
	if len(train) < s.MinWindowRecords {
		return nil, nil, &models.InsufficientDataError{Window: "train", Got: len(train), Min: s.MinWindowRecords}
	}
	if len(test) < s.MinWindowRecords {
		return nil, nil, &models.InsufficientDataError{Window: "test", Got: len(test), Min: s.MinWindowRecords}
	}
	return train, test, nil
}

// WindowRange returns the inclusive date range covered by a window
func WindowRange(records []*models.HistoricalRecord) models.Window {
	if len(records) == 0 {
		return models.Window{}
	}
	return models.Window{Start: records[0].Date, End: records[len(records)-1].Date}
}

func sortedByDate(records []*models.HistoricalRecord) []*models.HistoricalRecord {
	ordered := make([]*models.HistoricalRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})
	return ordered
}

func sameDay(a, b time.Time) bool {
	return a.UTC().Truncate(24 * time.Hour).Equal(b.UTC().Truncate(24 * time.Hour))
}
