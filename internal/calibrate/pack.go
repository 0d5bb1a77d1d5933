package calibrate

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yourusername/edge-calibrator/internal/models"
)

// PackInput collects everything the builder assembles into a pack
type PackInput struct {
	Version      string
	League       string
	TrainWindow  models.Window
	TestWindow   models.Window
	Parameters   models.PolicyParameters
	TrainMetrics models.PerformanceMetrics
	TestMetrics  models.PerformanceMetrics
	Bins         []models.ReliabilityBin
	TrainRecords int
	TestRecords  int
	Exclusions   map[models.SkipReason]int
	Notes        string
}

// PackBuilder assembles and schema-validates calibration packs. Pure
// aggregation: it computes nothing, only collects and checks.
type PackBuilder struct {
	validate *validator.Validate
}

// NewPackBuilder creates a pack builder with a fresh validator instance
func NewPackBuilder() *PackBuilder {
	return &PackBuilder{validate: validator.New()}
}

// Build assembles the versioned calibration pack and validates its schema.
// Missing required fields fail the build; undefined (nil) metric values
// are valid outputs and never rejected.
func (b *PackBuilder) Build(input PackInput) (*models.CalibrationPack, error) {
	excluded := 0
	for reason, count := range input.Exclusions {
		if reason.IsExclusion() {
			excluded += count
		}
	}

	pack := &models.CalibrationPack{
		Version:         input.Version,
		League:          input.League,
		TrainWindow:     input.TrainWindow,
		TestWindow:      input.TestWindow,
		EdgeThresholds:  input.Parameters.EdgeThresholds,
		KellyPolicy:     input.Parameters.Kelly,
		VarianceScalars: input.Parameters.VarianceScalars,
		TrainMetrics:    input.TrainMetrics,
		TestMetrics:     input.TestMetrics,
		ReliabilityBins: input.Bins,
		Metadata: models.PackMetadata{
			RunID:           uuid.New(),
			GeneratedAt:     time.Now().UTC(),
			TrainRecords:    input.TrainRecords,
			TestRecords:     input.TestRecords,
			ExcludedRecords: excluded,
			Exclusions:      input.Exclusions,
		},
		Notes: input.Notes,
	}

	if err := b.validate.Struct(pack); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPackValidation, err)
	}
	return pack, nil
}
