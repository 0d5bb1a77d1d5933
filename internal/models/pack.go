package models

import (
	"time"

	"github.com/google/uuid"
)

// PerformanceMetrics summarizes a bet set. Ratio metrics are pointers:
// nil means the metric is undefined (zero denominator or insufficient
// sample), which is a valid output, never coerced to 0 or NaN.
type PerformanceMetrics struct {
	ROI         *float64 `json:"roi"`
	Sharpe      *float64 `json:"sharpe"`
	MaxDrawdown float64  `json:"max_drawdown"`
	HitRate     *float64 `json:"hit_rate"`
	BrierScore  *float64 `json:"brier_score"`
	LogLoss     *float64 `json:"log_loss"`
	NBets       int      `json:"n_bets"`
	TotalStaked float64  `json:"total_staked"`
	TotalProfit float64  `json:"total_profit"`
}

// ReliabilityBin is one [Lower, Upper) probability bucket of the
// calibration curve. The final bin is upper-inclusive.
type ReliabilityBin struct {
	Lower         float64  `json:"lower"`
	Upper         float64  `json:"upper"`
	Count         int      `json:"count"`
	Wins          int      `json:"wins"`
	EmpiricalRate *float64 `json:"empirical_rate"`
	MeanPredicted *float64 `json:"mean_predicted"`
}

// Window is a half-open date range covering one data partition
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PackMetadata carries run bookkeeping for the calibration pack
type PackMetadata struct {
	RunID           uuid.UUID          `json:"run_id"`
	GeneratedAt     time.Time          `json:"generated_at"`
	TrainRecords    int                `json:"train_records"`
	TestRecords     int                `json:"test_records"`
	ExcludedRecords int                `json:"excluded_records"`
	Exclusions      map[SkipReason]int `json:"exclusions,omitempty"`
}

// CalibrationPack is the sole persisted artifact of a calibration run:
// tuned parameters plus validation metrics, versioned and write-once.
type CalibrationPack struct {
	Version         string                 `json:"version" validate:"required,semver"`
	League          string                 `json:"league" validate:"required"`
	TrainWindow     Window                 `json:"train_window" validate:"required"`
	TestWindow      Window                 `json:"test_window" validate:"required"`
	EdgeThresholds  map[MarketType]float64 `json:"edge_thresholds" validate:"required,min=1"`
	KellyPolicy     KellyPolicy            `json:"kelly_policy" validate:"required"`
	VarianceScalars map[MarketType]float64 `json:"variance_scalars" validate:"required,min=1"`
	TrainMetrics    PerformanceMetrics     `json:"train_metrics"`
	TestMetrics     PerformanceMetrics     `json:"test_metrics"`
	ReliabilityBins []ReliabilityBin       `json:"reliability_bins" validate:"required,min=1"`
	Metadata        PackMetadata           `json:"metadata"`
	Notes           string                 `json:"notes,omitempty"`
}
