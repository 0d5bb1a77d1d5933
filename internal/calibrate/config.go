package calibrate

import (
	"fmt"

	"github.com/yourusername/edge-calibrator/internal/config"
	"github.com/yourusername/edge-calibrator/internal/models"
)

// Config holds the parameters of a calibration run
type Config struct {
	Version          string
	SplitRatio       float64
	MinWindowRecords int
	MinBets          int
	ThresholdGrid    []float64
	KellyFraction    float64
	MaxStakeFraction float64
	VarianceScalars  map[models.MarketType]float64
	Markets          []models.MarketType
	BinCount         int
	Notes            string
}

// DefaultConfig returns the documented defaults: a 70/30 split, the
// standard threshold grid, quarter Kelly, and ten reliability bins
func DefaultConfig() Config {
	scalars := make(map[models.MarketType]float64)
	for _, market := range models.AllMarketTypes() {
		scalars[market] = 1.0
	}
	return Config{
		Version:          "1.0.0",
		SplitRatio:       0.7,
		MinWindowRecords: DefaultMinWindowRecords,
		MinBets:          DefaultMinBetsPerCandidate,
		ThresholdGrid:    DefaultThresholdGrid(),
		KellyFraction:    DefaultKellyFraction,
		MaxStakeFraction: DefaultMaxStakeFraction,
		VarianceScalars:  scalars,
		Markets:          models.AllMarketTypes(),
		BinCount:         DefaultBinCount,
	}
}

// FromConfig converts the app-level calibration section into a run config
func FromConfig(cfg *config.CalibrationConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("calibration config is required")
	}

	run := DefaultConfig()
	if cfg.Version != "" {
		run.Version = cfg.Version
	}
	if cfg.SplitRatio != 0 {
		run.SplitRatio = cfg.SplitRatio
	}
	if cfg.MinWindowRecords != 0 {
		run.MinWindowRecords = cfg.MinWindowRecords
	}
	if cfg.MinBetsPerCandidate != 0 {
		run.MinBets = cfg.MinBetsPerCandidate
	}
	if cfg.KellyFraction != 0 {
		run.KellyFraction = cfg.KellyFraction
	}
	if cfg.MaxStakeFraction != 0 {
		run.MaxStakeFraction = cfg.MaxStakeFraction
	}
	if cfg.BinCount != 0 {
		run.BinCount = cfg.BinCount
	}
	if len(cfg.Markets) > 0 {
		markets := make([]models.MarketType, 0, len(cfg.Markets))
		for _, m := range cfg.Markets {
			markets = append(markets, models.MarketType(m))
		}
		run.Markets = markets
	}
	for market, scalar := range cfg.VarianceScalars {
		run.VarianceScalars[models.MarketType(market)] = scalar
	}
	run.Notes = cfg.Notes

	return run, run.Validate()
}

// Validate rejects configurations before any computation happens
func (c Config) Validate() error {
	if c.SplitRatio <= 0 || c.SplitRatio >= 1 {
		return &models.InvalidSplitRatioError{Ratio: c.SplitRatio}
	}
	if c.MinWindowRecords <= 0 {
		return fmt.Errorf("min window records must be positive")
	}
	if c.MinBets <= 0 {
		return fmt.Errorf("min bets per candidate must be positive")
	}
	if c.KellyFraction <= 0 || c.KellyFraction > 1 {
		return fmt.Errorf("kelly fraction must be in (0,1]")
	}
	if c.MaxStakeFraction <= 0 || c.MaxStakeFraction > 1 {
		return fmt.Errorf("max stake fraction must be in (0,1]")
	}
	if c.BinCount <= 0 {
		return fmt.Errorf("bin count must be positive")
	}
	if len(c.Markets) == 0 {
		return fmt.Errorf("at least one market type is required")
	}
	for market, scalar := range c.VarianceScalars {
		if scalar <= 0 {
			return fmt.Errorf("variance scalar for %s must be positive", market)
		}
	}
	return nil
}
