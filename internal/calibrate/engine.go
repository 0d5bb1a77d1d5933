package calibrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	applogger "github.com/yourusername/edge-calibrator/internal/logger"
	"github.com/yourusername/edge-calibrator/internal/metrics"
	"github.com/yourusername/edge-calibrator/internal/models"
	"github.com/yourusername/edge-calibrator/internal/predictor"
	"github.com/yourusername/edge-calibrator/internal/repository"
)

// Engine orchestrates calibration runs: load records, split, tune,
// optimize staking, evaluate on the held-out window, and assemble the
// calibration pack. All collaborators are injected; the engine holds no
// global state.
type Engine struct {
	config  Config
	records repository.RecordRepository
	probs   predictor.ProbabilitySource
	builder *PackBuilder
	logger  *logrus.Logger
	runlog  *applogger.RunLogger
}

// NewEngine creates a calibration engine
func NewEngine(cfg Config, records repository.RecordRepository, probs predictor.ProbabilitySource, logger *logrus.Logger) (*Engine, error) {
	if records == nil {
		return nil, fmt.Errorf("record repository is required")
	}
	if probs == nil {
		probs = predictor.RecordSource{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		config:  cfg,
		records: records,
		probs:   probs,
		builder: NewPackBuilder(),
		logger:  logger,
		runlog:  applogger.NewRunLogger(logger),
	}, nil
}

// Config returns the run configuration
func (e *Engine) Config() Config {
	return e.config
}

// Logger returns the engine logger
func (e *Engine) Logger() *logrus.Logger {
	return e.logger
}

// Run executes a full calibration for one league and date range and
// returns the versioned pack. The pack is the only output; nothing is
// persisted here.
func (e *Engine) Run(ctx context.Context, league string, start, end time.Time) (*models.CalibrationPack, error) {
	started := time.Now()
	e.runlog.LogRunStart(league, start, end, e.config.SplitRatio)

	pack, err := e.run(ctx, league, start, end)
	metrics.CalibrationDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.RecordRun(league, "failure")
		return nil, err
	}
	metrics.RecordRun(league, "success")

	e.logger.WithFields(logrus.Fields{
		"league":     league,
		"version":    pack.Version,
		"test_bets":  pack.TestMetrics.NBets,
		"train_bets": pack.TrainMetrics.NBets,
		"duration":   time.Since(started).String(),
	}).Info("Calibration run completed")
	return pack, nil
}

func (e *Engine) run(ctx context.Context, league string, start, end time.Time) (*models.CalibrationPack, error) {
	records, err := e.records.GetByLeagueAndDateRange(ctx, league, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	e.logger.WithField("records", len(records)).Debug("Loaded historical records")

	splitter := NewSplitter(e.config.SplitRatio, e.config.MinWindowRecords)
	train, test, err := splitter.Split(records)
	if err != nil {
		return nil, err
	}
	e.runlog.LogSplit(league, len(train), len(test), test[0].Date)

	probs, err := e.resolveProbabilities(ctx, records)
	if err != nil {
		return nil, err
	}

	// Tuning observes only the training window; parameters are frozen
	// before a single test-window outcome is read.
	tuned := TuneThresholds(train, e.config.Markets, probs, e.config.VarianceScalars, TunerConfig{
		Grid:    e.config.ThresholdGrid,
		MinBets: e.config.MinBets,
	})

	params := e.buildParameters(league, train, probs, tuned)

	testBets, skips := SynthesizeWindow(test, e.config.Markets, probs, params)
	trainBets, trainSkips := SynthesizeWindow(train, e.config.Markets, probs, params)

	// Exclusions cover the whole run, both windows.
	for reason, count := range trainSkips {
		skips[reason] += count
	}
	for reason, count := range skips {
		metrics.RecordExclusion(league, string(reason), count)
	}
	metrics.BetsSynthesizedTotal.WithLabelValues(league, "test").Add(float64(len(testBets)))
	metrics.BetsSynthesizedTotal.WithLabelValues(league, "train").Add(float64(len(trainBets)))

	testMetrics := CalculateMetrics(testBets)
	trainMetrics := CalculateMetrics(trainBets)
	if testMetrics.ROI != nil {
		metrics.TestWindowROI.WithLabelValues(league).Set(*testMetrics.ROI)
	}

	// Reliability bins come from the test window only; training-window
	// calibration would report overfit curves.
	bins := BuildReliabilityBins(testBets, e.config.BinCount)

	pack, err := e.builder.Build(PackInput{
		Version:      e.config.Version,
		League:       league,
		TrainWindow:  WindowRange(train),
		TestWindow:   WindowRange(test),
		Parameters:   params,
		TrainMetrics: trainMetrics,
		TestMetrics:  testMetrics,
		Bins:         bins,
		TrainRecords: len(train),
		TestRecords:  len(test),
		Exclusions:   skips,
		Notes:        e.config.Notes,
	})
	if err != nil {
		return nil, err
	}
	return pack, nil
}

// resolveProbabilities queries the prediction source once per
// record/market pair. Unavailable probabilities are simply absent from
// the table; any other error aborts the run.
func (e *Engine) resolveProbabilities(ctx context.Context, records []*models.HistoricalRecord) (ProbabilityTable, error) {
	table := make(ProbabilityTable, len(records))
	for _, rec := range records {
		for _, market := range e.config.Markets {
			p, err := e.probs.WinProbability(ctx, rec, market)
			if err != nil {
				if errors.Is(err, predictor.ErrProbabilityUnavailable) {
					continue
				}
				return nil, fmt.Errorf("failed to resolve probability for %s/%s: %w", rec.ID, market, err)
			}
			table.Set(rec.ID, market, p)
		}
	}
	return table, nil
}

func (e *Engine) buildParameters(league string, train []*models.HistoricalRecord, probs ProbabilityTable, tuned map[models.MarketType]TunerResult) models.PolicyParameters {
	thresholds := make(map[models.MarketType]float64, len(tuned))
	lowConfidence := make(map[models.MarketType]bool)
	for market, result := range tuned {
		thresholds[market] = result.Threshold
		if result.LowConfidence {
			lowConfidence[market] = true
		}
		metrics.ChosenEdgeThreshold.WithLabelValues(league, string(market)).Set(result.Threshold)
		roi := 0.0
		if result.ROI != nil {
			roi = *result.ROI
		}
		e.runlog.LogThresholdSelection(league, string(market), result.Threshold, roi, result.NBets, result.LowConfidence)
	}
	if len(lowConfidence) == 0 {
		lowConfidence = nil
	}

	// The Kelly estimate must come from bets under the tuned thresholds,
	// still flat-staked: stake sizing feeds off the tuned bet set.
	flatParams := models.PolicyParameters{
		Version:         e.config.Version,
		EdgeThresholds:  thresholds,
		VarianceScalars: e.config.VarianceScalars,
		Kelly:           flatKellyPolicy(e.config.Markets),
		CreatedAt:       time.Now().UTC(),
	}
	tuningBets, _ := SynthesizeWindow(train, e.config.Markets, probs, flatParams)
	kelly := OptimizeKelly(tuningBets, e.config.Markets, KellyConfig{
		Fraction: e.config.KellyFraction,
		Cap:      e.config.MaxStakeFraction,
	})

	return models.PolicyParameters{
		Version:         e.config.Version,
		EdgeThresholds:  thresholds,
		Kelly:           kelly,
		VarianceScalars: e.config.VarianceScalars,
		LowConfidence:   lowConfidence,
		CreatedAt:       time.Now().UTC(),
	}
}

func flatKellyPolicy(markets []models.MarketType) models.KellyPolicy {
	stakes := make(map[models.MarketType]float64, len(markets))
	for _, market := range markets {
		stakes[market] = flatStake
	}
	return models.KellyPolicy{Fraction: 1, Cap: flatStake, StakeFractions: stakes}
}
