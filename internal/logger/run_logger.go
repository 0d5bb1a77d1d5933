package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RunLogger provides a dedicated audit trail for calibration runs.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a new calibration run logger.
func NewRunLogger(baseLogger *logrus.Logger) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithField("component", "calibration"),
	}
}

// LogRunStart logs the start of a calibration run.
func (rl *RunLogger) LogRunStart(league string, start, end time.Time, splitRatio float64) {
	rl.WithFields(logrus.Fields{
		"league":      league,
		"start":       start.Format("2006-01-02"),
		"end":         end.Format("2006-01-02"),
		"split_ratio": splitRatio,
	}).Info("Calibration run started")
}

// LogSplit logs the train/test split outcome.
func (rl *RunLogger) LogSplit(league string, trainRecords, testRecords int, boundary time.Time) {
	rl.WithFields(logrus.Fields{
		"league":        league,
		"train_records": trainRecords,
		"test_records":  testRecords,
		"boundary":      boundary.Format("2006-01-02"),
	}).Info("Window split complete")
}

// LogThresholdSelection logs the chosen edge threshold for a market.
func (rl *RunLogger) LogThresholdSelection(league, market string, threshold, roi float64, nBets int, lowConfidence bool) {
	rl.WithFields(logrus.Fields{
		"league":         league,
		"market":         market,
		"threshold":      threshold,
		"train_roi":      roi,
		"n_bets":         nBets,
		"low_confidence": lowConfidence,
	}).Info("Edge threshold selected")
}

// LogPackExported logs a persisted calibration pack.
func (rl *RunLogger) LogPackExported(league, runID, path string, version string) {
	rl.WithFields(logrus.Fields{
		"league":  league,
		"run_id":  runID,
		"path":    path,
		"version": version,
	}).Info("Calibration pack exported")
}
