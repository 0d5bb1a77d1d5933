package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerValidLevel(t *testing.T) {
	log := NewLogger("debug", "development")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("chatty", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerFormatterByEnvironment(t *testing.T) {
	prod := NewLogger("info", "production")
	assert.IsType(t, &logrus.JSONFormatter{}, prod.Formatter)

	dev := NewLogger("info", "development")
	assert.IsType(t, &logrus.TextFormatter{}, dev.Formatter)
}

func TestRunLoggerFields(t *testing.T) {
	base := logrus.New()
	var buf bytes.Buffer
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	rl := NewRunLogger(base)
	rl.LogThresholdSelection("nba", "moneyline", 0.03, 0.12, 45, false)

	out := buf.String()
	assert.Contains(t, out, `"component":"calibration"`)
	assert.Contains(t, out, `"market":"moneyline"`)
	assert.Contains(t, out, `"threshold":0.03`)
}

func TestRunLoggerRunStart(t *testing.T) {
	base := logrus.New()
	var buf bytes.Buffer
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	rl := NewRunLogger(base)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	rl.LogRunStart("nba", start, end, 0.7)

	out := buf.String()
	assert.Contains(t, out, `"league":"nba"`)
	assert.Contains(t, out, `"start":"2024-01-01"`)
	assert.Contains(t, out, `"split_ratio":0.7`)
}
