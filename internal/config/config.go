// Package config provides configuration management for the Edge Calibrator application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Predictor   PredictorConfig   `mapstructure:"predictor" validate:"required"`
	Calibration CalibrationConfig `mapstructure:"calibration" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
	Schedule    ScheduleConfig    `mapstructure:"schedule"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// PredictorConfig represents the external prediction service configuration.
// When BaseURL is empty the engine falls back to record-embedded
// probabilities supplied by the data pipeline.
type PredictorConfig struct {
	BaseURL         string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey          string  `mapstructure:"api_key"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries      int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"gte=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// CalibrationConfig represents calibration run configuration
type CalibrationConfig struct {
	Version             string             `mapstructure:"version" validate:"required,semver"`
	SplitRatio          float64            `mapstructure:"split_ratio" validate:"required,gt=0,lt=1"`
	MinWindowRecords    int                `mapstructure:"min_window_records" validate:"gte=0"`
	MinBetsPerCandidate int                `mapstructure:"min_bets_per_candidate" validate:"gte=0"`
	KellyFraction       float64            `mapstructure:"kelly_fraction" validate:"gte=0,lte=1"`
	MaxStakeFraction    float64            `mapstructure:"max_stake_fraction" validate:"gte=0,lte=1"`
	BinCount            int                `mapstructure:"bin_count" validate:"gte=0"`
	Markets             []string           `mapstructure:"markets" validate:"omitempty,markets"`
	VarianceScalars     map[string]float64 `mapstructure:"variance_scalars"`
	OutputPath          string             `mapstructure:"output_path" validate:"required"`
	Notes               string             `mapstructure:"notes"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// ScheduleConfig represents periodic recalibration scheduling
type ScheduleConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	CronExpression string   `mapstructure:"cron_expression"`
	Leagues        []string `mapstructure:"leagues"`
	LookbackDays   int      `mapstructure:"lookback_days"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
