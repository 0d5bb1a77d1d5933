package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/edge-calibrator/internal/calibrate"
	"github.com/yourusername/edge-calibrator/internal/config"
	"github.com/yourusername/edge-calibrator/internal/database"
	"github.com/yourusername/edge-calibrator/internal/health"
	applogger "github.com/yourusername/edge-calibrator/internal/logger"
	"github.com/yourusername/edge-calibrator/internal/metrics"
	"github.com/yourusername/edge-calibrator/internal/models"
	"github.com/yourusername/edge-calibrator/internal/predictor"
	"github.com/yourusername/edge-calibrator/internal/repository"
	"github.com/yourusername/edge-calibrator/internal/scheduler"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	league     string
	startDate  string
	endDate    string
	outputDir  string
	splitRatio float64

	logger *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	engine *calibrate.Engine
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	runCmd.Flags().StringVarP(&league, "league", "l", "", "League to calibrate (required)")
	runCmd.Flags().StringVar(&startDate, "start-date", "", "Window start date (YYYY-MM-DD, required)")
	runCmd.Flags().StringVar(&endDate, "end-date", "", "Window end date (YYYY-MM-DD, required)")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides config)")
	runCmd.Flags().Float64Var(&splitRatio, "split-ratio", 0, "Train/test split ratio override")
	_ = runCmd.MarkFlagRequired("league")
	_ = runCmd.MarkFlagRequired("start-date")
	_ = runCmd.MarkFlagRequired("end-date")
}

var rootCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Betting policy calibration engine",
	Long:  `Calibrates betting policy parameters against settled historical records and emits versioned calibration packs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single calibration over a date window",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCalibration(cmd.Context())
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run periodic recalibration on the configured cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScheduler(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("edge-calibrator %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	rootCmd.AddCommand(runCmd, scheduleCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(loaded, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(loaded); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = loaded
	return nil
}

func setupDependencies(ctx context.Context) error {
	logger = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	records := repository.NewPostgresRecordRepository(db)
	probs := buildProbabilitySource()

	calCfg, err := calibrate.FromConfig(&cfg.Calibration)
	if err != nil {
		return fmt.Errorf("invalid calibration config: %w", err)
	}
	if splitRatio > 0 {
		calCfg.SplitRatio = splitRatio
	}

	engine, err = calibrate.NewEngine(calCfg, records, probs, logger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	return nil
}

// buildProbabilitySource wires the prediction service client when one is
// configured, falling back to record-embedded probabilities otherwise.
func buildProbabilitySource() predictor.ProbabilitySource {
	if cfg.Predictor.BaseURL == "" {
		logger.Info("No prediction service configured, using record-embedded probabilities")
		return predictor.RecordSource{}
	}

	source := predictor.NewHTTPSource(&cfg.Predictor, logger)
	ttl := time.Duration(cfg.Predictor.CacheTTLSeconds) * time.Second
	return predictor.NewCachedSource(source, ttl)
}

func runCalibration(ctx context.Context) error {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	if !start.Before(end) {
		return fmt.Errorf("start date must be before end date")
	}

	pack, err := engine.Run(ctx, league, start, end)
	if err != nil {
		return fmt.Errorf("calibration failed: %w", err)
	}

	if err := exportPack(league, pack); err != nil {
		return err
	}

	fmt.Print(calibrate.GenerateConsoleReport(pack))
	return nil
}

func exportPack(league string, pack *models.CalibrationPack) error {
	dir := outputDir
	if dir == "" {
		dir = cfg.Calibration.OutputPath
	}

	stamp := pack.Metadata.GeneratedAt.UTC().Format("20060102T150405Z")
	packPath := filepath.Join(dir, fmt.Sprintf("%s_pack_%s.json", league, stamp))
	binsPath := filepath.Join(dir, fmt.Sprintf("%s_bins_%s.csv", league, stamp))

	if err := calibrate.ExportPackJSON(pack, packPath); err != nil {
		return fmt.Errorf("failed to export pack: %w", err)
	}
	if err := calibrate.ExportBinsCSV(pack.ReliabilityBins, binsPath); err != nil {
		return fmt.Errorf("failed to export reliability bins: %w", err)
	}

	applogger.NewRunLogger(logger).LogPackExported(league, pack.Metadata.RunID.String(), packPath, pack.Version)
	return nil
}

func runScheduler(ctx context.Context) error {
	if !cfg.Schedule.Enabled {
		return fmt.Errorf("scheduling is disabled in configuration")
	}

	sink := func(league string, pack *models.CalibrationPack) error {
		return exportPack(league, pack)
	}

	sched := scheduler.NewScheduler(engine, sink, logger)
	if err := sched.ScheduleRecalibration(cfg.Schedule.CronExpression, cfg.Schedule.Leagues, cfg.Schedule.LookbackDays); err != nil {
		return fmt.Errorf("failed to schedule recalibration: %w", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	healthSrv := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      logger,
		DB:          db,
		Jobs:        sched,
	})
	if err := healthSrv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}
	healthSrv.SetReady(true)

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			logger.WithField("port", cfg.Metrics.Port).Info("Metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	logger.WithField("next_run", sched.NextRun().Format(time.RFC3339)).Info("Scheduler running, waiting for signal")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("Shutting down")
	case <-ctx.Done():
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}

	return nil
}
