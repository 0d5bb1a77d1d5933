// Package scheduler manages periodic recalibration jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/edge-calibrator/internal/calibrate"
	"github.com/yourusername/edge-calibrator/internal/models"
)

const defaultJobTimeout = 30 * time.Minute

// PackSink receives completed calibration packs.
type PackSink func(league string, pack *models.CalibrationPack) error

// Scheduler runs recalibration for configured leagues on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	engine    *calibrate.Engine
	sink      PackSink
	logger    *logrus.Logger
	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler
func NewScheduler(engine *calibrate.Engine, sink PackSink, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		engine: engine,
		sink:   sink,
		logger: logger,
		jobIDs: make([]cron.EntryID, 0),
	}
}

// ScheduleRecalibration schedules a recurring calibration run for the given
// leagues over a trailing lookback window.
func (s *Scheduler) ScheduleRecalibration(cronExpression string, leagues []string, lookbackDays int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if len(leagues) == 0 {
		return fmt.Errorf("at least one league is required")
	}
	if lookbackDays <= 0 {
		return fmt.Errorf("lookback days must be positive")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultJobTimeout)
		defer cancel()

		end := time.Now().UTC()
		start := end.AddDate(0, 0, -lookbackDays)

		for _, league := range leagues {
			s.runLeague(ctx, league, start, end)
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"cron":          cronExpression,
		"leagues":       leagues,
		"lookback_days": lookbackDays,
	}).Info("Scheduled recalibration job")

	return nil
}

func (s *Scheduler) runLeague(ctx context.Context, league string, start, end time.Time) {
	log := s.logger.WithFields(logrus.Fields{
		"league": league,
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
	})
	log.Info("Starting scheduled recalibration")

	pack, err := s.engine.Run(ctx, league, start, end)
	if err != nil {
		log.WithError(err).Error("Scheduled recalibration failed")
		return
	}

	if s.sink != nil {
		if err := s.sink(league, pack); err != nil {
			log.WithError(err).Error("Failed to persist calibration pack")
			return
		}
	}

	log.WithField("run_id", pack.Metadata.RunID).Info("Scheduled recalibration completed")
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	next := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}

	return next
}
