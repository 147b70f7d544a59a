package scheduler

import (
	"context"
	"fmt"
	"time"

	"edinet_notifier/internal/app" // For Result

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Runner is the check triggered by each job.
type Runner interface {
	Run(ctx context.Context) app.Result
}

// CheckScheduler fires the daytime and night checks from cron specs.
type CheckScheduler struct {
	cronEngine    *cron.Cron
	runner        Runner
	logger        logrus.FieldLogger
	cronSpecDay   string
	cronSpecNight string
	jobTimeout    time.Duration
}

func NewCheckScheduler(
	runner Runner,
	logger logrus.FieldLogger,
	location *time.Location, // EDINET's zone, not the server's
	cronSpecDay string, // e.g., "50 15 * * *"
	cronSpecNight string, // e.g., "0 21 * * *"
	jobTimeout time.Duration,
) *CheckScheduler {
	return &CheckScheduler{
		cronEngine:    cron.New(cron.WithLocation(location)),
		runner:        runner,
		logger:        logger,
		cronSpecDay:   cronSpecDay,
		cronSpecNight: cronSpecNight,
		jobTimeout:    jobTimeout,
	}
}

// Start registers both jobs and starts the cron engine.
func (s *CheckScheduler) Start() error {
	s.logger.Info("Starting check scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpecDay, func() { s.execute("day") }); err != nil {
		return fmt.Errorf("could not add daytime cron job %q: %w", s.cronSpecDay, err)
	}
	if _, err := s.cronEngine.AddFunc(s.cronSpecNight, func() { s.execute("night") }); err != nil {
		return fmt.Errorf("could not add night cron job %q: %w", s.cronSpecNight, err)
	}

	s.cronEngine.Start()
	for _, e := range s.cronEngine.Entries() {
		s.logger.WithField("next", e.Next.Format(time.RFC3339)).Info("Scheduled check")
	}
	return nil
}

func (s *CheckScheduler) execute(job string) {
	jobLogger := s.logger.WithField("job", job)
	jobLogger.Info("Cron job triggered")

	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	res := s.runner.Run(ctx)
	if !res.OK() {
		jobLogger.WithError(res.Err).Error(res.Message)
		return
	}
	jobLogger.Info(res.Message)
}

// Stop halts the engine and waits for a running check to finish.
func (s *CheckScheduler) Stop() {
	s.logger.Info("Stopping check scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Check scheduler gracefully stopped.")
}
