// internal/app/check_service.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"edinet_notifier/internal/domain/disclosure"
	"edinet_notifier/internal/domain/notify"
	"edinet_notifier/internal/domain/watchlist"
	"edinet_notifier/internal/infra/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Result is what a trigger reports back to its caller.
type Result struct {
	RunID    string
	Status   Status
	Message  string
	Err      error
	NightRun bool
	Checked  int // documents returned by EDINET
	Selected int
	Sent     int // successful per-record notifications
	Skipped  int
}

func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// HTTPStatus maps the result onto the trigger's response code.
func (r Result) HTTPStatus() int {
	if r.OK() {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}

// RunRecorder observes completed runs and notification attempts.
type RunRecorder interface {
	RunCompleted(res Result, elapsed time.Duration)
	NotificationAttempted(kind string, err error)
}

type noopRecorder struct{}

func (noopRecorder) RunCompleted(Result, time.Duration)   {}
func (noopRecorder) NotificationAttempted(string, error) {}

const (
	KindDisclosure = "disclosure"
	KindSummary    = "summary"
)

// CheckService runs one watchlist check per call to Run.
type CheckService struct {
	cfg      *config.AppConfig
	policy   Policy
	targets  watchlist.Source
	docs     disclosure.Source
	notifier notify.Notifier
	logger   logrus.FieldLogger
	recorder RunRecorder
	now      func() time.Time

	mu sync.Mutex // one run at a time
}

type Option func(*CheckService)

func WithClock(now func() time.Time) Option {
	return func(s *CheckService) { s.now = now }
}

func WithRecorder(r RunRecorder) Option {
	return func(s *CheckService) { s.recorder = r }
}

func NewCheckService(
	cfg *config.AppConfig,
	targets watchlist.Source,
	docs disclosure.Source,
	notifier notify.Notifier,
	logger logrus.FieldLogger,
	opts ...Option,
) *CheckService {
	s := &CheckService{
		cfg:      cfg,
		policy:   PolicyFromConfig(cfg),
		targets:  targets,
		docs:     docs,
		notifier: notifier,
		logger:   logger,
		recorder: noopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PolicyFromConfig reads the night-run boundary and threshold from cfg.
func PolicyFromConfig(cfg *config.AppConfig) Policy {
	return Policy{
		NightStartHour:  cfg.NightRunStartHour,
		ThresholdHour:   cfg.ThresholdHour,
		ThresholdMinute: cfg.ThresholdMinute,
		Location:        JST,
	}
}

// Run checks today's disclosures and notifies the matches.
// Only configuration, target list, and fetch failures fail the run.
func (s *CheckService) Run(ctx context.Context) (res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()
	log := s.logger.WithField("run_id", runID)
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrUnhandled, r)
			log.WithError(err).Error("Critical internal error during check")
			res = Result{Status: StatusFailure, Message: fmt.Sprintf("Internal Error: %v", r), Err: err}
		}
		res.RunID = runID
		s.recorder.RunCompleted(res, time.Since(started))
	}()

	return s.run(ctx, log)
}

func (s *CheckService) run(ctx context.Context, log *logrus.Entry) Result {
	// 1. Configuration
	if err := s.cfg.Validate(); err != nil {
		log.WithError(err).Error("Critical config missing")
		return failure(fmt.Sprintf("Critical config missing: %v.", err), fmt.Errorf("%w: %v", ErrConfiguration, err))
	}

	// 2. Target list
	codes, err := s.targets.Codes(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load target codes")
		return failure("Failed to load target codes from Spreadsheet.", fmt.Errorf("%w: %w", ErrSourceList, err))
	}
	if len(codes) == 0 {
		msg := "No target codes found in Spreadsheet. Aborting."
		log.Warn(msg)
		return failure(msg, fmt.Errorf("%w: no codes", ErrSourceList))
	}
	targets := watchlist.NewCodeSet(codes)

	// 3. Run context, captured once
	now := s.now().In(s.policy.location())
	today := now.Format("2006-01-02")
	log.WithFields(logrus.Fields{
		"date":      today,
		"night_run": now.Hour() >= s.policy.NightStartHour,
		"targets":   len(targets),
	}).Info("Start check")

	// 4. Fetch
	records, err := s.docs.Documents(ctx, now)
	if err != nil {
		log.WithError(err).Error("EDINET API error")
		return failure("Failed to fetch documents from EDINET API.", fmt.Errorf("%w: %w", ErrFetch, err))
	}

	// 5. Decide and notify
	decision := Decide(now, s.policy, targets, records, log)
	res := Result{
		Status:   StatusSuccess,
		NightRun: decision.NightRun,
		Checked:  len(records),
		Selected: len(decision.Selected),
		Skipped:  decision.Skipped,
	}

	for _, rec := range decision.Selected {
		err := s.notifier.Notify(ctx, disclosureMessage(s.cfg.EdinetBaseURL, rec))
		s.recorder.NotificationAttempted(KindDisclosure, err)
		recLog := log.WithFields(logrus.Fields{
			"doc_id": rec.DocID,
			"filer":  rec.Filer(),
		})
		if err != nil {
			recLog.WithError(fmt.Errorf("%w: %w", ErrNotify, err)).Error("Notification failed")
			continue
		}
		res.Sent++
		recLog.WithField("document", rec.Description()).Info("Notified")
	}

	// 6. Nothing new
	if !decision.HadSelections() {
		log.WithField("run", runLabel(decision.NightRun)).Info("No new disclosures found for target companies")
		err := s.notifier.Notify(ctx, noDisclosureMessage(today, decision.NightRun, len(targets)))
		s.recorder.NotificationAttempted(KindSummary, err)
		if err != nil {
			log.WithError(fmt.Errorf("%w: %w", ErrNotify, err)).Error("Summary notification failed")
		}
	}

	res.Message = fmt.Sprintf("Success. Checked %d docs. Sent %d notifications.", res.Checked, res.Sent)
	log.WithFields(logrus.Fields{
		"selected": res.Selected,
		"skipped":  res.Skipped,
	}).Info(res.Message)
	return res
}

func failure(msg string, err error) Result {
	return Result{Status: StatusFailure, Message: msg, Err: err}
}
