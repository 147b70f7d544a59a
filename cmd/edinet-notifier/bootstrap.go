package main

import (
	"time"

	"edinet_notifier/internal/app"
	"edinet_notifier/internal/domain/notify"
	"edinet_notifier/internal/infra/config"
	"edinet_notifier/internal/infra/edinet"
	"edinet_notifier/internal/infra/httpretry"
	"edinet_notifier/internal/infra/logger"
	"edinet_notifier/internal/infra/metrics"
	"edinet_notifier/internal/infra/sheets"
	"edinet_notifier/internal/infra/slack"
	"edinet_notifier/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

// runTimeout bounds one check including retries and every webhook post.
const runTimeout = 2 * time.Minute

type application struct {
	cfg     *config.AppConfig
	logger  *logrus.Logger
	checks  *app.CheckService
	metrics *metrics.Recorder
}

type bootstrapFunc func() (*application, error)

// bootstrap builds the explicit configuration once and wires every collaborator.
func bootstrap() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg)
	log := logger.Get()
	log.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"channel":     cfg.NotifyChannel,
		"worksheet":   cfg.WorksheetName,
	}).Info("Configuration loaded")

	httpClient := httpretry.NewClient(cfg.RequestTimeout, retryPolicy(cfg), log.WithField("component", "http"))

	notifier, err := newNotifier(cfg, httpClient)
	if err != nil {
		return nil, err
	}

	targets := sheets.NewWatchlistSource(cfg.SpreadsheetID, cfg.WorksheetName, cfg.CodePrefix, log.WithField("component", "sheets"))
	docs := edinet.NewClient(cfg.EdinetBaseURL, cfg.EdinetAPIKey, httpClient)
	recorder := metrics.NewRecorder()

	checks := app.NewCheckService(cfg, targets, docs, notifier, log, app.WithRecorder(recorder))
	return &application{cfg: cfg, logger: log, checks: checks, metrics: recorder}, nil
}

func retryPolicy(cfg *config.AppConfig) httpretry.Policy {
	policy := httpretry.DefaultPolicy()
	policy.MaxRetries = cfg.HTTPMaxRetries
	policy.InitialInterval = cfg.HTTPBackoffInitial
	policy.RetryableStatuses = cfg.HTTPRetryStatuses
	return policy
}

// newNotifier picks the chat backend. Missing credentials are reported by
// the run itself as a configuration failure.
func newNotifier(cfg *config.AppConfig, httpClient *httpretry.Client) (notify.Notifier, error) {
	if cfg.NotifyChannel == config.ChannelTelegram && cfg.TelegramToken != "" {
		return telegram.NewChatNotifier(cfg.TelegramToken, cfg.TelegramChatID, "", cfg.RequestTimeout)
	}
	return slack.NewWebhookNotifier(cfg.SlackWebhookURL, httpClient), nil
}
