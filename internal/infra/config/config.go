package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	ChannelSlack    = "slack"
	ChannelTelegram = "telegram"

	DefaultWorksheetName = "対象リスト"
	DefaultEdinetBaseURL = "https://disclosure.edinet-fsa.go.jp/api/v2"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	SpreadsheetID   string
	WorksheetName   string
	CodePrefix      string
	SlackWebhookURL string
	EdinetAPIKey    string // Optional, unauthenticated calls are rate-limited
	EdinetBaseURL   string

	NotifyChannel  string
	TelegramToken  string
	TelegramChatID int64

	RequestTimeout     time.Duration
	HTTPMaxRetries     int
	HTTPBackoffInitial time.Duration
	HTTPRetryStatuses  []int

	NightRunStartHour int
	ThresholdHour     int
	ThresholdMinute   int

	Port          string
	CronSpecDay   string
	CronSpecNight string

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
// Required settings are not enforced here; see Validate.
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.SpreadsheetID = strings.TrimSpace(os.Getenv("SPREADSHEET_ID"))
	cfg.SlackWebhookURL = strings.TrimSpace(os.Getenv("SLACK_WEBHOOK_URL"))
	cfg.EdinetAPIKey = strings.TrimSpace(os.Getenv("EDINET_API_KEY"))
	cfg.WorksheetName = envOr("WORKSHEET_NAME", DefaultWorksheetName)
	cfg.CodePrefix = envOr("CODE_PREFIX", "E")
	cfg.EdinetBaseURL = strings.TrimRight(envOr("EDINET_API_BASE_URL", DefaultEdinetBaseURL), "/")

	cfg.NotifyChannel = strings.ToLower(envOr("NOTIFY_CHANNEL", ChannelSlack))
	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN"))
	if chatIDStr := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); chatIDStr != "" {
		cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
	}

	timeoutSeconds, err := envInt("REQUEST_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = time.Duration(timeoutSeconds) * time.Second

	cfg.HTTPMaxRetries, err = envInt("HTTP_MAX_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	backoffMillis, err := envInt("HTTP_BACKOFF_INITIAL_MS", 1000)
	if err != nil {
		return nil, err
	}
	cfg.HTTPBackoffInitial = time.Duration(backoffMillis) * time.Millisecond

	cfg.HTTPRetryStatuses, err = parseStatusList(envOr("HTTP_RETRY_STATUSES", "500,502,503,504"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_RETRY_STATUSES: %w", err)
	}

	cfg.NightRunStartHour, err = envInt("NIGHT_RUN_START_HOUR", 16)
	if err != nil {
		return nil, err
	}
	if cfg.NightRunStartHour < 0 || cfg.NightRunStartHour > 23 {
		return nil, fmt.Errorf("invalid NIGHT_RUN_START_HOUR: %d is outside 0-23", cfg.NightRunStartHour)
	}

	cfg.ThresholdHour, cfg.ThresholdMinute, err = parseClock(envOr("NIGHT_THRESHOLD", "15:45"))
	if err != nil {
		return nil, fmt.Errorf("invalid NIGHT_THRESHOLD: %w", err)
	}

	cfg.Port = envOr("PORT", "8080")

	cfg.CronSpecDay = envOr("CRON_SPEC_DAY", "50 15 * * *") // Default: 15:50, just after the threshold
	cfg.CronSpecNight = envOr("CRON_SPEC_NIGHT", "0 21 * * *")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// Validate reports the first missing required setting.
func (c *AppConfig) Validate() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("SPREADSHEET_ID is not set")
	}
	switch c.NotifyChannel {
	case ChannelSlack:
		if c.SlackWebhookURL == "" {
			return fmt.Errorf("SLACK_WEBHOOK_URL is not set")
		}
	case ChannelTelegram:
		if c.TelegramToken == "" {
			return fmt.Errorf("TELEGRAM_TOKEN is not set")
		}
		if c.TelegramChatID == 0 {
			return fmt.Errorf("TELEGRAM_CHAT_ID is not set")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_CHANNEL %q", c.NotifyChannel)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return v, nil
}

func parseStatusList(raw string) ([]int, error) {
	var statuses []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		if code < 100 || code > 599 {
			return nil, fmt.Errorf("status %d out of range", code)
		}
		statuses = append(statuses, code)
	}
	return statuses, nil
}

// parseClock parses "HH:MM" in 24-hour form.
func parseClock(raw string) (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
