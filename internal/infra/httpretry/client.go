package httpretry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const maxErrorBody = 4096

// Policy describes how transient HTTP failures are retried.
type Policy struct {
	MaxRetries      int
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration
	// RandomizationFactor is passed to the exponential backoff; 0 disables jitter.
	RandomizationFactor float64
	RetryableStatuses   []int
}

// DefaultPolicy retries 5xx gateway failures three times, waiting 1s, 2s, 4s.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:        3,
		InitialInterval:   time.Second,
		Multiplier:        2,
		MaxInterval:       8 * time.Second,
		RetryableStatuses: []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
	}
}

// Retryable reports whether status should be retried.
func (p Policy) Retryable(status int) bool {
	for _, s := range p.RetryableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (p Policy) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	eb.RandomizationFactor = p.RandomizationFactor
	if p.Multiplier > 0 {
		eb.Multiplier = p.Multiplier
	}
	if p.MaxInterval > 0 {
		eb.MaxInterval = p.MaxInterval
	}
	eb.MaxElapsedTime = 0 // bounded by MaxRetries instead
	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)
}

// StatusError is returned for a completed request with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client wraps http.Client with a retry Policy.
type Client struct {
	http   *http.Client
	policy Policy
	logger logrus.FieldLogger
}

func NewClient(timeout time.Duration, policy Policy, logger logrus.FieldLogger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		policy: policy,
		logger: logger,
	}
}

// Do sends the request built by newRequest, rebuilding it for each attempt.
// Transport errors and retryable statuses are retried; any other non-2xx is
// returned immediately as *StatusError. On success the caller owns the body.
func (c *Client) Do(ctx context.Context, newRequest func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response
	attempt := 0

	op := func() error {
		attempt++
		req, err := newRequest(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		r, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		if r.StatusCode >= 200 && r.StatusCode < 300 {
			resp = r
			return nil
		}
		statusErr := readStatusError(r)
		if c.policy.Retryable(r.StatusCode) {
			return statusErr
		}
		return backoff.Permanent(statusErr)
	}

	notify := func(err error, wait time.Duration) {
		c.logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"wait":    wait.String(),
		}).WithError(err).Warn("HTTP request failed, retrying")
	}

	if err := backoff.RetryNotify(op, c.policy.newBackOff(ctx), notify); err != nil {
		return nil, err
	}
	return resp, nil
}

func readStatusError(r *http.Response) *StatusError {
	defer r.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(r.Body, maxErrorBody))
	return &StatusError{Code: r.StatusCode, Body: string(b)}
}
