package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"edinet_notifier/internal/app"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// Runner is the check executed per trigger request.
type Runner interface {
	Run(ctx context.Context) app.Result
}

// TriggerServer exposes the check over HTTP for Cloud Scheduler style triggers.
type TriggerServer struct {
	echo   *echo.Echo
	runner Runner
	logger logrus.FieldLogger
}

// New wires the routes. metrics may be nil to disable /metrics.
func New(runner Runner, metrics http.Handler, logger logrus.FieldLogger, runTimeout time.Duration) *TriggerServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &TriggerServer{echo: e, runner: runner, logger: logger}

	e.Any("/", func(c echo.Context) error {
		// The request body is ignored; the trigger method does not matter.
		ctx, cancel := context.WithTimeout(c.Request().Context(), runTimeout)
		defer cancel()
		res := s.runner.Run(ctx)
		return c.String(res.HTTPStatus(), res.Message)
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
	return s
}

func (s *TriggerServer) Handler() http.Handler {
	return s.echo
}

// Start blocks serving on port until Shutdown is called.
func (s *TriggerServer) Start(port string) error {
	addr := fmt.Sprintf(":%s", port)
	s.logger.WithField("addr", addr).Info("Trigger server listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("trigger server failed: %w", err)
	}
	return nil
}

func (s *TriggerServer) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
