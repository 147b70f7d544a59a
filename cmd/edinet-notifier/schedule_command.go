package main

import (
	"os/signal"
	"syscall"

	"edinet_notifier/internal/app"
	"edinet_notifier/internal/infra/scheduler"

	"github.com/spf13/cobra"
)

func newScheduleCommand(boot bootstrapFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the daytime and night checks on an in-process cron",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := boot()
			if err != nil {
				return err
			}

			s := scheduler.NewCheckScheduler(
				a.checks,
				a.logger.WithField("component", "scheduler"),
				app.JST,
				a.cfg.CronSpecDay,
				a.cfg.CronSpecNight,
				runTimeout,
			)
			if err := s.Start(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done() // Block until a signal is received

			a.logger.Info("Shutting down scheduler...")
			s.Stop()
			return nil
		},
	}
}
