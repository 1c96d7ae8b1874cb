package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ktantikarun/petrolprice-line-bot/internal/config"
	"github.com/ktantikarun/petrolprice-line-bot/internal/cron"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run only the price poll scheduler (no webhook server)",
	Long: `Runs the poll scheduler without the HTTP surface. With the
postgrespool storage driver, replicas coordinate through an advisory lock so
only one of them executes each cycle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromEnv()
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		a, err := buildApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		err = cron.Run(ctx, cron.Job{
			Name:            jobName,
			Pipeline:        a.pipeline,
			Store:           a.store,
			Alerter:         a.alerter,
			IntervalSetting: cfg.PollInterval,
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
