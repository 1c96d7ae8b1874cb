package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ktantikarun/petrolprice-line-bot/internal/api"
	"github.com/ktantikarun/petrolprice-line-bot/internal/config"
	"github.com/ktantikarun/petrolprice-line-bot/internal/cron"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server and the price poll scheduler",
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

		go func() {
			if err := cron.Run(ctx, cron.Job{
				Name:            jobName,
				Pipeline:        a.pipeline,
				Store:           a.store,
				Alerter:         a.alerter,
				IntervalSetting: cfg.PollInterval,
			}); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("petrolbot: worker stopped: %v", err)
			}
		}()

		mux := api.NewMux(api.Deps{
			ChannelSecret: cfg.ChannelSecret,
			Prices:        a.prices,
			Store:         a.store,
			JobName:       jobName,
		})

		srv := &http.Server{Addr: listenAddr(cfg.Port), Handler: mux}
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		log.Printf("petrolbot listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
