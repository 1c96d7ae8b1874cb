package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ktantikarun/petrolprice-line-bot/internal/alerting"
	"github.com/ktantikarun/petrolprice-line-bot/internal/config"
	"github.com/ktantikarun/petrolprice-line-bot/internal/line"
	"github.com/ktantikarun/petrolprice-line-bot/internal/migrate"
	"github.com/ktantikarun/petrolprice-line-bot/internal/notify"
	"github.com/ktantikarun/petrolprice-line-bot/internal/prices"
	"github.com/ktantikarun/petrolprice-line-bot/internal/storage"
)

const jobName = "poll_prices"

// app wires the collaborators a command needs.
type app struct {
	cfg      config.Config
	store    storage.Storage
	prices   *prices.Service
	detector *notify.Detector
	pipeline *notify.Pipeline
	alerter  *alerting.Alerter
}

func buildApp(ctx context.Context, cfg config.Config) (*app, error) {
	if cfg.AutoMigrate && cfg.DBDriver != "memory" {
		if err := migrate.Up(ctx, cfg.DBDriver, cfg.DBDSN); err != nil {
			log.Printf("auto-migration failed: %v", err)
		}
	}

	st, err := storage.Open(ctx, storage.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	fetcher := prices.NewRenderClient(cfg.SourceURL, cfg.RenderServiceURL, cfg.FetchTimeout)
	svc := prices.NewServiceWithStorage(fetcher, st)

	detector := notify.NewDetector(st)
	if err := detector.Load(ctx); err != nil {
		st.Close()
		return nil, err
	}

	notifiers := []notify.Notifier{
		notify.NewLineNotifier(line.NewClient(cfg.ChannelAccessToken)),
	}
	if cfg.Email.Enabled {
		notifiers = append(notifiers, notify.NewEmailNotifier(cfg.Email))
		log.Printf("petrolbot: email channel enabled, provider=%s", cfg.Email.Provider)
	}

	alerter := alerting.NewAlerter(alerting.DefaultAlertConfig())

	pipeline := &notify.Pipeline{
		Prices:    svc,
		Detector:  detector,
		Notifiers: notifiers,
		Alerter:   alerter,
		JobName:   jobName,
	}

	return &app{
		cfg:      cfg,
		store:    st,
		prices:   svc,
		detector: detector,
		pipeline: pipeline,
		alerter:  alerter,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Printf("petrolbot: close storage: %v", err)
	}
}

func listenAddr(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
