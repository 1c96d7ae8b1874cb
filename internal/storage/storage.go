package storage

import (
	"context"
	"time"
)

// Storage abstracts persistence for the bot's single-snapshot state, delivery
// records, runtime settings, and scheduled-job bookkeeping.
type Storage interface {
	// Bot state: the most recent observation and the notification date gate.
	GetBotState(ctx context.Context, source string) (*BotState, error)
	SaveBotState(ctx context.Context, state BotState) error

	// Deliveries: outcome of the broadcast for one report date.
	GetDelivery(ctx context.Context, reportDate string) (*Delivery, error)
	SaveDelivery(ctx context.Context, d Delivery) error

	// Settings: runtime overrides such as the poll interval.
	GetSetting(ctx context.Context, key string) (string, error)
	SaveSetting(ctx context.Context, key, value string) error

	// Scheduled jobs
	GetScheduledJob(ctx context.Context, name string) (*ScheduledJob, error)
	UpdateScheduledJob(ctx context.Context, name string, startedAt time.Time, dur time.Duration, success bool, errMsg string) error

	// Close releases any resources (no-op for in-memory).
	Close() error
}
