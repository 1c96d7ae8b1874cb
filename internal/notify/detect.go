// Package notify decides when a price change is due for notification, renders
// the notification payloads, and runs the poll-cycle pipeline.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/ktantikarun/petrolprice-line-bot/internal/prices"
	"github.com/ktantikarun/petrolprice-line-bot/internal/storage"
)

// State is the notification state owned by the scheduler's execution context.
// It is read and written only from the single-flight poll loop; nothing else
// touches it.
type State struct {
	LastSnapshot     *prices.Snapshot
	LastNotifiedDate string
}

// Detector applies the one correctness rule of the whole system: for a given
// report date, at most one notification is ever decided, no matter how many
// poll cycles observe the pending change.
type Detector struct {
	state State
	store storage.Storage // optional durable date gate
}

func NewDetector(st storage.Storage) *Detector {
	return &Detector{store: st}
}

// Load primes the date gate from storage so a restart does not re-notify a
// report date that was already handled.
func (d *Detector) Load(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	st, err := d.store.GetBotState(ctx, prices.StateSource)
	if err != nil {
		return fmt.Errorf("load notification state: %w", err)
	}
	if st != nil {
		d.state.LastNotifiedDate = st.LastNotifiedDate
	}
	return nil
}

// Due records the freshly extracted snapshot and reports whether it calls for
// a notification: the published data announces a change (today != tomorrow in
// at least one row) and the report date has not been notified yet.
func (d *Detector) Due(snap *prices.Snapshot) bool {
	d.state.LastSnapshot = snap
	if !snap.HasChange() {
		return false
	}
	return snap.ReportDate != d.state.LastNotifiedDate
}

// MarkNotified sets the date gate, in memory and durably, before any dispatch
// is attempted. A dispatch failure after this point is accepted as a missed
// notification (at-most-once); the gate is never rolled back.
func (d *Detector) MarkNotified(ctx context.Context, reportDate string) error {
	d.state.LastNotifiedDate = reportDate
	if d.store == nil {
		return nil
	}
	st, err := d.store.GetBotState(ctx, prices.StateSource)
	if err != nil {
		return fmt.Errorf("read notification state: %w", err)
	}
	state := storage.BotState{Source: prices.StateSource}
	if st != nil {
		state = *st
	}
	state.LastNotifiedDate = reportDate
	state.UpdatedAt = time.Now()
	if err := d.store.SaveBotState(ctx, state); err != nil {
		return fmt.Errorf("persist notification state: %w", err)
	}
	return nil
}

// LastNotifiedDate exposes the current date gate, for status reporting.
func (d *Detector) LastNotifiedDate() string {
	return d.state.LastNotifiedDate
}

// RecordDelivery stores the outcome of one dispatch attempt.
func (d *Detector) RecordDelivery(ctx context.Context, delivery storage.Delivery) error {
	if d.store == nil {
		return nil
	}
	return d.store.SaveDelivery(ctx, delivery)
}
