package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ktantikarun/petrolprice-line-bot/internal/alerting"
	"github.com/ktantikarun/petrolprice-line-bot/internal/metrics"
	"github.com/ktantikarun/petrolprice-line-bot/internal/prices"
	"github.com/ktantikarun/petrolprice-line-bot/internal/storage"
)

// Pipeline executes one poll cycle: fetch the rendered page, extract a
// snapshot, decide whether a notification is due, and dispatch it on every
// configured channel. All errors are terminal for the cycle only.
type Pipeline struct {
	Prices    *prices.Service
	Detector  *Detector
	Notifiers []Notifier
	Alerter   *alerting.Alerter
	JobName   string
}

// RunCycle runs the pipeline once. It is not safe for concurrent use: the
// detector state has a single owner, the scheduler loop.
func (p *Pipeline) RunCycle(ctx context.Context) error {
	snap, err := p.Prices.Refresh(ctx)
	if err != nil {
		metrics.CycleErrorsTotal.WithLabelValues(stageOf(err)).Inc()
		metrics.PollCyclesTotal.WithLabelValues("error").Inc()
		return err
	}

	if !p.Detector.Due(snap) {
		log.Printf("pipeline: no notification due for %s (change=%v, last notified=%q)",
			snap.ReportDate, snap.HasChange(), p.Detector.LastNotifiedDate())
		metrics.PollCyclesTotal.WithLabelValues("ok").Inc()
		return nil
	}

	// The date gate is set before any dispatch so the decision stays
	// at-most-once per report date even when a broadcast fails.
	if err := p.Detector.MarkNotified(ctx, snap.ReportDate); err != nil {
		metrics.CycleErrorsTotal.WithLabelValues("storage").Inc()
		metrics.PollCyclesTotal.WithLabelValues("error").Inc()
		return err
	}

	log.Printf("pipeline: price change detected for %s, dispatching on %d channel(s)",
		snap.ReportDate, len(p.Notifiers))

	var dispatchErr error
	for _, n := range p.Notifiers {
		err := n.Notify(ctx, snap)

		delivery := storage.Delivery{
			ID:         uuid.New().String(),
			ReportDate: snap.ReportDate,
			Channel:    n.Name(),
			Success:    err == nil,
			SentAt:     time.Now(),
		}
		if err != nil {
			delivery.Error = err.Error()
		}
		if derr := p.Detector.RecordDelivery(ctx, delivery); derr != nil {
			log.Printf("pipeline: record delivery failed: %v", derr)
		}

		if err != nil {
			log.Printf("pipeline: dispatch on %s failed: %v", n.Name(), err)
			metrics.DispatchFailuresTotal.WithLabelValues(n.Name()).Inc()
			p.alertDispatchFailure(ctx, n.Name(), err)
			if dispatchErr == nil {
				dispatchErr = fmt.Errorf("dispatch on %s: %w", n.Name(), err)
			}
			continue
		}
		metrics.DispatchesTotal.WithLabelValues(n.Name()).Inc()
		log.Printf("pipeline: notified %s subscribers for %s", n.Name(), snap.ReportDate)
	}

	if dispatchErr != nil {
		metrics.CycleErrorsTotal.WithLabelValues("dispatch").Inc()
		metrics.PollCyclesTotal.WithLabelValues("error").Inc()
		return dispatchErr
	}
	metrics.PollCyclesTotal.WithLabelValues("ok").Inc()
	return nil
}

func (p *Pipeline) alertDispatchFailure(ctx context.Context, channel string, err error) {
	if p.Alerter == nil {
		return
	}
	alert := alerting.CycleAlert{
		JobName:             p.JobName,
		Stage:               "dispatch",
		Error:               fmt.Sprintf("%s: %v", channel, err),
		ConsecutiveFailures: 1,
		Timestamp:           time.Now(),
	}
	if aerr := p.Alerter.SendCycleAlert(ctx, alert); aerr != nil {
		log.Printf("pipeline: alert delivery failed: %v", aerr)
	}
}

func stageOf(err error) string {
	switch {
	case errors.Is(err, prices.ErrFetchFailed):
		return "fetch"
	case errors.Is(err, prices.ErrExtractFailed):
		return "extract"
	default:
		return "other"
	}
}
