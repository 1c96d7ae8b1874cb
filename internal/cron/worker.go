// Package cron runs the poll pipeline on a schedule. The loop is the single
// owner of the notification state: cycles never overlap, and in a
// multi-replica deployment a PostgreSQL advisory lock keeps the whole fleet
// single-flight.
package cron

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ktantikarun/petrolprice-line-bot/internal/alerting"
	"github.com/ktantikarun/petrolprice-line-bot/internal/metrics"
	"github.com/ktantikarun/petrolprice-line-bot/internal/notify"
	"github.com/ktantikarun/petrolprice-line-bot/internal/storage"
)

const (
	// settingPollInterval is the storage key for the runtime interval override.
	settingPollInterval = "poll_interval"
	// advisoryLockKey guards the poll job across replicas.
	advisoryLockKey int64 = 815915
	// controlTick is how often the loop re-reads config and checks run time.
	controlTick = 10 * time.Second

	defaultInterval = time.Hour
)

// Job bundles everything the worker loop needs.
type Job struct {
	Name     string
	Pipeline *notify.Pipeline
	Store    storage.Storage
	Alerter  *alerting.Alerter

	// IntervalSetting is integer seconds or a standard cron expression.
	IntervalSetting string
}

// Run executes the job once immediately, then on the configured schedule
// until ctx is cancelled. Any cycle error is logged and absorbed; the loop
// stays armed for the next tick.
func Run(ctx context.Context, job Job) error {
	intervalSetting := job.IntervalSetting
	if intervalSetting == "" {
		intervalSetting = "3600"
	}
	if val, err := job.Store.GetSetting(ctx, settingPollInterval); err == nil && val != "" {
		intervalSetting = val
	}

	pg, hasLock := job.Store.(*storage.PostgresPoolStorage)

	ticker := time.NewTicker(controlTick)
	defer ticker.Stop()

	// Run unconditionally at process start.
	nextRun := time.Now()
	consecutiveFailures := 0

	log.Printf("cron: worker starting, job=%s interval=%q", job.Name, intervalSetting)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		// Pick up runtime interval overrides.
		if val, err := job.Store.GetSetting(ctx, settingPollInterval); err == nil && val != "" && val != intervalSetting {
			log.Printf("cron: interval updated from %q to %q", intervalSetting, val)
			intervalSetting = val
			nextRun = getNextRun(intervalSetting, time.Now())
		}

		if time.Now().Before(nextRun) {
			continue
		}

		started := time.Now()

		if hasLock {
			ok, err := pg.AcquireAdvisoryLock(ctx, advisoryLockKey)
			if err != nil {
				log.Printf("cron: acquire advisory lock failed: %v", err)
				metrics.UpdateJobMetrics(job.Name, started, err)
				nextRun = getNextRun(intervalSetting, time.Now())
				continue
			}
			if !ok {
				log.Printf("cron: advisory lock held by another worker, skipping run")
				nextRun = getNextRun(intervalSetting, time.Now())
				continue
			}
		}

		runErr := func() error {
			if hasLock {
				defer func() {
					if _, err := pg.ReleaseAdvisoryLock(ctx, advisoryLockKey); err != nil {
						log.Printf("cron: release advisory lock failed: %v", err)
					}
				}()
			}
			return job.Pipeline.RunCycle(ctx)
		}()

		metrics.UpdateJobMetrics(job.Name, started, runErr)
		dur := time.Since(started)
		errMsg := ""
		if runErr != nil {
			errMsg = runErr.Error()
			consecutiveFailures++
		} else {
			consecutiveFailures = 0
		}
		if err := job.Store.UpdateScheduledJob(ctx, job.Name, started, dur, runErr == nil, errMsg); err != nil {
			log.Printf("cron: update scheduled_jobs failed: %v", err)
		}

		if runErr != nil {
			log.Printf("cron: job %s completed with error: %v (duration=%s)", job.Name, runErr, dur)
			if job.Alerter != nil {
				alert := alerting.CycleAlert{
					JobName:             job.Name,
					Stage:               "cycle",
					Error:               runErr.Error(),
					ConsecutiveFailures: consecutiveFailures,
					Timestamp:           time.Now(),
				}
				if aerr := job.Alerter.SendCycleAlert(ctx, alert); aerr != nil {
					log.Printf("cron: alert delivery failed: %v", aerr)
				}
			}
		} else {
			log.Printf("cron: job %s completed successfully (duration=%s)", job.Name, dur)
		}

		nextRun = getNextRun(intervalSetting, time.Now())
	}
}

// getNextRun interprets the interval setting as integer seconds first, then
// as a cron expression, falling back to the default interval.
func getNextRun(setting string, lastRun time.Time) time.Time {
	if v, err := strconv.Atoi(setting); err == nil && v > 0 {
		return lastRun.Add(time.Duration(v) * time.Second)
	}
	if sched, err := cron.ParseStandard(setting); err == nil {
		return sched.Next(lastRun)
	}
	return lastRun.Add(defaultInterval)
}
