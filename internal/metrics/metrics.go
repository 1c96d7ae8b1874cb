package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PollCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petrolbot_poll_cycles_total",
			Help: "Total number of completed poll cycles by result",
		},
		[]string{"result"},
	)

	CycleErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petrolbot_cycle_errors_total",
			Help: "Total number of poll cycle errors by stage",
		},
		[]string{"stage"},
	)

	DispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petrolbot_dispatches_total",
			Help: "Total number of price-change notifications sent per channel",
		},
		[]string{"channel"},
	)

	DispatchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petrolbot_dispatch_failures_total",
			Help: "Total number of failed notification dispatches per channel",
		},
		[]string{"channel"},
	)

	WebhookRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petrolbot_webhook_requests_total",
			Help: "Total number of inbound webhook requests by response code",
		},
		[]string{"code"},
	)
)

var (
	ScheduledJobLastRun = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "petrolbot_job_last_run_timestamp",
			Help: "Unix timestamp of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobLastDurationSeconds = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "petrolbot_job_last_duration_seconds",
			Help: "Duration of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petrolbot_job_failures_total",
			Help: "Total number of failed executions per job",
		},
		[]string{"job"},
	)
)

func UpdateJobMetrics(job string, startedAt time.Time, err error) {
	dur := time.Since(startedAt).Seconds()
	ScheduledJobLastDurationSeconds.WithLabelValues(job).Set(dur)
	ScheduledJobLastRun.WithLabelValues(job).Set(float64(time.Now().Unix()))
	if err != nil {
		ScheduledJobFailuresTotal.WithLabelValues(job).Inc()
	}
}
