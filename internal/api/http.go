// Package api exposes the bot's HTTP surface: the platform webhook, health
// probes, Prometheus metrics, and two read-only JSON endpoints.
package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ktantikarun/petrolprice-line-bot/internal/line"
	"github.com/ktantikarun/petrolprice-line-bot/internal/metrics"
	"github.com/ktantikarun/petrolprice-line-bot/internal/prices"
	"github.com/ktantikarun/petrolprice-line-bot/internal/storage"
)

const signatureHeader = "X-Line-Signature"

// Deps are the collaborators the mux needs.
type Deps struct {
	ChannelSecret string
	Prices        *prices.Service
	Store         storage.Storage
	JobName       string
}

// NewMux constructs the HTTP mux.
func NewMux(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Store != nil {
			if _, err := deps.Store.GetSetting(r.Context(), "poll_interval"); err != nil {
				http.Error(w, "storage not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		handleCallback(w, r, deps.ChannelSecret)
	})

	mux.HandleFunc("/v1/prices", func(w http.ResponseWriter, r *http.Request) {
		snap, err := deps.Prices.Latest(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if snap == nil {
			http.Error(w, "no snapshot observed yet", http.StatusNotFound)
			return
		}
		writeJSON(w, snap)
	})

	mux.HandleFunc("/v1/status", func(w http.ResponseWriter, r *http.Request) {
		if deps.Store == nil {
			http.Error(w, "no storage configured", http.StatusNotFound)
			return
		}
		job, err := deps.Store.GetScheduledJob(r.Context(), deps.JobName)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if job == nil {
			http.Error(w, "job has not run yet", http.StatusNotFound)
			return
		}
		writeJSON(w, job)
	})

	return mux
}

// handleCallback verifies the platform signature and acknowledges the events.
// Message handling is intentionally inert: events are logged, never replied to.
func handleCallback(w http.ResponseWriter, r *http.Request, channelSecret string) {
	if r.Method != http.MethodPost {
		metrics.WebhookRequestsTotal.WithLabelValues(strconv.Itoa(http.StatusMethodNotAllowed)).Inc()
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		metrics.WebhookRequestsTotal.WithLabelValues(strconv.Itoa(http.StatusBadRequest)).Inc()
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	if !line.ValidateSignature(channelSecret, body, r.Header.Get(signatureHeader)) {
		metrics.WebhookRequestsTotal.WithLabelValues(strconv.Itoa(http.StatusBadRequest)).Inc()
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	events, err := line.ParseWebhookBody(body)
	if err != nil {
		log.Printf("api: webhook body undecodable: %v", err)
	}
	for _, ev := range events {
		log.Printf("api: webhook event type=%s message=%s", ev.Type, ev.Message.Type)
	}

	metrics.WebhookRequestsTotal.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}
