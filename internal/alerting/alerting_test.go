package alerting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testAlert(stage string, failures int) CycleAlert {
	return CycleAlert{
		JobName:             "poll_prices",
		Stage:               stage,
		Error:               "render service down",
		ConsecutiveFailures: failures,
		Timestamp:           time.Now(),
	}
}

func TestSendCycleAlertGenericPayload(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode alert payload: %v", err)
		}
	}))
	defer srv.Close()

	a := NewAlerter(AlertConfig{
		WebhookURL:             srv.URL,
		WebhookType:            "generic",
		Enabled:                true,
		MinFailuresBeforeAlert: 1,
		Timeout:                5 * time.Second,
	})

	if err := a.SendCycleAlert(context.Background(), testAlert("fetch", 2)); err != nil {
		t.Fatalf("SendCycleAlert failed: %v", err)
	}

	if got["job_name"] != "poll_prices" || got["stage"] != "fetch" {
		t.Errorf("unexpected payload: %v", got)
	}
	if got["consecutive_failures"] != float64(2) {
		t.Errorf("consecutive_failures = %v", got["consecutive_failures"])
	}
}

func TestSendCycleAlertBelowThresholdSuppressed(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	a := NewAlerter(AlertConfig{
		WebhookURL:             srv.URL,
		WebhookType:            "generic",
		Enabled:                true,
		MinFailuresBeforeAlert: 3,
		Timeout:                5 * time.Second,
	})

	if err := a.SendCycleAlert(context.Background(), testAlert("fetch", 2)); err != nil {
		t.Fatalf("SendCycleAlert failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("alert below threshold must be suppressed, got %d calls", calls)
	}

	// Dispatch failures bypass the threshold.
	if err := a.SendCycleAlert(context.Background(), testAlert("dispatch", 1)); err != nil {
		t.Fatalf("SendCycleAlert failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("dispatch alert must bypass threshold, got %d calls", calls)
	}
}

func TestSendCycleAlertDisabled(t *testing.T) {
	a := NewAlerter(AlertConfig{Enabled: false})
	if err := a.SendCycleAlert(context.Background(), testAlert("fetch", 5)); err != nil {
		t.Fatalf("disabled alerter must be a no-op, got %v", err)
	}
}

func TestDefaultAlertConfigAutoDetect(t *testing.T) {
	t.Setenv("ALERT_WEBHOOK_URL", "https://hooks.slack.com/services/T0/B0/x")
	t.Setenv("ALERT_WEBHOOK_TYPE", "")
	cfg := DefaultAlertConfig()
	if !cfg.Enabled || cfg.WebhookType != "slack" {
		t.Errorf("slack auto-detect failed: %+v", cfg)
	}

	t.Setenv("ALERT_WEBHOOK_URL", "https://example.com/hook")
	cfg = DefaultAlertConfig()
	if cfg.WebhookType != "generic" {
		t.Errorf("generic fallback failed: %+v", cfg)
	}
}
