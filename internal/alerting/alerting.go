package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// AlertConfig holds ops-alerting configuration.
type AlertConfig struct {
	// WebhookURL is a generic webhook endpoint (Slack, Discord, or custom)
	WebhookURL string
	// WebhookType determines the payload format: "slack", "discord", or "generic"
	WebhookType string
	// Enabled controls whether alerts are sent
	Enabled bool
	// MinFailuresBeforeAlert is the consecutive-failure threshold before alerting
	MinFailuresBeforeAlert int
	// Timeout for HTTP requests
	Timeout time.Duration
}

// DefaultAlertConfig returns config from environment variables.
func DefaultAlertConfig() AlertConfig {
	cfg := AlertConfig{
		WebhookURL:             os.Getenv("ALERT_WEBHOOK_URL"),
		WebhookType:            os.Getenv("ALERT_WEBHOOK_TYPE"),
		MinFailuresBeforeAlert: 1,
		Timeout:                10 * time.Second,
	}

	cfg.Enabled = cfg.WebhookURL != ""

	if cfg.WebhookType == "" {
		// Auto-detect from URL
		if strings.Contains(cfg.WebhookURL, "slack.com") {
			cfg.WebhookType = "slack"
		} else if strings.Contains(cfg.WebhookURL, "discord.com") {
			cfg.WebhookType = "discord"
		} else {
			cfg.WebhookType = "generic"
		}
	}

	if v := os.Getenv("ALERT_MIN_FAILURES"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n > 0 {
			cfg.MinFailuresBeforeAlert = n
		}
	}

	return cfg
}

// Alerter sends ops alerts to a configured webhook.
type Alerter struct {
	cfg    AlertConfig
	client *http.Client
}

func NewAlerter(cfg AlertConfig) *Alerter {
	return &Alerter{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CycleAlert describes a failed poll cycle or a failed notification dispatch.
type CycleAlert struct {
	JobName             string
	Stage               string
	Error               string
	ConsecutiveFailures int
	Timestamp           time.Time
}

// SendCycleAlert notifies the ops webhook about a failure. Alerts below the
// consecutive-failure threshold are suppressed; dispatch failures always pass
// the threshold because a missed broadcast is never retried within its date
// window.
func (a *Alerter) SendCycleAlert(ctx context.Context, alert CycleAlert) error {
	if !a.cfg.Enabled {
		return nil
	}

	if alert.Stage != "dispatch" && alert.ConsecutiveFailures < a.cfg.MinFailuresBeforeAlert {
		log.Printf("alerting: %d consecutive failures below threshold (%d), skipping",
			alert.ConsecutiveFailures, a.cfg.MinFailuresBeforeAlert)
		return nil
	}

	var payload []byte
	var err error

	switch a.cfg.WebhookType {
	case "slack":
		payload, err = a.buildSlackPayload(alert)
	case "discord":
		payload, err = a.buildDiscordPayload(alert)
	default:
		payload, err = a.buildGenericPayload(alert)
	}

	if err != nil {
		return fmt.Errorf("build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	log.Printf("alerting: sent %s alert for job %s", alert.Stage, alert.JobName)
	return nil
}

func (a *Alerter) buildSlackPayload(alert CycleAlert) ([]byte, error) {
	emoji := ":warning:"
	if alert.Stage == "dispatch" {
		emoji = ":x:"
	}

	payload := map[string]interface{}{
		"blocks": []map[string]interface{}{
			{
				"type": "header",
				"text": map[string]string{
					"type": "plain_text",
					"text": fmt.Sprintf("%s Petrol Bot Alert: %s", emoji, alert.JobName),
				},
			},
			{
				"type": "section",
				"fields": []map[string]string{
					{"type": "mrkdwn", "text": fmt.Sprintf("*Stage:*\n%s", alert.Stage)},
					{"type": "mrkdwn", "text": fmt.Sprintf("*Consecutive failures:*\n%d", alert.ConsecutiveFailures)},
					{"type": "mrkdwn", "text": fmt.Sprintf("*Timestamp:*\n%s", alert.Timestamp.Format(time.RFC3339))},
				},
			},
			{
				"type": "section",
				"text": map[string]string{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Error:*\n%s", alert.Error),
				},
			},
		},
	}

	return json.Marshal(payload)
}

func (a *Alerter) buildDiscordPayload(alert CycleAlert) ([]byte, error) {
	color := 16776960 // Yellow
	if alert.Stage == "dispatch" {
		color = 16711680 // Red
	}

	payload := map[string]interface{}{
		"embeds": []map[string]interface{}{
			{
				"title":       fmt.Sprintf("Petrol Bot Alert: %s", alert.JobName),
				"description": fmt.Sprintf("%s failed: %s", alert.Stage, alert.Error),
				"color":       color,
				"fields": []map[string]interface{}{
					{"name": "Stage", "value": alert.Stage, "inline": true},
					{"name": "Consecutive failures", "value": fmt.Sprintf("%d", alert.ConsecutiveFailures), "inline": true},
				},
				"timestamp": alert.Timestamp.Format(time.RFC3339),
			},
		},
	}

	return json.Marshal(payload)
}

func (a *Alerter) buildGenericPayload(alert CycleAlert) ([]byte, error) {
	payload := map[string]interface{}{
		"alert_type":           "poll_cycle_failure",
		"job_name":             alert.JobName,
		"stage":                alert.Stage,
		"error":                alert.Error,
		"consecutive_failures": alert.ConsecutiveFailures,
		"timestamp":            alert.Timestamp.Format(time.RFC3339),
	}

	return json.Marshal(payload)
}
