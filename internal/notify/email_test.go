package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/ktantikarun/petrolprice-line-bot/internal/prices"
)

func TestRenderEmailHTML(t *testing.T) {
	snap := &prices.Snapshot{
		ReportDate: "29 สิงหาคม 2569",
		Rows: []prices.PriceRow{
			{FuelType: "Diesel", Today: 29.94, Tomorrow: 30.44},
			{FuelType: "NGV", Today: 17.59, Tomorrow: 17.59},
		},
	}

	body, err := renderEmailHTML(snap)
	if err != nil {
		t.Fatalf("renderEmailHTML failed: %v", err)
	}
	for _, want := range []string{
		"29 สิงหาคม 2569",
		"<td>Diesel</td>",
		"<td>29.94</td>",
		"<td>30.44</td>",
		"▲0.50",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("email body missing %q", want)
		}
	}
}

func TestEmailNotifierUnknownProvider(t *testing.T) {
	n := NewEmailNotifier(EmailConfig{Provider: "carrier-pigeon", To: "ops@example.com"})
	err := n.Notify(context.Background(), changedSnapshot("29 สิงหาคม 2569"))
	if err == nil || !strings.Contains(err.Error(), "unknown email provider") {
		t.Fatalf("expected unknown-provider error, got %v", err)
	}
}
