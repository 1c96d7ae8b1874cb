package storage

import (
	"context"
	"testing"
	"time"
)

func TestMemoryBotState(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	st, err := m.GetBotState(ctx, "bangchak")
	if err != nil {
		t.Fatalf("GetBotState: %v", err)
	}
	if st != nil {
		t.Fatalf("expected nil state for unknown source, got %+v", st)
	}

	if err := m.SaveBotState(ctx, BotState{
		Source:           "bangchak",
		Snapshot:         []byte(`{"report_date":"x"}`),
		ReportDate:       "29 สิงหาคม 2569",
		LastNotifiedDate: "28 สิงหาคม 2569",
	}); err != nil {
		t.Fatalf("SaveBotState: %v", err)
	}

	st, err = m.GetBotState(ctx, "bangchak")
	if err != nil || st == nil {
		t.Fatalf("GetBotState after save: %v, %v", st, err)
	}
	if st.ReportDate != "29 สิงหาคม 2569" || st.LastNotifiedDate != "28 สิงหาคม 2569" {
		t.Errorf("unexpected state: %+v", st)
	}
	if st.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not defaulted on save")
	}

	// Returned state is a copy; mutating it must not affect the store.
	st.ReportDate = "mutated"
	again, _ := m.GetBotState(ctx, "bangchak")
	if again.ReportDate != "29 สิงหาคม 2569" {
		t.Error("stored state mutated through returned pointer")
	}
}

func TestMemoryDeliveries(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	d, err := m.GetDelivery(ctx, "29 สิงหาคม 2569")
	if err != nil || d != nil {
		t.Fatalf("expected no delivery, got %+v, %v", d, err)
	}

	if err := m.SaveDelivery(ctx, Delivery{ID: "a", ReportDate: "29 สิงหาคม 2569", Channel: "line", Success: false, Error: "timeout"}); err != nil {
		t.Fatalf("SaveDelivery: %v", err)
	}
	if err := m.SaveDelivery(ctx, Delivery{ID: "b", ReportDate: "29 สิงหาคม 2569", Channel: "email", Success: true}); err != nil {
		t.Fatalf("SaveDelivery: %v", err)
	}

	d, err = m.GetDelivery(ctx, "29 สิงหาคม 2569")
	if err != nil || d == nil {
		t.Fatalf("GetDelivery: %+v, %v", d, err)
	}
	// Latest record wins.
	if d.ID != "b" || !d.Success {
		t.Errorf("unexpected delivery: %+v", d)
	}
}

func TestMemorySettings(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	v, err := m.GetSetting(ctx, "poll_interval")
	if err != nil || v != "" {
		t.Fatalf("expected empty setting, got %q, %v", v, err)
	}
	if err := m.SaveSetting(ctx, "poll_interval", "600"); err != nil {
		t.Fatalf("SaveSetting: %v", err)
	}
	v, _ = m.GetSetting(ctx, "poll_interval")
	if v != "600" {
		t.Errorf("setting = %q, want 600", v)
	}
}

func TestMemoryScheduledJobs(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	j, err := m.GetScheduledJob(ctx, "poll_prices")
	if err != nil || j != nil {
		t.Fatalf("expected no job, got %+v, %v", j, err)
	}

	started := time.Now()
	if err := m.UpdateScheduledJob(ctx, "poll_prices", started, 250*time.Millisecond, false, "boom"); err != nil {
		t.Fatalf("UpdateScheduledJob: %v", err)
	}

	j, err = m.GetScheduledJob(ctx, "poll_prices")
	if err != nil || j == nil {
		t.Fatalf("GetScheduledJob: %+v, %v", j, err)
	}
	if j.LastSuccess || j.LastError != "boom" || j.LastDurationMs != 250 {
		t.Errorf("unexpected job record: %+v", j)
	}
}
