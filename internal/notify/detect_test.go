package notify

import (
	"context"
	"testing"

	"github.com/ktantikarun/petrolprice-line-bot/internal/prices"
	"github.com/ktantikarun/petrolprice-line-bot/internal/storage"
)

func changedSnapshot(date string) *prices.Snapshot {
	return &prices.Snapshot{
		ReportDate: date,
		Rows: []prices.PriceRow{
			{FuelType: "Diesel", Today: 29.94, Tomorrow: 30.44},
			{FuelType: "NGV", Today: 17.59, Tomorrow: 17.59},
		},
	}
}

func steadySnapshot(date string) *prices.Snapshot {
	return &prices.Snapshot{
		ReportDate: date,
		Rows: []prices.PriceRow{
			{FuelType: "Diesel", Today: 29.94, Tomorrow: 29.94},
		},
	}
}

func TestDetectorDueOncePerDate(t *testing.T) {
	ctx := context.Background()
	d := NewDetector(storage.NewMemory())

	snap := changedSnapshot("29 สิงหาคม 2569")
	if !d.Due(snap) {
		t.Fatal("first observation of a pending change should be due")
	}
	if err := d.MarkNotified(ctx, snap.ReportDate); err != nil {
		t.Fatalf("MarkNotified failed: %v", err)
	}

	// The change is still published until the source rolls the date over;
	// later cycles must not re-notify.
	if d.Due(changedSnapshot("29 สิงหาคม 2569")) {
		t.Error("same report date must not be due twice")
	}

	if !d.Due(changedSnapshot("30 สิงหาคม 2569")) {
		t.Error("new report date with a change should be due")
	}
}

func TestDetectorNoChangeNotDue(t *testing.T) {
	d := NewDetector(nil)
	if d.Due(steadySnapshot("29 สิงหาคม 2569")) {
		t.Error("snapshot without a change must not be due")
	}
}

func TestDetectorLoadRestoresGate(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	d := NewDetector(store)
	if err := d.MarkNotified(ctx, "29 สิงหาคม 2569"); err != nil {
		t.Fatalf("MarkNotified failed: %v", err)
	}

	// Fresh detector over the same store, as after a process restart.
	d2 := NewDetector(store)
	if err := d2.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d2.Due(changedSnapshot("29 สิงหาคม 2569")) {
		t.Error("restart must not re-notify an already handled report date")
	}
	if got := d2.LastNotifiedDate(); got != "29 สิงหาคม 2569" {
		t.Errorf("restored gate = %q", got)
	}
}
