package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/ktantikarun/petrolprice-line-bot/internal/prices"
	"github.com/ktantikarun/petrolprice-line-bot/internal/storage"
)

const pipelineTestHTML = `
<html><body>
<div class="current-date">ราคาน้ำมันประจำวันที่ 29 สิงหาคม 2569</div>
<table class="oil-table"><tbody>
<tr><td>Premium Diesel B7</td><td>43.96</td><td>43.96</td></tr>
<tr><td>Diesel B7</td><td>29.94</td><td>29.94</td></tr>
<tr><td>Diesel</td><td>29.94</td><td>30.44</td></tr>
<tr><td>Diesel B20</td><td>29.94</td><td>29.94</td></tr>
<tr><td>E85</td><td>27.79</td><td>27.79</td></tr>
<tr><td>E20</td><td>34.04</td><td>34.04</td></tr>
<tr><td>Gasohol 91</td><td>35.18</td><td>35.18</td></tr>
<tr><td>Gasohol 95</td><td>35.45</td><td>35.45</td></tr>
<tr><td>NGV</td><td>17.59</td><td>17.59</td></tr>
</tbody></table>
</body></html>`

// staticFetcher serves a fixed document, or a fixed error.
type staticFetcher struct {
	html string
	err  error
}

func (f *staticFetcher) Fetch(ctx context.Context) (*goquery.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(f.html))
}

// countingNotifier records dispatches and optionally fails them.
type countingNotifier struct {
	calls int
	fail  bool
}

func (n *countingNotifier) Name() string { return "test" }

func (n *countingNotifier) Notify(ctx context.Context, snap *prices.Snapshot) error {
	n.calls++
	if n.fail {
		return fmt.Errorf("broadcast rejected")
	}
	return nil
}

func newTestPipeline(fetcher prices.DocumentFetcher, n Notifier) (*Pipeline, *storage.MemoryStorage) {
	store := storage.NewMemory()
	return &Pipeline{
		Prices:    prices.NewServiceWithStorage(fetcher, store),
		Detector:  NewDetector(store),
		Notifiers: []Notifier{n},
		JobName:   "poll_prices",
	}, store
}

func TestPipelineNotifiesOncePerReportDate(t *testing.T) {
	ctx := context.Background()
	notifier := &countingNotifier{}
	p, store := newTestPipeline(&staticFetcher{html: pipelineTestHTML}, notifier)

	if err := p.RunCycle(ctx); err != nil {
		t.Fatalf("first cycle failed: %v", err)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected 1 dispatch after first cycle, got %d", notifier.calls)
	}

	// Source still publishes the same date and change; no re-notification.
	if err := p.RunCycle(ctx); err != nil {
		t.Fatalf("second cycle failed: %v", err)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected dispatch count to stay at 1, got %d", notifier.calls)
	}

	st, err := store.GetBotState(ctx, prices.StateSource)
	if err != nil || st == nil {
		t.Fatalf("bot state missing: %v", err)
	}
	if st.LastNotifiedDate != "29 สิงหาคม 2569" {
		t.Errorf("persisted gate = %q", st.LastNotifiedDate)
	}
}

func TestPipelineFetchFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	notifier := &countingNotifier{}
	p, store := newTestPipeline(&staticFetcher{err: errors.New("render service down")}, notifier)

	err := p.RunCycle(ctx)
	if !errors.Is(err, prices.ErrFetchFailed) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
	if notifier.calls != 0 {
		t.Errorf("dispatch must not run on fetch failure, got %d calls", notifier.calls)
	}

	st, err := store.GetBotState(ctx, prices.StateSource)
	if err != nil {
		t.Fatalf("GetBotState: %v", err)
	}
	if st != nil {
		t.Errorf("failed cycle must not write state, got %+v", st)
	}
}

func TestPipelineExtractFailureClassified(t *testing.T) {
	p, _ := newTestPipeline(&staticFetcher{html: "<html><body>maintenance</body></html>"}, &countingNotifier{})
	err := p.RunCycle(context.Background())
	if !errors.Is(err, prices.ErrExtractFailed) {
		t.Fatalf("expected extract failure, got %v", err)
	}
}

func TestPipelineDispatchFailureConsumesDate(t *testing.T) {
	ctx := context.Background()
	notifier := &countingNotifier{fail: true}
	p, store := newTestPipeline(&staticFetcher{html: pipelineTestHTML}, notifier)

	if err := p.RunCycle(ctx); err == nil {
		t.Fatal("expected dispatch failure to surface")
	}
	if notifier.calls != 1 {
		t.Fatalf("expected 1 dispatch attempt, got %d", notifier.calls)
	}

	// At-most-once: the gate was set before dispatch, so the failed date is
	// spent and is not retried.
	notifier.fail = false
	if err := p.RunCycle(ctx); err != nil {
		t.Fatalf("second cycle failed: %v", err)
	}
	if notifier.calls != 1 {
		t.Errorf("failed report date must not be retried, got %d calls", notifier.calls)
	}

	delivery, err := store.GetDelivery(ctx, "29 สิงหาคม 2569")
	if err != nil {
		t.Fatalf("GetDelivery: %v", err)
	}
	if delivery == nil || delivery.Success {
		t.Errorf("expected a recorded failed delivery, got %+v", delivery)
	}
}
