package notify

import (
	"context"
	"fmt"

	"github.com/ktantikarun/petrolprice-line-bot/internal/line"
	"github.com/ktantikarun/petrolprice-line-bot/internal/prices"
)

// Notifier delivers a composed price-change notification on one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, snap *prices.Snapshot) error
}

// LineNotifier broadcasts the flex card to all subscribers of the channel.
type LineNotifier struct {
	client *line.Client
}

func NewLineNotifier(client *line.Client) *LineNotifier {
	return &LineNotifier{client: client}
}

func (n *LineNotifier) Name() string { return "line" }

func (n *LineNotifier) Notify(ctx context.Context, snap *prices.Snapshot) error {
	contents := ComposeFlex(snap.ReportDate, snap)
	if err := n.client.Broadcast(ctx, AltText(), contents); err != nil {
		return fmt.Errorf("line broadcast: %w", err)
	}
	return nil
}
