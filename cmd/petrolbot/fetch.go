package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ktantikarun/petrolprice-line-bot/internal/config"
	"github.com/ktantikarun/petrolprice-line-bot/internal/prices"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and extract the current price table once, print it as JSON",
	Long: `Runs a single fetch+extract against the configured source and prints
the snapshot to stdout. No change detection, no dispatch, no storage writes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromEnv()

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.FetchTimeout+10*time.Second)
		defer cancel()

		fetcher := prices.NewRenderClient(cfg.SourceURL, cfg.RenderServiceURL, cfg.FetchTimeout)
		snap, err := prices.NewService(fetcher).Refresh(ctx)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
