// Command petrolbot watches a published fuel-price table and broadcasts a
// price-change notification to a LINE channel's subscribers.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "petrolbot",
	Short: "Fuel price change notifier for LINE",
	Long: `petrolbot polls a published fuel-price table, detects when tomorrow's
prices differ from today's, and broadcasts a one-time notification per
report date to all subscribers of a LINE channel.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
