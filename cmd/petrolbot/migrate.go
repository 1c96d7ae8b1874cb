package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ktantikarun/petrolprice-line-bot/internal/config"
	"github.com/ktantikarun/petrolprice-line-bot/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "Run database schema migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromEnv()
		if cfg.DBDriver == "memory" {
			return fmt.Errorf("migrations require a database driver (PETROLBOT_DB_DRIVER=sqlite|postgres|postgrespool)")
		}

		switch args[0] {
		case "up":
			return migrate.Up(cmd.Context(), cfg.DBDriver, cfg.DBDSN)
		case "down":
			return migrate.Down(cmd.Context(), cfg.DBDriver, cfg.DBDSN)
		case "status":
			return migrate.Status(cmd.Context(), cfg.DBDriver, cfg.DBDSN)
		default:
			return fmt.Errorf("unknown migrate action %q", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
