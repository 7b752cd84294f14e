package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"procurement/db/migrations"
	"procurement/internal/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or show database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			dbConn, err := connect(cfg)
			if err != nil {
				return err
			}
			defer dbConn.Close()

			switch direction {
			case "down":
				return migrations.Down(dbConn.DB)
			case "status":
				return migrations.Status(dbConn.DB)
			default:
				if err := migrations.Up(dbConn.DB); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			}
		},
	}
}
