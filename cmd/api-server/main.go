package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"procurement/internal/config"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "procurement",
		Short:         "NEEPCO procurement API: vendors, tenders, bids and payments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config (env variables override it)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createUserCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func connect(cfg config.Config) (*sqlx.DB, error) {
	dbConn, err := sqlx.Connect("postgres", cfg.Postgres.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to DB")
	}
	return dbConn, nil
}
