package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	config "github.com/tbeaudouin05/otmens-intake/api/config"
	"github.com/tbeaudouin05/otmens-intake/api/database"
)

var migrateDSN string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the webhook, payment, rate limit and audit tables",
	Long: `Apply the schema to DATABASE_URL (or --dsn). Safe to run repeatedly.

Examples:
  intake-api migrate
  intake-api migrate --dsn sqlite://./intake.db`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDSN, "dsn", "", "database URL, overrides DATABASE_URL")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dsn := migrateDSN
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		dsn = cfg.DatabaseURL
	}
	if dsn == "" {
		return errors.New("no database configured: set DATABASE_URL or pass --dsn")
	}
	conn, err := database.Open(dsn)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := database.Migrate(conn); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
	return nil
}
