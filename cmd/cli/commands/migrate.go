package commands

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/amirasaad/minibank/infra"
	"github.com/amirasaad/minibank/internal/migrations"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB()
			if err := migrations.Up(db, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB()
			if err := migrations.Down(db, steps, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 0, "number of migrations to roll back (0 rolls back all)")

	cmd.AddCommand(up, down)
	return cmd
}

func openDB() (*sql.DB, func(), error) {
	if cfg.DB.Driver != "postgres" {
		return nil, nil, fmt.Errorf("migrations need DATABASE_DRIVER=postgres, got %q", cfg.DB.Driver)
	}
	conn, err := infra.NewDBConnection(cfg.DB, cfg.Env, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	db, err := conn.DB()
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}
