package command

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"library-backend/internal/infrastructure/database"
)

// migrateCmd groups schema migration subcommands
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		migrator, closeDB, err := openMigrator(cmd)
		if err != nil {
			return err
		}
		defer closeDB()

		applied, err := migrator.Up(cmd.Context())
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(applied) == 0 {
			fmt.Fprintln(out, "✓ Schema is up to date")
			return nil
		}
		for _, m := range applied {
			fmt.Fprintf(out, "✓ Applied %04d_%s\n", m.Version, m.Name)
		}
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		migrator, closeDB, err := openMigrator(cmd)
		if err != nil {
			return err
		}
		defer closeDB()

		rows, err := migrator.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		return printStatus(cmd.OutOrStdout(), rows)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func openMigrator(cmd *cobra.Command) (*database.Migrator, func(), error) {
	migrations, err := database.LoadMigrations()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.OpenSQLX(cmd.Context(), cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return database.NewMigrator(db, migrations), func() { _ = db.Close() }, nil
}

func printStatus(w io.Writer, rows []database.MigrationStatus) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED AT")
	for _, r := range rows {
		applied := "pending"
		if r.AppliedAt != nil {
			applied = r.AppliedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%04d\t%s\t%s\n", r.Version, r.Name, applied)
	}
	return tw.Flush()
}
