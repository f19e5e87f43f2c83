package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/db"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/migrator"
)

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

This command runs all pending foundation migrations embedded in the binary.
Running it against an up to date schema does nothing.

Example:
  orchestractl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMigrations(cmd.Context()); err != nil {
			fmt.Println("Migration failed:", err)
			os.Exit(1)
		}
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback database migrations",
	Long: `Rollback database migrations.

This command rolls back the specified number of migrations (default: 1).

Example:
  orchestractl db down      # Rollback 1 migration
  orchestractl db down 3    # Rollback 3 migrations`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Println("Invalid number of steps:", args[0])
				os.Exit(1)
			}
			steps = n
		}

		if err := runMigrationsDown(cmd.Context(), steps); err != nil {
			fmt.Println("Rollback failed:", err)
			os.Exit(1)
		}
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Long:  `Show the current database migration version.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := showMigrationStatus(cmd.Context()); err != nil {
			fmt.Println("Failed to get status:", err)
			os.Exit(1)
		}
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)
}

func runMigrations(ctx context.Context) error {
	m := migrator.New(db.URL())
	if err := m.Foundation(ctx); err != nil {
		return err
	}

	status, err := m.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Database is at version: %d\n", status.Version)
	fmt.Println("Migrations complete")
	return nil
}

func runMigrationsDown(ctx context.Context, steps int) error {
	m := migrator.New(db.URL())

	fmt.Printf("Rolling back %d migration(s)...\n", steps)
	if err := m.Down(ctx, steps); err != nil {
		return err
	}

	status, err := m.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Rolled back to version: %d\n", status.Version)
	return nil
}

func showMigrationStatus(ctx context.Context) error {
	status, err := migrator.New(db.URL()).Status(ctx)
	if err != nil {
		return err
	}

	if !status.Applied {
		fmt.Println("No migrations have been applied yet")
		return nil
	}

	fmt.Printf("Current version: %d\n", status.Version)
	if status.Dirty {
		fmt.Println("Warning: Database is in a dirty state")
	}
	return nil
}
