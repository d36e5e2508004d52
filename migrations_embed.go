package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// Embed migrations into the binary so `coffeeshell migrate` works
// regardless of the current working directory.
//
//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

type execer interface {
	Exec(ctx context.Context, stmt string) error
}

// applyMigrations runs every migration for the driver in file-name order.
// Statements are written to be re-runnable.
func applyMigrations(ctx context.Context, db execer, driver string, verbose bool) error {
	names, err := fs.Glob(migrationsFS, "migrations/"+driver+"/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	if len(names) == 0 {
		return fmt.Errorf("no migrations for driver %q", driver)
	}
	sort.Strings(names)
	for _, name := range names {
		sqlBytes, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := db.Exec(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if verbose {
			fmt.Println("Migration", name, "applied.")
		}
	}
	return nil
}
