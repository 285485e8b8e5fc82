package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ignite/phishsim/internal/pkg/logger"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// MigrationFiles lists the schema files for driver in apply order.
func MigrationFiles(driver string) ([]string, error) {
	dir := "migrations/" + driver
	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return nil, fmt.Errorf("no migrations for driver %q: %w", driver, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, dir+"/"+e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Migrate applies every schema file for the connection's driver, each in its
// own transaction. Statements are idempotent, so running it twice is safe.
func Migrate(ctx context.Context, db *sqlx.DB) (int, error) {
	files, err := MigrationFiles(db.DriverName())
	if err != nil {
		return 0, err
	}
	applied := 0
	for _, f := range files {
		data, err := migrationFS.ReadFile(f)
		if err != nil {
			return applied, fmt.Errorf("read %s: %w", f, err)
		}
		content := string(data)
		if strings.TrimSpace(content) == "" {
			continue
		}
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("begin %s: %w", f, err)
		}
		if _, err := tx.ExecContext(ctx, content); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("apply %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("commit %s: %w", f, err)
		}
		logger.Debug("migration applied", "file", f)
		applied++
	}
	return applied, nil
}
