package db

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/hay-kot/threadline/internal/core/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration is one schema version with its forward and reverse SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

type direction string

const (
	dirUp   direction = "up"
	dirDown direction = "down"
)

// migrationFile is the parsed name of an embedded file.
type migrationFile struct {
	Version int
	Name    string
	Dir     direction
}

var migrationName = regexp.MustCompile(`^(\d+)_([A-Za-z0-9_]+)\.(up|down)\.sql$`)

// parseFilename parses "NNNN_name.up.sql" and "NNNN_name.down.sql".
func parseFilename(filename string) (migrationFile, error) {
	m := migrationName.FindStringSubmatch(filename)
	if m == nil {
		return migrationFile{}, fmt.Errorf("expected NNNN_name.{up,down}.sql, got %q", filename)
	}

	version, err := strconv.Atoi(m[1])
	if err != nil {
		return migrationFile{}, fmt.Errorf("version %q: %w", m[1], err)
	}
	if version <= 0 {
		return migrationFile{}, fmt.Errorf("version must be positive, got %d", version)
	}

	return migrationFile{Version: version, Name: m[2], Dir: direction(m[3])}, nil
}

// loadMigrations reads the embedded files into migrations sorted by
// version. Every version needs exactly one up and one down file.
func loadMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		f, err := parseFilename(entry.Name())
		if err != nil {
			return nil, err
		}
		content, err := fs.ReadFile(migrationsFS, "migrations/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		m := byVersion[f.Version]
		if m == nil {
			m = &Migration{Version: f.Version, Name: f.Name}
			byVersion[f.Version] = m
		}

		slot := &m.UpSQL
		if f.Dir == dirDown {
			slot = &m.DownSQL
		}
		if *slot != "" {
			return nil, fmt.Errorf("duplicate %s migration for version %04d", f.Dir, f.Version)
		}
		*slot = string(content)
	}

	out := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		switch {
		case m.UpSQL == "":
			return nil, fmt.Errorf("migration %04d has no up file", m.Version)
		case m.DownSQL == "":
			return nil, fmt.Errorf("migration %04d has no down file", m.Version)
		}
		out = append(out, *m)
	}

	slices.SortFunc(out, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	return out, nil
}

// migrateUp applies every migration not yet recorded in schema_migrations.
func migrateUp(ctx context.Context, conn *sql.DB) error {
	migrations, applied, err := migrationState(ctx, conn)
	if err != nil {
		return err
	}

	logger := logging.Component("db")
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		logger.Info().Int("version", m.Version).Str("name", m.Name).Msg("applying migration")
		err := step(ctx, conn, m.UpSQL,
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Name, time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("migration %04d (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

// MigrateDown reverts the n most recently applied migrations, newest first.
func MigrateDown(ctx context.Context, conn *sql.DB, n int) error {
	if n <= 0 {
		return fmt.Errorf("n must be positive, got %d", n)
	}

	migrations, applied, err := migrationState(ctx, conn)
	if err != nil {
		return err
	}

	var revert []Migration
	for _, m := range slices.Backward(migrations) {
		if applied[m.Version] {
			revert = append(revert, m)
		}
	}
	if n > len(revert) {
		return fmt.Errorf("requested %d down migrations but only %d are applied", n, len(revert))
	}

	logger := logging.Component("db")
	for _, m := range revert[:n] {
		logger.Info().Int("version", m.Version).Str("name", m.Name).Msg("reverting migration")
		err := step(ctx, conn, m.DownSQL,
			"DELETE FROM schema_migrations WHERE version = ?", m.Version,
		)
		if err != nil {
			return fmt.Errorf("revert migration %04d (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

// migrationState loads the embedded migrations and the set of applied
// versions, creating the tracking table on first use.
func migrationState(ctx context.Context, conn *sql.DB) ([]Migration, map[int]bool, error) {
	migrations, err := loadMigrations()
	if err != nil {
		return nil, nil, fmt.Errorf("load migrations: %w", err)
	}

	_, err = conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, conn)
	if err != nil {
		return nil, nil, err
	}
	return migrations, applied, nil
}

func appliedVersions(ctx context.Context, conn *sql.DB) (map[int]bool, error) {
	rows, err := conn.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query applied versions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// step runs schema SQL and its bookkeeping statement in one transaction.
func step(ctx context.Context, conn *sql.DB, schema, record string, args ...any) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("exec schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		return fmt.Errorf("record version: %w", err)
	}

	return tx.Commit()
}
