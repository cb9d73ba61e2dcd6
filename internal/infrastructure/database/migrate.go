package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver for database/sql

	"library-backend/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrationLockID is the pg advisory lock key held while migrations run.
const migrationLockID = 724_311_508

type Migration struct {
	Version int
	Name    string
	SQL     string
}

type MigrationStatus struct {
	Version   int        `db:"version"`
	Name      string     `db:"name"`
	AppliedAt *time.Time `db:"applied_at"`
}

// LoadMigrations returns the embedded migrations ordered by version.
func LoadMigrations() ([]Migration, error) {
	return loadMigrations(migrationFiles, "migrations")
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	seen := make(map[int]string, len(entries))
	migrations := make([]Migration, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version, name, err := parseMigrationName(e.Name())
		if err != nil {
			return nil, err
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", version, other, e.Name())
		}
		seen[version] = e.Name()

		body, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		migrations = append(migrations, Migration{Version: version, Name: name, SQL: string(body)})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// parseMigrationName splits "0001_init.sql" into (1, "init").
func parseMigrationName(file string) (int, string, error) {
	base := strings.TrimSuffix(file, ".sql")
	prefix, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("invalid migration file name %q, want NNNN_name.sql", file)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, "", fmt.Errorf("invalid migration version in %q", file)
	}
	return version, name, nil
}

// OpenSQLX mở kết nối database/sql qua lib/pq cho migration tool
func OpenSQLX(ctx context.Context, cfg *DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

type Migrator struct {
	db         *sqlx.DB
	migrations []Migration
}

func NewMigrator(db *sqlx.DB, migrations []Migration) *Migrator {
	return &Migrator{db: db, migrations: migrations}
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// Up applies every pending migration, each in its own transaction.
// It returns the migrations that were applied by this call.
func (m *Migrator) Up(ctx context.Context) ([]Migration, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}

	var applied []Migration
	for _, mig := range m.migrations {
		ok, err := m.apply(ctx, mig)
		if err != nil {
			return applied, err
		}
		if ok {
			applied = append(applied, mig)
			logger.Info("migration applied", map[string]interface{}{
				"version": mig.Version,
				"name":    mig.Name,
			})
		}
	}
	return applied, nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) (bool, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin migration %d: %w", mig.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockID); err != nil {
		return false, fmt.Errorf("lock migrations: %w", err)
	}

	var exists bool
	if err := tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, mig.Version); err != nil {
		return false, fmt.Errorf("check migration %d: %w", mig.Version, err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, mig.SQL); err != nil {
		return false, fmt.Errorf("apply migration %d_%s: %w", mig.Version, mig.Name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name); err != nil {
		return false, fmt.Errorf("record migration %d: %w", mig.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit migration %d: %w", mig.Version, err)
	}
	return true, nil
}

// Status lists every known migration with its applied time (nil if pending).
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}

	var rows []MigrationStatus
	if err := m.db.SelectContext(ctx, &rows,
		`SELECT version, name, applied_at FROM schema_migrations ORDER BY version`); err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}

	applied := make(map[int]MigrationStatus, len(rows))
	for _, r := range rows {
		applied[r.Version] = r
	}

	out := make([]MigrationStatus, 0, len(m.migrations))
	for _, mig := range m.migrations {
		if r, ok := applied[mig.Version]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, MigrationStatus{Version: mig.Version, Name: mig.Name})
	}
	return out, nil
}
