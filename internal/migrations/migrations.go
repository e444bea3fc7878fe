// Package migrations applies the embedded SQL schema in file-name order.
package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/m04kA/SMC-MarketplaceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceService/pkg/psqlbuilder"
)

//go:embed sql/*.sql
var files embed.FS

const createVersionsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    VARCHAR(255) PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// ErrMigration возвращается, когда миграцию не удалось применить
var ErrMigration = errors.New("migrations: failed to apply migration")

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Migrator применяет встроенные миграции
type Migrator struct {
	db     dbmetrics.DBExecutor
	logger Logger
}

// NewMigrator создает мигратор
func NewMigrator(db dbmetrics.DBExecutor, logger Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// Versions возвращает имена файлов миграций по порядку
func Versions() ([]string, error) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			versions = append(versions, e.Name())
		}
	}
	sort.Strings(versions)
	return versions, nil
}

// Up применяет все еще не примененные миграции и возвращает их имена
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	if _, err := m.db.ExecContext(ctx, createVersionsTable); err != nil {
		return nil, fmt.Errorf("%w: create schema_migrations: %v", ErrMigration, err)
	}

	done, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	versions, err := Versions()
	if err != nil {
		return nil, fmt.Errorf("%w: list embedded files: %v", ErrMigration, err)
	}

	applied := make([]string, 0)
	for _, version := range versions {
		if done[version] {
			continue
		}

		body, err := files.ReadFile("sql/" + version)
		if err != nil {
			return applied, fmt.Errorf("%w: read %s: %v", ErrMigration, version, err)
		}
		if _, err := m.db.ExecContext(ctx, string(body)); err != nil {
			return applied, fmt.Errorf("%w: %s: %v", ErrMigration, version, err)
		}

		query, args, err := psqlbuilder.Insert("schema_migrations").
			Columns("version").
			Values(version).
			ToSql()
		if err != nil {
			return applied, fmt.Errorf("%w: build insert for %s: %v", ErrMigration, version, err)
		}
		if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
			return applied, fmt.Errorf("%w: record %s: %v", ErrMigration, version, err)
		}

		m.logger.Info("Migrations: applied %s", version)
		applied = append(applied, version)
	}

	return applied, nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[string]bool, error) {
	query, args, err := psqlbuilder.Select("version").From("schema_migrations").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build select: %v", ErrMigration, err)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: read schema_migrations: %v", ErrMigration, err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("%w: scan version: %v", ErrMigration, err)
		}
		done[version] = true
	}
	return done, rows.Err()
}
