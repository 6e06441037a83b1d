// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the bookbrainz schema migrations with golang-migrate.
//
// # Architecture
//
// This package belongs to the Infrastructure layer. The schema and its reference
// data are brought up to date at startup, before the API serves traffic. Version
// bookkeeping lives in [VersionTable] in the public schema, because the first
// migration is the one that creates the bookbrainz schema.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// VersionTable records the applied migration version.
const VersionTable = "libris_schema_migrations"

// RunUp applies all pending UP migrations.
//
// # Parameters
//   - dsn: A libpq-compatible postgres:// URL.
//   - migrationsPath: Filesystem path to the migrations directory.
//   - logger: Structured logger for migration events.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	logger = logger.With(slog.String("component", "migration"), slog.String("path", migrationsPath))

	databaseURL, err := DatabaseURL(dsn)
	if err != nil {
		return err
	}

	migrator, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceError, dbError := migrator.Close()
		if sourceError != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
		}
		if dbError != nil {
			logger.Error("migration_db_close_failed", slog.Any("error", dbError))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger}

	currentVersion, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to get current version: %w", err)
	}

	if isDirty {
		return fmt.Errorf("migration: schema is dirty at version %d; fix %s by hand", currentVersion, VersionTable)
	}

	logger.Info("schema_migration_started", slog.Uint64("current_version", uint64(currentVersion)))

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("schema_up_to_date", slog.Uint64("version", uint64(currentVersion)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	logger.Info("schema_migrated",
		slog.Uint64("from_version", uint64(currentVersion)),
		slog.Uint64("to_version", uint64(newVersion)),
	)

	return nil
}

// DatabaseURL rewrites a postgres:// or postgresql:// URL for the pgx5 migrate
// driver and points it at [VersionTable]. A pgx5:// URL only gains the table.
func DatabaseURL(dsn string) (string, error) {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			dsn = "pgx5://" + rest
			break
		}
	}

	parsed, err := url.Parse(dsn)
	if err != nil || parsed.Scheme != "pgx5" {
		return "", fmt.Errorf("migration: DATABASE_URL must be a postgres:// URL")
	}

	query := parsed.Query()
	query.Set("x-migrations-table", VersionTable)
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger *slog.Logger
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("schema_migration_step", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return false
}
