package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"runpool/internal/config"
)

// DB wraps the database connection with dialect support
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open creates and configures a connection for the given dialect
func Open(ctx context.Context, dialect Dialect, dialectConfig DialectConfig) (*DB, error) {
	db, err := sql.Open(dialect.DriverName(), dialect.DSN(dialectConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Apply dialect-specific configuration
	if err := dialect.ConfigureConnection(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// InitializeWithConfig creates and configures the database connection based
// on config. Missing connection settings are reported as a
// *config.ConfigurationError so callers can tell them from network failures.
func InitializeWithConfig(ctx context.Context, cfg *config.Config) (*DB, error) {
	dialect, dialectConfig, err := DialectFor(cfg)
	if err != nil {
		return nil, err
	}
	return Open(ctx, dialect, dialectConfig)
}

// DialectFor resolves the dialect and connection settings named by config
func DialectFor(cfg *config.Config) (Dialect, DialectConfig, error) {
	switch strings.ToLower(cfg.DatabaseType) {
	case "postgres", "postgresql":
		if cfg.DatabaseURL == "" {
			return nil, DialectConfig{}, &config.ConfigurationError{Setting: "DATABASE_URL", Reason: "is required when DB_TYPE=postgres"}
		}
		return NewPostgresDialect(), DialectConfig{URL: cfg.DatabaseURL}, nil
	case "mysql":
		if cfg.DatabaseURL == "" {
			return nil, DialectConfig{}, &config.ConfigurationError{Setting: "DATABASE_URL", Reason: "is required when DB_TYPE=mysql"}
		}
		return NewMySQLDialect(), DialectConfig{URL: cfg.DatabaseURL}, nil
	case "sqlite", "sqlite3", "":
		if cfg.DatabasePath == "" {
			return nil, DialectConfig{}, &config.ConfigurationError{Setting: "DB_PATH"}
		}
		return NewSQLiteDialect(), DialectConfig{Path: cfg.DatabasePath}, nil
	default:
		return nil, DialectConfig{}, &config.ConfigurationError{Setting: "DB_TYPE", Reason: fmt.Sprintf("has unsupported value %q", cfg.DatabaseType)}
	}
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// QueryContext executes a query with automatic placeholder rewriting
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, db.Dialect.RewriteQuery(query), args...)
}

// QueryRowContext executes a query that returns a single row with automatic placeholder rewriting
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, db.Dialect.RewriteQuery(query), args...)
}

// ExecContext executes a query that doesn't return rows with automatic placeholder rewriting
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.DB.ExecContext(ctx, db.Dialect.RewriteQuery(query), args...)
}
