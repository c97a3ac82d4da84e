package database

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// ProofChangesChannel is the LISTEN/NOTIFY channel the proofs trigger
// publishes challenge ids on
const ProofChangesChannel = "proof_changes"

// PostgresDialect talks to PostgreSQL through lib/pq
type PostgresDialect struct{}

func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) DriverName() string                   { return "postgres" }
func (d *PostgresDialect) DSN(config DialectConfig) string      { return config.URL }
func (d *PostgresDialect) RewriteQuery(query string) string     { return numberPlaceholders(query) }
func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error { return defaultPool.apply(db) }
func (d *PostgresDialect) MigrationsSubdir() string             { return "postgres" }
func (d *PostgresDialect) SupportsNotify() bool                 { return true }

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT UNIQUE NOT NULL,
			executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`
}
