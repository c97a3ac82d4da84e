package database

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDialect talks to a local SQLite file through go-sqlite3
type SQLiteDialect struct{}

func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) DriverName() string { return "sqlite3" }

// DSN turns on foreign keys, WAL and a busy timeout for every pooled
// connection; PRAGMAs issued through the pool would reach only one.
func (d *SQLiteDialect) DSN(config DialectConfig) string {
	sep := "?"
	if strings.Contains(config.Path, "?") {
		sep = "&"
	}
	return config.Path + sep + "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
}

func (d *SQLiteDialect) RewriteQuery(query string) string     { return query }
func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error { return defaultPool.apply(db) }
func (d *SQLiteDialect) MigrationsSubdir() string             { return "sqlite" }
func (d *SQLiteDialect) SupportsNotify() bool                 { return false }

func (d *SQLiteDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT UNIQUE NOT NULL,
			executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
}
