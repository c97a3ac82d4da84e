package database

import (
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLDialect talks to MySQL through go-sql-driver
type MySQLDialect struct{}

func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

// DSN forces parseTime (DATE columns scan into time.Time) and
// multiStatements (migration files hold several statements).
func (d *MySQLDialect) DSN(config DialectConfig) string {
	cfg, err := mysql.ParseDSN(config.URL)
	if err != nil {
		// sql.Open reports the malformed DSN
		return config.URL
	}
	cfg.ParseTime = true
	cfg.MultiStatements = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	return cfg.FormatDSN()
}

func (d *MySQLDialect) RewriteQuery(query string) string { return query }

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	p := defaultPool
	p.setup = []string{"SET FOREIGN_KEY_CHECKS = 1"}
	return p.apply(db)
}

func (d *MySQLDialect) MigrationsSubdir() string {
	return "mysql"
}

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		);
	`
}

func (d *MySQLDialect) SupportsNotify() bool {
	return false
}
