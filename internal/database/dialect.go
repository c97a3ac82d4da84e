package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect hides the differences between the supported SQL engines
type Dialect interface {
	DriverName() string
	DSN(config DialectConfig) string

	// RewriteQuery turns the ? placeholders repositories write into the
	// engine's own syntax.
	RewriteQuery(query string) string

	ConfigureConnection(db *sql.DB) error
	MigrationsSubdir() string
	CreateMigrationsTableQuery() string

	// SupportsNotify reports whether the engine pushes proof change
	// notifications itself (LISTEN/NOTIFY).
	SupportsNotify() bool
}

// DialectConfig holds connection settings. SQLite reads Path; the network
// engines read URL.
type DialectConfig struct {
	Path string
	URL  string
}

// pool holds connection pool limits for one engine
type pool struct {
	maxOpen, maxIdle   int
	lifetime, idleTime time.Duration
	setup              []string
}

var defaultPool = pool{maxOpen: 25, maxIdle: 5, lifetime: 5 * time.Minute, idleTime: time.Minute}

func (p pool) apply(db *sql.DB) error {
	db.SetMaxOpenConns(p.maxOpen)
	db.SetMaxIdleConns(p.maxIdle)
	db.SetConnMaxLifetime(p.lifetime)
	db.SetConnMaxIdleTime(p.idleTime)
	for _, stmt := range p.setup {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// numberPlaceholders converts ? placeholders to $1, $2, ...
func numberPlaceholders(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
