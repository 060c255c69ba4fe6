package database

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect holds the SQL that differs between the supported databases
type Dialect struct {
	// Name doubles as the migrations subdirectory
	Name   string
	Driver string

	numbered        bool
	maxOpenConns    int
	setup           []string
	migrationsTable string
	upsertSettings  string
}

var (
	SQLite = Dialect{
		Name:         "sqlite",
		Driver:       "sqlite3",
		maxOpenConns: 10,
		// writers wait up to 5s for the lock
		setup: []string{
			"PRAGMA journal_mode=WAL;",
			"PRAGMA busy_timeout=5000;",
			"PRAGMA foreign_keys=ON;",
		},
		migrationsTable: `CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT UNIQUE NOT NULL,
			executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		upsertSettings: "INSERT INTO settings (name, value) VALUES (?, ?) " +
			"ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP",
	}

	Postgres = Dialect{
		Name:         "postgres",
		Driver:       "postgres",
		numbered:     true,
		maxOpenConns: 25,
		migrationsTable: `CREATE TABLE IF NOT EXISTS migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT UNIQUE NOT NULL,
			executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		upsertSettings: "INSERT INTO settings (name, value) VALUES (?, ?) " +
			"ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP",
	}

	MySQL = Dialect{
		Name:         "mysql",
		Driver:       "mysql",
		maxOpenConns: 25,
		setup:        []string{"SET FOREIGN_KEY_CHECKS = 1;"},
		migrationsTable: `CREATE TABLE IF NOT EXISTS migrations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		)`,
		upsertSettings: "INSERT INTO settings (name, `value`) VALUES (?, ?) " +
			"ON DUPLICATE KEY UPDATE `value` = VALUES(`value`), updated_at = CURRENT_TIMESTAMP",
	}
)

// DialectFor maps a DB_TYPE value to its dialect
func DialectFor(kind string) (Dialect, error) {
	switch strings.ToLower(kind) {
	case "sqlite", "sqlite3", "":
		return SQLite, nil
	case "postgres", "postgresql":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database type: %s", kind)
	}
}

// Rewrite converts ? placeholders for drivers that want $1, $2, ...
func (d Dialect) Rewrite(query string) string {
	if !d.numbered {
		return query
	}
	return rewritePlaceholdersToNumbered(query)
}

// UpsertSettings inserts or replaces one settings row
func (d Dialect) UpsertSettings() string {
	return d.upsertSettings
}

var placeholderRegexp = regexp.MustCompile(`\?`)

func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
