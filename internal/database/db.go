package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lingoplay/internal/config"
)

const pingTimeout = 5 * time.Second

// DB is the client-state database. Queries are written with ? placeholders
// and rewritten for the active dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Initialize opens a SQLite database file
func Initialize(dbPath string) (*DB, error) {
	return Open(SQLite, dbPath)
}

// InitializeWithConfig opens the database selected by DB_TYPE. SQLite uses
// DB_PATH, the others DATABASE_URL.
func InitializeWithConfig(cfg *config.Config) (*DB, error) {
	dialect, err := DialectFor(cfg.DatabaseType)
	if err != nil {
		return nil, err
	}
	source := cfg.DatabaseURL
	if dialect.Name == SQLite.Name {
		source = cfg.DatabasePath
	}
	return Open(dialect, source)
}

// Open connects with dialect, checks the connection and applies the
// dialect's pool limits and session settings
func Open(dialect Dialect, source string) (*DB, error) {
	db, err := sql.Open(dialect.Driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect.Name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect.Name, err)
	}

	db.SetMaxOpenConns(dialect.maxOpenConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)

	for _, stmt := range dialect.setup {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to configure %s connection: %w", dialect.Name, err)
		}
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// QueryRow runs a single-row query after placeholder rewriting
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRow(db.Dialect.Rewrite(query), args...)
}

// Exec runs a statement after placeholder rewriting
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.DB.Exec(db.Dialect.Rewrite(query), args...)
}
