package database

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"sort"
	"strings"
)

// RunMigrations applies the pending migrations under migrationsPath/<dialect>
func (db *DB) RunMigrations(migrationsPath string) error {
	return db.Migrate(os.DirFS(migrationsPath))
}

// Migrate applies every <dialect>/*.sql file of fsys not yet recorded, in
// name order. Each file runs in its own transaction together with its record.
func (db *DB) Migrate(fsys fs.FS) error {
	if _, err := db.Exec(db.Dialect.migrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	files, err := fs.Glob(fsys, path.Join(db.Dialect.Name, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(files)

	applied, err := db.appliedMigrations()
	if err != nil {
		return err
	}

	for _, file := range files {
		name := path.Base(file)
		if applied[name] {
			continue
		}
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if err := db.apply(name, string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		log.Printf("Migration completed: %s", name)
	}
	return nil
}

func (db *DB) appliedMigrations() (map[string]bool, error) {
	rows, err := db.DB.Query("SELECT filename FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// apply runs the statements one at a time; MySQL rejects multi-statement
// Exec unless the DSN opts in
func (db *DB) apply(name, content string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(content) {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(db.Dialect.Rewrite("INSERT INTO migrations (filename) VALUES (?)"), name); err != nil {
		return err
	}
	return tx.Commit()
}

// splitStatements breaks a file on semicolons, dropping empty statements and
// whole-line "--" comments
func splitStatements(content string) []string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "--") {
			kept = append(kept, line)
		}
	}

	var statements []string
	for _, stmt := range strings.Split(strings.Join(kept, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
