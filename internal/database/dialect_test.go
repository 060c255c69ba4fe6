package database

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		kind       string
		wantDriver string
		wantErr    bool
	}{
		{"", "sqlite3", false},
		{"sqlite", "sqlite3", false},
		{"PostgreSQL", "postgres", false},
		{"mysql", "mysql", false},
		{"oracle", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			d, err := DialectFor(tt.kind)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DialectFor(%q) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
			}
			if d.Driver != tt.wantDriver {
				t.Errorf("DialectFor(%q).Driver = %v, want %v", tt.kind, d.Driver, tt.wantDriver)
			}
		})
	}
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{"sqlite keeps ?", SQLite, "SELECT locale FROM client_sessions WHERE id = ?", "SELECT locale FROM client_sessions WHERE id = ?"},
		{"postgres numbers", Postgres, "UPDATE client_sessions SET locale = ?, last_skip = ? WHERE id = ?", "UPDATE client_sessions SET locale = $1, last_skip = $2 WHERE id = $3"},
		{"mysql keeps ?", MySQL, "DELETE FROM client_sessions WHERE expires_at < ?", "DELETE FROM client_sessions WHERE expires_at < ?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.Rewrite(tt.query); got != tt.want {
				t.Errorf("Rewrite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpsertSettingsUsesDialectSyntax(t *testing.T) {
	tests := []struct {
		dialect  Dialect
		contains string
	}{
		{SQLite, "ON CONFLICT(name)"},
		{Postgres, "EXCLUDED.value"},
		{MySQL, "ON DUPLICATE KEY UPDATE"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.Name, func(t *testing.T) {
			if query := tt.dialect.UpsertSettings(); !strings.Contains(query, tt.contains) {
				t.Errorf("UpsertSettings() = %q, want it to contain %q", query, tt.contains)
			}
		})
	}
}

func TestSplitStatements(t *testing.T) {
	content := `-- sessions
CREATE TABLE a (id TEXT);

CREATE INDEX idx_a ON a(id);
`
	got := splitStatements(content)
	if len(got) != 2 {
		t.Fatalf("splitStatements() returned %d statements, want 2: %q", len(got), got)
	}
	if got[0] != "CREATE TABLE a (id TEXT)" {
		t.Errorf("first statement = %q", got[0])
	}
}

func TestMigrateFromFS(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := Initialize(t.TempDir() + "/fs.db")
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"sqlite/001_notes.sql":  {Data: []byte("CREATE TABLE notes (id TEXT PRIMARY KEY);")},
		"sqlite/002_broken.sql": {Data: []byte("CREATE TABLE tags (id TEXT);\nNOT VALID SQL;")},
		"postgres/001_x.sql":    {Data: []byte("SELECT nonsense")},
	}

	if err := db.Migrate(fsys); err == nil {
		t.Fatal("Migrate() should fail on the broken file")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("recorded migrations = %d, want 1", count)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name = 'tags'").Scan(&count); err != nil {
		t.Fatalf("look up tags: %v", err)
	}
	if count != 0 {
		t.Error("a failed migration should be rolled back")
	}
}
