package database

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSchemaCreation(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "seokit.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for _, table := range []string{"seo_settings", "audit_log", "pages", "posts", "projects"} {
		var count int
		if err := db.SQL().QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Errorf("%s table missing: %v", table, err)
		}
	}
}

func TestSingletonConstraint(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "seokit.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.SQL().Exec(`INSERT INTO seo_settings (id, site_name, base_url) VALUES (2, 'x', 'https://x.example')`); err == nil {
		t.Fatal("expected CHECK constraint to reject a second settings row")
	}
}

func TestOpenCreatesDirectoryAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "seokit.db")
	db, err := Open(Options{SQLitePath: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	db.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file not created: %v", err)
	}
	db, err = Open(Options{SQLitePath: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	db.Close()
}
