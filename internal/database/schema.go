// Package database opens the seokit SQLite (or libSQL) database and applies the schema.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// The content tables are owned by the CMS core; seokit only creates them when
// missing so that it can run standalone.
const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS seo_settings (
	id                         INTEGER PRIMARY KEY CHECK (id = 1),
	site_name                  TEXT NOT NULL,
	base_url                   TEXT NOT NULL,
	global_meta_title          TEXT NOT NULL DEFAULT '',
	global_meta_description    TEXT NOT NULL DEFAULT '',
	global_keywords            TEXT NOT NULL DEFAULT '',
	default_social_share_image TEXT NOT NULL DEFAULT '',
	robots_txt_content         TEXT NOT NULL DEFAULT '',
	google_analytics_id        TEXT NOT NULL DEFAULT '',
	google_tag_manager_id      TEXT NOT NULL DEFAULT '',
	favicon_url                TEXT NOT NULL DEFAULT '',
	updated_at                 DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS audit_log (
	id         TEXT PRIMARY KEY,
	action     TEXT NOT NULL,
	actor      TEXT NOT NULL,
	target     TEXT NOT NULL,
	diff       TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log(created_at);

CREATE TABLE IF NOT EXISTS pages (
	slug             TEXT PRIMARY KEY,
	title            TEXT NOT NULL DEFAULT '',
	meta_description TEXT NOT NULL DEFAULT '',
	social_image     TEXT NOT NULL DEFAULT '',
	is_visible       INTEGER NOT NULL DEFAULT 0,
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS posts (
	slug             TEXT PRIMARY KEY,
	title            TEXT NOT NULL DEFAULT '',
	meta_description TEXT NOT NULL DEFAULT '',
	social_image     TEXT NOT NULL DEFAULT '',
	is_published     INTEGER NOT NULL DEFAULT 0,
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS projects (
	slug             TEXT PRIMARY KEY,
	title            TEXT NOT NULL DEFAULT '',
	meta_description TEXT NOT NULL DEFAULT '',
	social_image     TEXT NOT NULL DEFAULT '',
	is_visible       INTEGER NOT NULL DEFAULT 0,
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Options selects the database backend. A non-empty LibSQLURL takes
// precedence over the local SQLite file.
type Options struct {
	SQLitePath      string
	LibSQLURL       string
	LibSQLAuthToken string
}

// DB wraps a sql.DB shared by the settings, content and audit stores.
type DB struct {
	conn   *sql.DB
	remote bool
	path   string
}

// Open opens (or creates) the database and applies the schema.
func Open(opts Options) (*DB, error) {
	if opts.LibSQLURL != "" {
		return openLibSQL(opts)
	}
	return OpenSQLite(opts.SQLitePath)
}

// OpenSQLite opens a local SQLite file with WAL and a busy timeout.
// Transactions begin IMMEDIATE: writers queue on the busy timeout.
func OpenSQLite(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("database: create dir: %w", err)
		}
	}
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("database: open sqlite: %w", err)
	}
	db := &DB{conn: conn, path: path}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func openLibSQL(opts Options) (*DB, error) {
	dsn := opts.LibSQLURL
	if opts.LibSQLAuthToken != "" {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "authToken=" + opts.LibSQLAuthToken
	}
	conn, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open libsql: %w", err)
	}
	db := &DB{conn: conn, remote: true}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) init() error {
	if err := db.conn.Ping(); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}
	if _, err := db.conn.Exec(coreSchemaSQL); err != nil {
		return fmt.Errorf("database: apply schema: %w", err)
	}
	return nil
}

// SQL returns the underlying connection pool.
func (db *DB) SQL() *sql.DB {
	return db.conn
}

// Path returns the local SQLite file path, or "" for a remote database.
func (db *DB) Path() string {
	if db.remote {
		return ""
	}
	return db.path
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
