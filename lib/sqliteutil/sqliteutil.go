package sqliteutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// OpenDB opens (creating if necessary) a sqlite database and applies
// the given schema. re-applying a schema over an existing database is
// fine; "already exists" errors are ignored.
func OpenDB(schema, path string) (*sql.DB, error) {
	if path != ":memory:" {
		os.MkdirAll(filepath.Dir(path), 0755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// see https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return nil, err
	}
	return db, nil
}
