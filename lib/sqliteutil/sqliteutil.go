package sqliteutil

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

func wrapOpen(err error) error {
	return fmt.Errorf("open db: %w", err)
}

// IsRemote reports whether a database target names a remote libsql
// database rather than a local file.
func IsRemote(target string) bool {
	return strings.HasPrefix(target, "libsql://") ||
		strings.HasPrefix(target, "wss://") ||
		strings.HasPrefix(target, "https://")
}

// Open opens a database by target. A `libsql://` (or ws/http) url opens a
// remote libsql database, anything else is treated as a local sqlite file
// path, created along with its parent directories if missing.
func Open(target string) (*sql.DB, error) {
	if IsRemote(target) {
		db, err := sql.Open("libsql", target)
		if err != nil {
			return nil, wrapOpen(err)
		}
		db.SetMaxOpenConns(1)
		return db, nil
	}

	if target != ":memory:" {
		os.MkdirAll(filepath.Dir(target), 0777)
	}

	db, err := sql.Open("sqlite", target)
	if err != nil {
		return nil, wrapOpen(err)
	}

	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, wrapOpen(err)
	}
	_, err = db.Exec("PRAGMA foreign_keys=ON")
	if err != nil {
		return nil, wrapOpen(err)
	}

	return db, nil
}

