package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// Version is stamped into the database's user_version pragma when the
// schema is first applied. Bump it on any schema change.
const Version = 1

// Prepare brings a freshly opened database up to the current schema. A
// brand new database gets the schema applied and stamped, a database
// stamped by the same build is left untouched, any other version is
// refused so stale files get rebuilt deliberately instead of silently
// migrated.
func Prepare(ctx context.Context, database *sql.DB) error {
	var version int64
	err := database.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	switch {
	case version == Version:
		return nil
	case version == 0:
		if _, err := database.ExecContext(ctx, Schema); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		_, err = database.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", Version))
		if err != nil {
			return fmt.Errorf("stamp schema version: %w", err)
		}
		return nil
	case version < Version:
		return fmt.Errorf("database schema version is %d, this build wants %d: re-run with --rebuild", version, Version)
	default:
		return fmt.Errorf("database schema version is %d, which is newer than this build understands (%d)", version, Version)
	}
}

// Wipe empties every table so a rebuild starts from scratch while the
// schema and version stamp stay in place.
func Wipe(ctx context.Context, database *sql.DB) error {
	// children before parents so foreign keys hold throughout
	tables := []string{
		"variant_stats",
		"item_variants",
		"entity_fields",
		"relationships",
		"pending_references",
		"image_assets",
		"items",
		"creatures",
		"locations",
		"entities",
	}
	for _, table := range tables {
		if _, err := database.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("wipe %s: %w", table, err)
		}
	}
	return nil
}
