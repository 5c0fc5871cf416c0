package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"kenshidata/lib/sqliteutil"
	"kenshidata/services/gamedata/db"
)

// openDatabase opens the output database and ensures the schema is in
// place. With rebuild set, a local database file is removed outright
// before opening while a remote one is wiped table by table.
func openDatabase(ctx context.Context, target string, rebuild bool) (*sql.DB, error) {
	if rebuild && !sqliteutil.IsRemote(target) && target != ":memory:" {
		for _, path := range []string{target, target + "-wal", target + "-shm"} {
			err := os.Remove(path)
			if err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("rebuild: %w", err)
			}
		}
	}

	database, err := sqliteutil.Open(target)
	if err != nil {
		return nil, err
	}
	err = db.Prepare(ctx, database)
	if err != nil {
		database.Close()
		return nil, err
	}

	if rebuild && sqliteutil.IsRemote(target) {
		err = db.Wipe(ctx, database)
		if err != nil {
			database.Close()
			return nil, err
		}
	}

	return database, nil
}
