package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"kenshidata/lib/serviceutil"
	"kenshidata/services/gamedata/store"
)

var resolveDb *string

func init() {
	resolveDb = resolveCmd.Flags().String("db", "kenshidata.db", "The database holding pending references.")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [--db <path/to/output.db>]",
	Short: "Retries pending cross references against the entities stored so far.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database, err := openDatabase(ctx, *resolveDb, false)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		report, err := store.NewStore(database).ResolvePending(ctx)
		if err != nil {
			serviceutil.Fatal("failed to resolve pending references", err)
		}

		slog.Info("resolved pending references", "resolved", report.Resolved, "remaining", report.Remaining)
	},
}
