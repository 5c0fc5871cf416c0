package commands

import (
	"github.com/spf13/cobra"

	"kenshidata/lib/serviceutil"
	"kenshidata/services/gamedata/store"
)

var summaryDb *string

func init() {
	summaryDb = summaryCmd.Flags().String("db", "kenshidata.db", "The database to summarize.")
	rootCmd.AddCommand(summaryCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary [--db <path/to/output.db>]",
	Short: "Prints entity, relationship and image counts for a database.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database, err := openDatabase(ctx, *summaryDb, false)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		summary, err := store.NewStore(database).Summary(ctx)
		if err != nil {
			serviceutil.Fatal("failed to summarize db", err)
		}

		renderStoreSummary(summary)
	},
}
