package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"kenshidata/lib/serviceutil"
	"kenshidata/services/gamedata/images"
	"kenshidata/services/gamedata/store"
)

var imagesDb *string
var imagesDir *string
var imagesWorkers *int

func init() {
	imagesDb = imagesCmd.Flags().String("db", "kenshidata.db", "The database holding image references.")
	imagesDir = imagesCmd.Flags().String("images", "images", "The directory to download images into.")
	imagesWorkers = imagesCmd.Flags().Int("workers", 8, "The number of images downloaded concurrently.")
	rootCmd.AddCommand(imagesCmd)
}

var imagesCmd = &cobra.Command{
	Use:   "images [--db <path/to/output.db>]",
	Short: "Downloads every image referenced by the database, skipping ones already on disk.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database, err := openDatabase(ctx, *imagesDb, false)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		downloader := images.NewDownloader(images.Options{
			Store: store.NewStore(database),
			Dir:   *imagesDir,
		})

		t1 := time.Now()
		report, err := downloader.Run(ctx, *imagesWorkers)
		t2 := time.Now()

		renderImageReport(report)
		slog.Info("download time", "seconds", t2.Sub(t1).Seconds())

		if err != nil {
			serviceutil.Fatal("download aborted", err)
		}
	},
}
