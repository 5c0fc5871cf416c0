package commands

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/spf13/cobra"

	"kenshidata/lib/configutil"
	"kenshidata/lib/restyutil"
	"kenshidata/lib/scrapers/fandom"
	"kenshidata/lib/scrapers/fandom/extract"
	"kenshidata/lib/serviceutil"
	"kenshidata/services/gamedata/crawler"
	"kenshidata/services/gamedata/images"
	"kenshidata/services/gamedata/store"
)

type Config struct {
	BaseUrl    string   `json:"base_url"`
	IndexPages []string `json:"index_pages"`
	Workers    int      `json:"workers"`
}

var defaultConfig = Config{
	BaseUrl: "https://kenshi.fandom.com",
	IndexPages: []string{
		"Weapons",
		"Armour",
		"Items",
		"Creatures",
		"Locations",
	},
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if errors.Is(err, os.ErrNotExist) {
		return defaultConfig
	}
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.BaseUrl == "" {
		cfg.BaseUrl = defaultConfig.BaseUrl
	}
	if len(cfg.IndexPages) == 0 {
		cfg.IndexPages = defaultConfig.IndexPages
	}
	return cfg
}

var crawlDb *string
var crawlImages *string
var crawlCache *string
var crawlWorkers *int
var crawlKind *string
var crawlLimit *int
var crawlRebuild *bool
var crawlDebugDump *bool

func init() {
	crawlDb = crawlCmd.Flags().String("db", "kenshidata.db", "The database to write crawl results to.")
	crawlImages = crawlCmd.Flags().String("images", "images", "The directory to download images into, empty skips the download stage.")
	crawlCache = crawlCmd.Flags().String("cache", ".kenshidata-cache", "The page cache directory, empty disables caching.")
	crawlWorkers = crawlCmd.Flags().Int("workers", 0, "The number of pages fetched concurrently, 0 uses the config value.")
	crawlKind = crawlCmd.Flags().String("kind", "", "Only store pages of this kind (item, creature or location).")
	crawlLimit = crawlCmd.Flags().Int("limit", 0, "Stop after this many pages, 0 crawls everything.")
	crawlRebuild = crawlCmd.Flags().Bool("rebuild", false, "Discard the existing database and page cache before crawling.")
	crawlDebugDump = crawlCmd.Flags().Bool("debug-dump", false, "Dump every request/response pair to .dev/resty/crawl.")
	rootCmd.AddCommand(crawlCmd)
}

func parseKind(value string) extract.Kind {
	switch value {
	case "":
		return ""
	case string(extract.KindItem):
		return extract.KindItem
	case string(extract.KindCreature):
		return extract.KindCreature
	case string(extract.KindLocation):
		return extract.KindLocation
	}
	serviceutil.Fatal("invalid --kind", errors.New("expected one of: item, creature, location"))
	return ""
}

func openCache(path string, rebuild bool) *badger.DB {
	if path == "" {
		return nil
	}
	if rebuild {
		err := os.RemoveAll(path)
		if err != nil {
			serviceutil.Fatal("failed to clear page cache", err)
		}
	}
	cache, err := badger.Open(badger.DefaultOptions(path))
	if err != nil {
		serviceutil.Fatal("failed to open page cache", err)
	}
	return cache
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [--db <path/to/output.db>]",
	Short: "Crawls the wiki and writes entities, relationships and images to a database.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg := readConfig()
		kind := parseKind(*crawlKind)

		workers := *crawlWorkers
		if workers == 0 {
			workers = cfg.Workers
		}

		var instrument restyutil.InstrumentOutput
		if *crawlDebugDump {
			instrument = restyutil.NewFilesystemOutput(".dev/resty/crawl")
		}

		cache := openCache(*crawlCache, *crawlRebuild)
		if cache != nil {
			defer cache.Close()
		}

		client, err := fandom.NewClient(fandom.ClientOptions{
			BaseUrl:          cfg.BaseUrl,
			Cache:            cache,
			InstrumentOutput: instrument,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize wiki client", err)
		}

		database, err := openDatabase(ctx, *crawlDb, *crawlRebuild)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()
		entities := store.NewStore(database)

		var downloader *images.Downloader
		if *crawlImages != "" {
			downloader = images.NewDownloader(images.Options{
				Store:            entities,
				Dir:              *crawlImages,
				InstrumentOutput: instrument,
			})
		}

		indexes := make([]fandom.PageRef, len(cfg.IndexPages))
		for i, title := range cfg.IndexPages {
			indexes[i] = fandom.RefFromTitle(title)
		}

		c := crawler.New(crawler.Options{
			Client:  client,
			Store:   entities,
			Images:  downloader,
			Indexes: indexes,
			Workers: workers,
			Kind:    kind,
			Limit:   *crawlLimit,
		})

		t1 := time.Now()
		summary, err := c.Run(ctx)
		t2 := time.Now()

		renderRunSummary(summary)
		slog.Info("crawling time", "seconds", t2.Sub(t1).Seconds())

		if err != nil {
			serviceutil.Fatal("crawl aborted", err)
		}
	},
}
