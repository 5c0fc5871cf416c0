// Package crawler drives the full pipeline: it enumerates content
// pages from the configured index pages, runs fetch, normalize,
// extract and assemble for each page on a bounded worker pool, and
// persists the results. A final pass resolves the references that were
// still dangling while pages were being ingested, then downloads
// images.
package crawler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"kenshidata/lib/scrapers/fandom"
	"kenshidata/lib/scrapers/fandom/extract"
	"kenshidata/services/gamedata/assemble"
	"kenshidata/services/gamedata/images"
	"kenshidata/services/gamedata/record"
	"kenshidata/services/gamedata/store"
)

var tracer = otel.Tracer("services/gamedata/crawler")

const defaultWorkers = 8

// errKindFiltered marks a page skipped by the kind filter, it is never
// a failure.
var errKindFiltered = errors.New("page kind filtered out")

type Options struct {
	Client *fandom.Client
	Store  *store.Store
	// Images may be nil to skip the download pass.
	Images  *images.Downloader
	Indexes []fandom.PageRef
	Workers int
	// Kind restricts the crawl to pages classifying into one kind.
	// Empty means everything.
	Kind extract.Kind
	// Limit caps the number of pages processed when positive, for
	// debugging runs.
	Limit int
}

type Crawler struct {
	client  *fandom.Client
	store   *store.Store
	images  *images.Downloader
	indexes []fandom.PageRef
	workers int
	kind    extract.Kind
	limit   int
}

func New(opts Options) *Crawler {
	workers := opts.Workers
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Crawler{
		client:  opts.Client,
		store:   opts.Store,
		images:  opts.Images,
		indexes: opts.Indexes,
		workers: workers,
		kind:    opts.Kind,
		limit:   opts.Limit,
	}
}

// Run crawls every enumerated page and reports what happened. Failed
// pages never abort the run, they are classified and carried in the
// summary. Cancelling the context stops scheduling new pages, lets the
// in flight ones finish and returns the context error.
func (c *Crawler) Run(ctx context.Context) (record.RunSummary, error) {
	ctx, span := tracer.Start(ctx, "crawler:Run")
	defer span.End()

	summary := record.RunSummary{
		Started: time.Now().UTC(),
		ByKind:  map[string]int{},
	}

	pages, failures := c.enumerate(ctx)
	summary.Failures = append(summary.Failures, failures...)
	if c.limit > 0 && len(pages) > c.limit {
		pages = pages[:c.limit]
	}
	summary.PagesSeen = len(pages)
	span.SetAttributes(attribute.Int("pages", len(pages)))

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, c.workers)

loop:
	for _, ref := range pages {
		select {
		case <-ctx.Done():
			break loop
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(ref fandom.PageRef) {
			defer wg.Done()
			defer func() { <-sem }()

			kind, err := c.processPage(ctx, ref)
			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, errKindFiltered) {
				summary.PagesSkipped++
				return
			}
			if err != nil {
				class := classifyError(err)
				slog.WarnContext(ctx, "page failed", "page", ref.Slug, "class", class, "err", err)
				summary.Failures = append(summary.Failures, record.PageFailure{
					Slug:  ref.Slug,
					Class: class,
					Err:   err,
				})
				return
			}
			summary.PagesStored++
			summary.ByKind[string(kind)]++
		}(ref)
	}
	wg.Wait()

	c.finalize(ctx, &summary)

	summary.Finished = time.Now().UTC()
	span.SetAttributes(
		attribute.Int("stored", summary.PagesStored),
		attribute.Int("failed", len(summary.Failures)),
	)
	return summary, ctx.Err()
}

// enumerate walks the index pages and collects every unique content
// page they link to.
func (c *Crawler) enumerate(ctx context.Context) ([]fandom.PageRef, []record.PageFailure) {
	var out []fandom.PageRef
	var failures []record.PageFailure
	seen := map[string]struct{}{}

	for _, index := range c.indexes {
		refs, err := c.client.IndexPages(ctx, index)
		if err != nil {
			class := classifyError(err)
			slog.ErrorContext(ctx, "could not enumerate index page",
				"page", index.Slug, "class", class, "err", err)
			failures = append(failures, record.PageFailure{
				Slug:  index.Slug,
				Class: class,
				Err:   err,
			})
			continue
		}
		for _, ref := range refs {
			if _, dup := seen[ref.Slug]; dup {
				continue
			}
			seen[ref.Slug] = struct{}{}
			out = append(out, ref)
		}
	}
	return out, failures
}

func (c *Crawler) processPage(ctx context.Context, ref fandom.PageRef) (extract.Kind, error) {
	ctx, span := tracer.Start(ctx, "crawler:processPage")
	defer span.End()
	span.SetAttributes(attribute.String("page", ref.Slug))

	slog.DebugContext(ctx, "scraping page", "page", ref.Slug)

	raw, err := c.client.Fetch(ctx, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return "", err
	}
	doc, err := fandom.Normalize(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "normalize failed")
		return "", err
	}
	kind, err := extract.Classify(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "classify failed")
		return "", err
	}
	if c.kind != "" && kind != c.kind {
		span.AddEvent("kind filtered out")
		return kind, errKindFiltered
	}

	fields := extract.Run(ctx, doc, kind)
	var variants []extract.Variant
	if kind == extract.KindItem {
		classField, v := extract.ItemVariants(doc)
		fields = append(fields, classField)
		variants = v
	}

	rec := assemble.Record(assemble.Input{
		Slug:      ref.Slug,
		Title:     doc.Title(),
		SourceUrl: raw.Url,
		Kind:      kind,
		ScrapedAt: raw.FetchedAt,
		Fields:    fields,
		Variants:  variants,
		Images:    extract.Images(doc),
	})

	err = c.store.UpsertRecord(ctx, rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return kind, err
	}
	return kind, nil
}

// finalize runs once every page is ingested: pending references get a
// resolution pass against the now complete entity set, then images
// download.
func (c *Crawler) finalize(ctx context.Context, summary *record.RunSummary) {
	if ctx.Err() != nil {
		return
	}

	report, err := c.store.ResolvePending(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "reference resolution failed", "err", err)
	}
	summary.RelationshipsResolved = report.Resolved
	summary.RelationshipsPending = report.Remaining

	if c.images == nil {
		return
	}
	imgReport, err := c.images.Run(ctx, c.workers)
	if err != nil {
		slog.ErrorContext(ctx, "image downloads failed", "err", err)
	}
	summary.ImagesDownloaded = imgReport.Downloaded
	summary.ImagesSkipped = imgReport.Skipped
	summary.ImagesFailed = imgReport.Failed
}

func classifyError(err error) string {
	switch {
	case errors.Is(err, fandom.ErrNotFound):
		return record.FailNotFound
	case errors.Is(err, fandom.ErrRateLimited):
		return record.FailRateLimited
	case errors.Is(err, fandom.ErrMalformedDocument):
		return record.FailMalformed
	case errors.Is(err, extract.ErrUnclassifiable):
		return record.FailUnclassifiable
	case errors.Is(err, fandom.ErrNetwork):
		return record.FailNetwork
	default:
		return record.FailStorage
	}
}
