// Package images downloads the image assets discovered by the crawler
// into a local directory, keyed by entity slug. Downloads run
// independently of record persistence, a failed image never blocks an
// entity.
package images

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"kenshidata/lib/restyutil"
	"kenshidata/services/gamedata/db"
	"kenshidata/services/gamedata/store"
)

var tracer = otel.Tracer("services/gamedata/images")

// ErrInvalidImageFormat reports a download whose payload is not an
// image, usually an html error page served with a 200.
var ErrInvalidImageFormat = errors.New("payload is not an image")

type Downloader struct {
	http  *resty.Client
	store *store.Store
	dir   string
}

type Options struct {
	Store *store.Store
	// Dir is the root of the image tree, one subdirectory per entity.
	Dir string
	// InstrumentOutput optionally dumps downloads for debugging.
	InstrumentOutput restyutil.InstrumentOutput
}

func NewDownloader(opts Options) *Downloader {
	client := resty.New()
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(time.Second)
	restyutil.InstrumentClient(client, tracer, opts.InstrumentOutput)

	return &Downloader{
		http:  client,
		store: opts.Store,
		dir:   opts.Dir,
	}
}

// Report counts the outcomes of one download pass.
type Report struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Run attempts every asset that is not already intact on disk, with the
// given parallelism. Assets marked downloaded whose file still matches
// the recorded size and hash are skipped without any network call.
func (d *Downloader) Run(ctx context.Context, parallel int) (Report, error) {
	ctx, span := tracer.Start(ctx, "images:Run")
	defer span.End()

	if parallel < 1 {
		parallel = 1
	}

	assets, err := d.store.ListImages(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list image assets")
		return Report{}, err
	}

	var mu sync.Mutex
	var report Report
	var wg sync.WaitGroup
	sem := make(chan struct{}, parallel)

loop:
	for _, asset := range assets {
		select {
		case <-ctx.Done():
			break loop
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(asset db.ListImageAssetsRow) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome := d.download(ctx, asset)
			mu.Lock()
			switch outcome {
			case outcomeDownloaded:
				report.Downloaded++
			case outcomeSkipped:
				report.Skipped++
			case outcomeFailed:
				report.Failed++
			}
			mu.Unlock()
		}(asset)
	}
	wg.Wait()

	span.SetAttributes(
		attribute.Int("downloaded", report.Downloaded),
		attribute.Int("skipped", report.Skipped),
		attribute.Int("failed", report.Failed),
	)
	return report, ctx.Err()
}

type outcome int

const (
	outcomeDownloaded outcome = iota
	outcomeSkipped
	outcomeFailed
)

func (d *Downloader) download(ctx context.Context, asset db.ListImageAssetsRow) outcome {
	ctx, span := tracer.Start(ctx, "images:download")
	defer span.End()
	span.SetAttributes(
		attribute.String("entity", asset.EntitySlug),
		attribute.String("url", asset.SourceUrl),
	)

	if asset.Status == "downloaded" && d.intact(asset) {
		span.AddEvent("already downloaded")
		return outcomeSkipped
	}

	res, err := d.http.R().SetContext(ctx).Get(asset.SourceUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "download failed")
		d.fail(ctx, asset, fmt.Sprintf("network: %v", err))
		return outcomeFailed
	}
	if !res.IsSuccess() {
		d.fail(ctx, asset, fmt.Sprintf("network: status %d", res.StatusCode()))
		return outcomeFailed
	}

	body := res.Body()
	if !strings.HasPrefix(http.DetectContentType(body), "image/") {
		span.SetStatus(codes.Error, ErrInvalidImageFormat.Error())
		d.fail(ctx, asset, ErrInvalidImageFormat.Error())
		return outcomeFailed
	}

	relPath := filepath.Join(asset.EntitySlug, fileName(asset))
	fullPath := filepath.Join(d.dir, relPath)
	err = os.MkdirAll(filepath.Dir(fullPath), 0777)
	if err != nil {
		d.fail(ctx, asset, fmt.Sprintf("write: %v", err))
		return outcomeFailed
	}
	err = os.WriteFile(fullPath, body, 0644)
	if err != nil {
		d.fail(ctx, asset, fmt.Sprintf("write: %v", err))
		return outcomeFailed
	}

	sum := sha256.Sum256(body)
	err = d.store.MarkImageDownloaded(ctx, asset.ID, relPath, int64(len(body)), hex.EncodeToString(sum[:]))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to mark downloaded")
		return outcomeFailed
	}
	return outcomeDownloaded
}

// intact reports whether the file recorded for a downloaded asset still
// exists with the expected size and hash.
func (d *Downloader) intact(asset db.ListImageAssetsRow) bool {
	if asset.LocalPath == "" {
		return false
	}
	fullPath := filepath.Join(d.dir, asset.LocalPath)
	info, err := os.Stat(fullPath)
	if err != nil || info.Size() != asset.ByteSize {
		return false
	}
	body, err := os.ReadFile(fullPath)
	if err != nil {
		return false
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]) == asset.Sha256
}

func (d *Downloader) fail(ctx context.Context, asset db.ListImageAssetsRow, reason string) {
	err := d.store.MarkImageFailed(ctx, asset.ID, reason)
	if err != nil {
		slog.WarnContext(ctx, "could not mark image as failed",
			"entity", asset.EntitySlug, "url", asset.SourceUrl, "err", err)
	}
}

// fileName derives a stable on disk name for an asset. Wiki image urls
// carry the original upload name in the path segment before
// "/revision", fall back to a hash of the url when the shape is
// unfamiliar.
func fileName(asset db.ListImageAssetsRow) string {
	segments := strings.Split(strings.Trim(path.Clean(urlPath(asset.SourceUrl)), "/"), "/")
	for i, seg := range segments {
		if seg == "revision" && i > 0 {
			return segments[i-1]
		}
	}
	if last := segments[len(segments)-1]; last != "" && last != "." && strings.Contains(last, ".") {
		return last
	}
	sum := sha256.Sum256([]byte(asset.SourceUrl))
	return hex.EncodeToString(sum[:8])
}

func urlPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Path
}
