package fandom

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"kenshidata/lib/restyutil"
)

var tracer = otel.Tracer("scrapers/fandom")

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	cache   pageCache
}

type ClientOptions struct {
	// BaseUrl is the wiki root, e.g. "https://kenshi.fandom.com".
	BaseUrl string
	// Cache is optional, when set fetched pages are reused until they
	// expire.
	Cache *badger.DB
	// InstrumentOutput optionally dumps every request/response pair
	// for debugging.
	InstrumentOutput restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(time.Second * 2)
	client.SetRetryMaxWaitTime(time.Second * 20)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if res == nil {
			return err != nil
		}
		return res.StatusCode() == http.StatusTooManyRequests ||
			res.StatusCode() >= http.StatusInternalServerError
	})

	restyutil.InstrumentClient(client, tracer, opts.InstrumentOutput)

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
		cache: pageCache{
			db:      opts.Cache,
			baseUrl: baseUrl,
		},
	}
	return c, nil
}

// Fetch retrieves a single wiki page. Terminal failures are reported as
// ErrNotFound or ErrRateLimited, everything else transport related wraps
// ErrNetwork.
func (c *Client) Fetch(ctx context.Context, ref PageRef) (RawDocument, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()
	span.SetAttributes(attribute.KeyValue{
		Key:   "page",
		Value: attribute.StringValue(ref.Slug),
	})

	page, err := c.cache.get(ctx, ref)
	if err == nil {
		span.SetStatus(codes.Ok, "CACHE HIT")
		return page, nil
	}
	if err != errPageNotCached {
		span.RecordError(err)
		span.AddEvent("CACHE ERROR", trace.WithAttributes(attribute.KeyValue{
			Key:   "log.severity",
			Value: attribute.StringValue("WARN"),
		}))
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(ref.Endpoint())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return RawDocument{}, fmt.Errorf("fetch %s: %w: %v", ref.Slug, ErrNetwork, err)
	}

	switch {
	case res.StatusCode() == http.StatusNotFound || res.StatusCode() == http.StatusGone:
		span.SetStatus(codes.Error, "page not found")
		return RawDocument{}, fmt.Errorf("fetch %s: %w", ref.Slug, ErrNotFound)
	case res.StatusCode() == http.StatusTooManyRequests ||
		res.StatusCode() == http.StatusServiceUnavailable:
		span.SetStatus(codes.Error, "rate limited")
		return RawDocument{}, fmt.Errorf("fetch %s: %w", ref.Slug, ErrRateLimited)
	case !res.IsSuccess():
		span.SetStatus(codes.Error, "unexpected status")
		return RawDocument{}, fmt.Errorf("fetch %s: %w: status %d", ref.Slug, ErrNetwork, res.StatusCode())
	}

	raw := RawDocument{
		Ref:       ref,
		Url:       res.Request.URL,
		Body:      res.Body(),
		FetchedAt: time.Now().UTC(),
	}

	err = c.cache.set(ctx, ref, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to cache page")
	}

	return raw, nil
}
