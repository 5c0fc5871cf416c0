package fandom

import (
	"bytes"
	"context"
	"encoding/gob"
	"net/url"
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errPageNotCached = badger.ErrKeyNotFound

// cached pages expire after a day, development re-runs within that
// window skip the network entirely.
const PAGE_LIFETIME = int64(time.Hour / time.Second * 24)

type cachedPage struct {
	Url       string
	Body      []byte
	FetchedAt int64

	ExpiresAt int64
}

type pageCache struct {
	db      *badger.DB
	baseUrl *url.URL
}

func (c pageCache) key(ref PageRef) (string, error) {
	full, err := c.baseUrl.Parse(ref.Endpoint())
	if err != nil {
		return "", err
	}
	normalized := purell.NormalizeURL(
		full,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveDirectoryIndex|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
	return "page:" + normalized, nil
}

func (c pageCache) get(ctx context.Context, ref PageRef) (RawDocument, error) {
	if c.db == nil {
		return RawDocument{}, errPageNotCached
	}

	ctx, span := tracer.Start(ctx, "cache:get")
	defer span.End()

	key, err := c.key(ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return RawDocument{}, err
	}
	span.SetAttributes(attribute.KeyValue{
		Key:   "cache_key",
		Value: attribute.StringValue(key),
	})

	tx := c.db.NewTransaction(false)
	defer tx.Discard()
	item, err := tx.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return RawDocument{}, errPageNotCached
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read item from badger")
		return RawDocument{}, err
	}
	serialized, err := item.ValueCopy(nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to copy cached item")
		return RawDocument{}, err
	}

	decoder := gob.NewDecoder(bytes.NewBuffer(serialized))

	var cached cachedPage
	err = decoder.Decode(&cached)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deserialize cached item")
		return RawDocument{}, err
	}

	if time.Now().Unix() >= cached.ExpiresAt {
		span.AddEvent("delete expired cache key", trace.WithAttributes(attribute.KeyValue{
			Key:   "key",
			Value: attribute.StringValue(key),
		}))

		tx := c.db.NewTransaction(true)
		defer tx.Commit()

		err = tx.Delete([]byte(key))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to delete expired key")
			return RawDocument{}, errPageNotCached
		}

		span.SetStatus(codes.Ok, "CACHE EXPIRED")
		return RawDocument{}, errPageNotCached
	}

	span.AddEvent("successfully returned cached page", trace.WithAttributes(
		attribute.KeyValue{
			Key:   "contentlength",
			Value: attribute.IntValue(len(cached.Body)),
		},
	))

	return RawDocument{
		Ref:       ref,
		Url:       cached.Url,
		Body:      cached.Body,
		FetchedAt: time.Unix(cached.FetchedAt, 0).UTC(),
	}, nil
}

func (c pageCache) set(ctx context.Context, ref PageRef, raw RawDocument) error {
	if c.db == nil {
		return nil
	}

	ctx, span := tracer.Start(ctx, "cache:set")
	defer span.End()

	key, err := c.key(ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return err
	}
	span.SetAttributes(attribute.KeyValue{
		Key:   "cache_key",
		Value: attribute.StringValue(key),
	})

	serialized := bytes.NewBuffer(nil)
	encoder := gob.NewEncoder(serialized)
	err = encoder.Encode(cachedPage{
		Url:       raw.Url,
		Body:      raw.Body,
		FetchedAt: raw.FetchedAt.Unix(),
		ExpiresAt: time.Now().Unix() + PAGE_LIFETIME,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize page")
		return err
	}

	tx := c.db.NewTransaction(true)
	defer tx.Commit()

	err = tx.Set([]byte(key), serialized.Bytes())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set badger item")
		return err
	}

	return nil
}
