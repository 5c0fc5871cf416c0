// Package store owns every write to the game database. Writes are
// serialized behind one mutex because sqlite only supports a single
// writer, reads for reference resolution happen under the same lock so
// they never race an upsert that creates their endpoint.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"kenshidata/lib/scrapers/fandom/extract"
	"kenshidata/services/gamedata/db"
	"kenshidata/services/gamedata/record"
)

var tracer = otel.Tracer("services/gamedata/store")

// ErrUnresolvedEndpoint reports a relationship whose source or target
// entity has not been stored yet. The relationship is queued, not lost.
var ErrUnresolvedEndpoint = errors.New("relationship endpoint is not stored yet")

type Store struct {
	db  *sql.DB
	qry *db.Queries
	mu  sync.Mutex
	ids *expirable.LRU[string, int64]
}

func NewStore(database *sql.DB) *Store {
	return &Store{
		db:  database,
		qry: db.New(database),
		ids: expirable.NewLRU[string, int64](4096, nil, time.Hour),
	}
}

// entityId resolves a slug to its entity id through the cache. Must be
// called with the lock held.
func (s *Store) entityId(ctx context.Context, qry *db.Queries, slug string) (int64, error) {
	if id, hit := s.ids.Get(slug); hit {
		return id, nil
	}
	id, err := qry.GetEntityIdBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	s.ids.Add(slug, id)
	return id, nil
}

// UpsertRecord writes one assembled entity and everything hanging off
// it as a single transaction. Re-running it with identical input is a
// no-op, a field only replaces its stored row when its confidence is at
// least as high. Relationships whose target is already stored are
// resolved inside the same transaction, the rest are queued as pending.
func (s *Store) UpsertRecord(ctx context.Context, rec record.Entity) error {
	ctx, span := tracer.Start(ctx, "UpsertRecord")
	defer span.End()
	span.SetAttributes(
		attribute.String("slug", rec.Slug),
		attribute.String("kind", string(rec.Kind)),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to begin transaction")
		return fmt.Errorf("upsert %s: %w", rec.Slug, err)
	}
	defer tx.Rollback()
	qry := s.qry.WithTx(tx)

	id, err := qry.UpsertEntity(ctx, db.UpsertEntityParams{
		Slug:        rec.Slug,
		Kind:        string(rec.Kind),
		Title:       rec.Title,
		SourceUrl:   rec.SourceUrl,
		Incomplete:  rec.Incomplete,
		FirstSeenAt: rec.ScrapedAt.Unix(),
		ScrapedAt:   rec.ScrapedAt.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upsert entity")
		return fmt.Errorf("upsert %s: %w", rec.Slug, err)
	}

	for _, f := range rec.Fields {
		err := qry.UpsertField(ctx, db.UpsertFieldParams{
			EntityID:   id,
			Name:       f.Name,
			Label:      f.Label,
			ValueKind:  int64(f.Value.Kind),
			TextValue:  f.Value.Text,
			NumValue:   f.Value.Number,
			MinValue:   f.Value.Min,
			MaxValue:   f.Value.Max,
			Unit:       f.Value.Unit,
			Confidence: int64(f.Confidence),
			Source:     f.Source,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to upsert field")
			return fmt.Errorf("upsert %s field %s: %w", rec.Slug, f.Name, err)
		}
	}

	err = s.upsertKind(ctx, qry, id, rec.Kind)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upsert kind row")
		return fmt.Errorf("upsert %s: %w", rec.Slug, err)
	}

	for _, v := range rec.Variants {
		variantId, err := qry.UpsertVariant(ctx, db.UpsertVariantParams{
			EntityID: id,
			Quality:  v.Quality,
			Homemade: v.Homemade,
			ImageUrl: v.ImageUrl,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to upsert variant")
			return fmt.Errorf("upsert %s variant %s: %w", rec.Slug, v.Quality, err)
		}
		for _, stat := range v.Stats {
			err := qry.UpsertVariantStat(ctx, db.UpsertVariantStatParams{
				VariantID: variantId,
				Name:      stat.Name,
				ValueKind: int64(stat.Value.Kind),
				TextValue: stat.Value.Text,
				NumValue:  stat.Value.Number,
				MinValue:  stat.Value.Min,
				MaxValue:  stat.Value.Max,
				Unit:      stat.Value.Unit,
			})
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to upsert variant stat")
				return fmt.Errorf("upsert %s stat %s: %w", rec.Slug, stat.Name, err)
			}
		}
	}

	for _, img := range rec.Images {
		err := qry.CreateImageAsset(ctx, db.CreateImageAssetParams{
			EntityID:  id,
			SourceUrl: img.SourceUrl,
			Caption:   img.Caption,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to create image asset")
			return fmt.Errorf("upsert %s image: %w", rec.Slug, err)
		}
	}

	resolved := 0
	for _, rel := range rec.Relationships {
		ok, err := s.resolveOrQueue(ctx, qry, id, rel)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to record relationship")
			return fmt.Errorf("upsert %s relationship: %w", rec.Slug, err)
		}
		if ok {
			resolved++
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to commit")
		return fmt.Errorf("upsert %s: %w", rec.Slug, err)
	}

	s.ids.Add(rec.Slug, id)
	span.SetAttributes(
		attribute.Int("relationships", len(rec.Relationships)),
		attribute.Int("resolved", resolved),
	)
	return nil
}

// upsertKind maintains the per kind subtype row. The item row mirrors
// the winning class field so the calculator never joins entity_fields
// for it.
func (s *Store) upsertKind(ctx context.Context, qry *db.Queries, id int64, kind extract.Kind) error {
	switch kind {
	case extract.KindItem:
		class, err := qry.GetFieldText(ctx, db.GetFieldTextParams{
			EntityID: id,
			Name:     "class",
		})
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return qry.UpsertItem(ctx, db.UpsertItemParams{
			EntityID: id,
			Class:    class,
		})
	case extract.KindCreature:
		return qry.UpsertCreature(ctx, id)
	case extract.KindLocation:
		return qry.UpsertLocation(ctx, id)
	default:
		return fmt.Errorf("unknown entity kind %q", kind)
	}
}

// resolveOrQueue records a relationship, resolving it immediately when
// the target already exists and queueing it as pending otherwise.
// Reports whether it resolved. Must run inside the upsert transaction.
func (s *Store) resolveOrQueue(ctx context.Context, qry *db.Queries, sourceId int64, rel record.Relationship) (bool, error) {
	targetId, err := qry.GetEntityIdBySlug(ctx, rel.TargetSlug)
	if errors.Is(err, sql.ErrNoRows) {
		err := qry.UpsertPendingReference(ctx, db.UpsertPendingReferenceParams{
			SourceID:    sourceId,
			TargetSlug:  rel.TargetSlug,
			TargetTitle: rel.TargetTitle,
			Kind:        string(rel.Kind),
		})
		return false, err
	}
	if err != nil {
		return false, err
	}

	err = qry.CreateRelationship(ctx, db.CreateRelationshipParams{
		SourceID: sourceId,
		TargetID: targetId,
		Kind:     string(rel.Kind),
	})
	if err != nil {
		return false, err
	}
	// the reference may have been queued by an earlier run
	err = qry.DeletePendingReference(ctx, db.DeletePendingReferenceParams{
		SourceID:   sourceId,
		TargetSlug: rel.TargetSlug,
		Kind:       string(rel.Kind),
	})
	return true, err
}

// ResolveRelationship persists one relationship whose endpoints are
// both expected to exist. Fails with ErrUnresolvedEndpoint otherwise.
func (s *Store) ResolveRelationship(ctx context.Context, rel record.Relationship) error {
	ctx, span := tracer.Start(ctx, "ResolveRelationship")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sourceId, err := s.entityId(ctx, s.qry, rel.SourceSlug)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("source %s: %w", rel.SourceSlug, ErrUnresolvedEndpoint)
	}
	if err != nil {
		return err
	}
	targetId, err := s.entityId(ctx, s.qry, rel.TargetSlug)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("target %s: %w", rel.TargetSlug, ErrUnresolvedEndpoint)
	}
	if err != nil {
		return err
	}

	err = s.qry.CreateRelationship(ctx, db.CreateRelationshipParams{
		SourceID: sourceId,
		TargetID: targetId,
		Kind:     string(rel.Kind),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create relationship")
		return err
	}
	return s.qry.DeletePendingReference(ctx, db.DeletePendingReferenceParams{
		SourceID:   sourceId,
		TargetSlug: rel.TargetSlug,
		Kind:       string(rel.Kind),
	})
}
