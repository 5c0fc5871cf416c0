package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"kenshidata/lib/textutil"
	"kenshidata/services/gamedata/db"
)

// minimum JaroWinkler similarity for a fuzzy reference match
const fuzzyMatchThreshold = 0.93

// ResolveReport summarizes one resolution pass over the pending
// references.
type ResolveReport struct {
	Resolved  int
	Remaining int
}

// ResolvePending retries every queued reference against the entities
// stored so far: exact slug match first, then normalized title match,
// then the closest JaroWinkler match above the threshold. References
// that still match nothing stay queued with their attempt count bumped.
func (s *Store) ResolvePending(ctx context.Context) (ResolveReport, error) {
	ctx, span := tracer.Start(ctx, "ResolvePending")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var report ResolveReport

	pending, err := s.qry.ListPendingReferences(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list pending references")
		return report, err
	}
	entities, err := s.qry.ListEntityNames(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list entities")
		return report, err
	}

	bySlug := make(map[string]int64, len(entities))
	byTitle := make(map[string]int64, len(entities))
	for _, e := range entities {
		bySlug[e.Slug] = e.ID
		byTitle[textutil.NormalizeName(e.Title)] = e.ID
	}

	for _, p := range pending {
		targetId, ok := matchTarget(p, bySlug, byTitle, entities)
		if !ok {
			err := s.qry.MarkPendingAttempt(ctx, db.MarkPendingAttemptParams{
				LastError:  fmt.Sprintf("no entity matches %q", p.TargetSlug),
				SourceID:   p.SourceID,
				TargetSlug: p.TargetSlug,
				Kind:       p.Kind,
			})
			if err != nil {
				return report, err
			}
			report.Remaining++
			continue
		}

		err := s.qry.CreateRelationship(ctx, db.CreateRelationshipParams{
			SourceID: p.SourceID,
			TargetID: targetId,
			Kind:     p.Kind,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to create relationship")
			return report, err
		}
		err = s.qry.DeletePendingReference(ctx, db.DeletePendingReferenceParams{
			SourceID:   p.SourceID,
			TargetSlug: p.TargetSlug,
			Kind:       p.Kind,
		})
		if err != nil {
			return report, err
		}
		report.Resolved++
	}

	span.SetAttributes(
		attribute.Int("resolved", report.Resolved),
		attribute.Int("remaining", report.Remaining),
	)
	return report, nil
}

func matchTarget(p db.PendingReference, bySlug, byTitle map[string]int64, entities []db.ListEntityNamesRow) (int64, bool) {
	if id, ok := bySlug[p.TargetSlug]; ok {
		return id, true
	}

	title := p.TargetTitle
	if title == "" {
		title = strings.ReplaceAll(p.TargetSlug, "_", " ")
	}
	norm := textutil.NormalizeName(title)
	if id, ok := byTitle[norm]; ok {
		return id, true
	}

	var bestSimilarity float64
	var bestId int64
	for _, e := range entities {
		similarity := matchr.JaroWinkler(norm, textutil.NormalizeName(e.Title), false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			bestId = e.ID
		}
	}
	if bestSimilarity >= fuzzyMatchThreshold {
		return bestId, true
	}
	return 0, false
}
