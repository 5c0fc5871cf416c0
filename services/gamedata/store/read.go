package store

import (
	"context"

	"kenshidata/services/gamedata/db"
)

// EntityData is one stored entity read back as a unit, used by tests
// and reporting.
type EntityData struct {
	Entity   db.Entity
	Fields   []db.EntityField
	Variants []VariantData
}

type VariantData struct {
	Variant db.ItemVariant
	Stats   []db.VariantStat
}

func (s *Store) GetEntity(ctx context.Context, slug string) (EntityData, error) {
	var out EntityData

	entity, err := s.qry.GetEntityBySlug(ctx, slug)
	if err != nil {
		return out, err
	}
	out.Entity = entity

	out.Fields, err = s.qry.ListFields(ctx, entity.ID)
	if err != nil {
		return out, err
	}

	variants, err := s.qry.ListVariants(ctx, entity.ID)
	if err != nil {
		return out, err
	}
	for _, v := range variants {
		stats, err := s.qry.ListVariantStats(ctx, v.ID)
		if err != nil {
			return out, err
		}
		out.Variants = append(out.Variants, VariantData{Variant: v, Stats: stats})
	}
	return out, nil
}

// ListImages returns every image asset with its entity slug attached,
// in insertion order.
func (s *Store) ListImages(ctx context.Context) ([]db.ListImageAssetsRow, error) {
	return s.qry.ListImageAssets(ctx)
}

func (s *Store) GetImage(ctx context.Context, entityId int64, sourceUrl string) (db.ImageAsset, error) {
	return s.qry.GetImageAsset(ctx, db.GetImageAssetParams{
		EntityID:  entityId,
		SourceUrl: sourceUrl,
	})
}

func (s *Store) MarkImageDownloaded(ctx context.Context, id int64, localPath string, byteSize int64, sha256 string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.qry.MarkImageDownloaded(ctx, db.MarkImageDownloadedParams{
		LocalPath: localPath,
		ByteSize:  byteSize,
		Sha256:    sha256,
		ID:        id,
	})
}

func (s *Store) MarkImageFailed(ctx context.Context, id int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.qry.MarkImageFailed(ctx, db.MarkImageFailedParams{
		Failure: reason,
		ID:      id,
	})
}

// Summary aggregates the stored data for reporting.
type Summary struct {
	Kinds         []db.CountEntitiesByKindRow
	Classes       []db.CountItemsByClassRow
	Images        []db.CountImagesByStatusRow
	Relationships int64
	Pending       int64
}

func (s *Store) Summary(ctx context.Context) (Summary, error) {
	var out Summary
	var err error

	out.Kinds, err = s.qry.CountEntitiesByKind(ctx)
	if err != nil {
		return out, err
	}
	out.Classes, err = s.qry.CountItemsByClass(ctx)
	if err != nil {
		return out, err
	}
	out.Images, err = s.qry.CountImagesByStatus(ctx)
	if err != nil {
		return out, err
	}
	out.Relationships, err = s.qry.CountRelationships(ctx)
	if err != nil {
		return out, err
	}
	out.Pending, err = s.qry.CountPendingReferences(ctx)
	if err != nil {
		return out, err
	}
	return out, nil
}
