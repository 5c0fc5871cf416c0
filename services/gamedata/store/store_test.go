package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"kenshidata/lib/scrapers/fandom/extract"
	"kenshidata/lib/testutil"
	"kenshidata/services/gamedata/db"
	"kenshidata/services/gamedata/record"
)

var scrapedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func setupStore(t testing.TB) (*Store, func()) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/gamedata/store",
		DbSchema: db.Schema,
	})
	return NewStore(setup.DB), cleanup
}

func sabreRecord() record.Entity {
	return record.Entity{
		Slug:      "Ringed_Sabre",
		Title:     "Ringed Sabre",
		Kind:      extract.KindItem,
		SourceUrl: "https://kenshi.fandom.com/wiki/Ringed_Sabre",
		ScrapedAt: scrapedAt,
		Fields: []extract.Field{
			{
				Name:       "class",
				Label:      "Class",
				Value:      extract.Value{Kind: extract.ValueText, Text: "Sabre"},
				Confidence: extract.Found,
				Source:     "variants",
			},
			{
				Name:       "value",
				Label:      "Value",
				Value:      extract.Value{Kind: extract.ValueInteger, Text: "1,664", Number: 1664},
				Confidence: extract.Found,
				Source:     "infobox",
			},
		},
		Variants: []extract.Variant{
			{
				Quality:  "Catun No.1",
				ImageUrl: "https://img.example.net/Ringed_Sabre.png",
				Stats: []extract.Field{
					{
						Name:       "blunt_damage",
						Label:      "Blunt Damage",
						Value:      extract.Value{Kind: extract.ValueMultiplier, Text: "1.2x", Number: 1.2},
						Confidence: extract.Found,
						Source:     "variants",
					},
				},
			},
			{Quality: "Shoddy", Homemade: true},
		},
		Relationships: []record.Relationship{
			{
				SourceSlug:  "Ringed_Sabre",
				TargetTitle: "The Hub",
				TargetSlug:  "The_Hub",
				Kind:        extract.RelFoundIn,
			},
		},
		Images: []record.ImageAsset{
			{
				EntitySlug: "Ringed_Sabre",
				SourceUrl:  "https://img.example.net/Ringed_Sabre.png",
				Caption:    "Ringed Sabre",
			},
		},
	}
}

func TestUpsertRecord(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	err := s.UpsertRecord(ctx, sabreRecord())
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetEntity(ctx, "Ringed_Sabre")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Ringed Sabre", got.Entity.Title)
	require.Equal(t, "item", got.Entity.Kind)
	require.Equal(t, scrapedAt.Unix(), got.Entity.ScrapedAt)
	require.Equal(t, scrapedAt.Unix(), got.Entity.FirstSeenAt)
	require.False(t, got.Entity.Incomplete)

	require.Len(t, got.Fields, 2)
	require.Len(t, got.Variants, 2)
	require.Len(t, got.Variants[0].Stats, 1)
	require.Equal(t, 1.2, got.Variants[0].Stats[0].NumValue)

	// the target is not stored yet, the relationship is queued
	summary, err := s.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, int64(0), summary.Relationships)
	require.Equal(t, int64(1), summary.Pending)

	images, err := s.ListImages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, images, 1)
	require.Equal(t, "pending", images[0].Status)
	require.Equal(t, "Ringed_Sabre", images[0].EntitySlug)
}

func TestUpsertRecordIdempotent(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	err := s.UpsertRecord(ctx, sabreRecord())
	if err != nil {
		t.Fatal(err)
	}
	before, err := s.GetEntity(ctx, "Ringed_Sabre")
	if err != nil {
		t.Fatal(err)
	}

	err = s.UpsertRecord(ctx, sabreRecord())
	if err != nil {
		t.Fatal(err)
	}
	after, err := s.GetEntity(ctx, "Ringed_Sabre")
	if err != nil {
		t.Fatal(err)
	}

	diff := cmp.Diff(before, after)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestFirstSeenPreserved(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	rec := sabreRecord()
	err := s.UpsertRecord(ctx, rec)
	if err != nil {
		t.Fatal(err)
	}

	rec.ScrapedAt = scrapedAt.Add(time.Hour * 24)
	err = s.UpsertRecord(ctx, rec)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetEntity(ctx, "Ringed_Sabre")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, scrapedAt.Unix(), got.Entity.FirstSeenAt)
	require.Equal(t, rec.ScrapedAt.Unix(), got.Entity.ScrapedAt)
}

func TestFieldConfidenceNeverDowngrades(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	err := s.UpsertRecord(ctx, sabreRecord())
	if err != nil {
		t.Fatal(err)
	}

	// a later run that only finds a fallback value must not replace the
	// found one
	downgraded := sabreRecord()
	downgraded.Fields[0].Value.Text = "Katana"
	downgraded.Fields[0].Confidence = extract.Fallback
	err = s.UpsertRecord(ctx, downgraded)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetEntity(ctx, "Ringed_Sabre")
	if err != nil {
		t.Fatal(err)
	}
	class := fieldByName(t, got.Fields, "class")
	require.Equal(t, "Sabre", class.TextValue)
	require.Equal(t, int64(extract.Found), class.Confidence)

	// the item row mirrors the winning class
	summary, err := s.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []db.CountItemsByClassRow{{Class: "Sabre", Count: 1}}, summary.Classes)

	// equal or higher confidence replaces
	updated := sabreRecord()
	updated.Fields[0].Value.Text = "Heavy Sabre"
	err = s.UpsertRecord(ctx, updated)
	if err != nil {
		t.Fatal(err)
	}
	got, err = s.GetEntity(ctx, "Ringed_Sabre")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Heavy Sabre", fieldByName(t, got.Fields, "class").TextValue)
}

func fieldByName(t testing.TB, fields []db.EntityField, name string) db.EntityField {
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %s not stored", name)
	return db.EntityField{}
}

func creatureRecord(slug, title string) record.Entity {
	return record.Entity{
		Slug:      slug,
		Title:     title,
		Kind:      extract.KindCreature,
		ScrapedAt: scrapedAt,
	}
}

func TestResolvePending(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	source := creatureRecord("Bonedog", "Bonedog")
	source.Relationships = []record.Relationship{
		{SourceSlug: "Bonedog", TargetTitle: "The Hub", TargetSlug: "The_Hub", Kind: extract.RelFoundIn},
		{SourceSlug: "Bonedog", TargetTitle: "Beak Thingy", TargetSlug: "Beak_Thingy", Kind: extract.RelReferences},
		{SourceSlug: "Bonedog", TargetTitle: "", TargetSlug: "Iron_plate", Kind: extract.RelReferences},
		{SourceSlug: "Bonedog", TargetTitle: "Nothing Like It", TargetSlug: "Nothing_Like_It", Kind: extract.RelReferences},
	}
	err := s.UpsertRecord(ctx, source)
	if err != nil {
		t.Fatal(err)
	}

	// exact slug match
	err = s.UpsertRecord(ctx, creatureRecord("The_Hub", "The Hub"))
	if err != nil {
		t.Fatal(err)
	}
	// close misspelling, fuzzy match
	err = s.UpsertRecord(ctx, creatureRecord("Beak_Thing", "Beak Thing"))
	if err != nil {
		t.Fatal(err)
	}
	// same title, different slug casing, normalized title match
	err = s.UpsertRecord(ctx, creatureRecord("Iron_Plate", "Iron Plate"))
	if err != nil {
		t.Fatal(err)
	}

	report, err := s.ResolvePending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 3, report.Resolved)
	require.Equal(t, 1, report.Remaining)

	summary, err := s.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, int64(3), summary.Relationships)
	require.Equal(t, int64(1), summary.Pending)

	rels, err := s.qry.ListRelationships(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []db.ListRelationshipsRow{
		{SourceSlug: "Bonedog", TargetSlug: "Beak_Thing", Kind: string(extract.RelReferences)},
		{SourceSlug: "Bonedog", TargetSlug: "Iron_Plate", Kind: string(extract.RelReferences)},
		{SourceSlug: "Bonedog", TargetSlug: "The_Hub", Kind: string(extract.RelFoundIn)},
	}, rels)

	// the unmatched reference records its attempt
	pending, err := s.qry.ListPendingReferences(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, pending, 1)
	require.Equal(t, "Nothing_Like_It", pending[0].TargetSlug)
	require.Equal(t, int64(1), pending[0].Attempts)
	require.Contains(t, pending[0].LastError, "no entity matches")

	// a second pass keeps counting attempts without resolving
	report, err = s.ResolvePending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 0, report.Resolved)
	require.Equal(t, 1, report.Remaining)
}

func TestResolveDuringUpsert(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	err := s.UpsertRecord(ctx, creatureRecord("The_Hub", "The Hub"))
	if err != nil {
		t.Fatal(err)
	}

	// the target already exists, the relationship resolves inside the
	// upsert transaction without a resolution pass
	source := creatureRecord("Bonedog", "Bonedog")
	source.Relationships = []record.Relationship{
		{SourceSlug: "Bonedog", TargetTitle: "The Hub", TargetSlug: "The_Hub", Kind: extract.RelFoundIn},
	}
	err = s.UpsertRecord(ctx, source)
	if err != nil {
		t.Fatal(err)
	}

	summary, err := s.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, int64(1), summary.Relationships)
	require.Equal(t, int64(0), summary.Pending)
}

func TestResolveRelationship(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	err := s.UpsertRecord(ctx, creatureRecord("Bonedog", "Bonedog"))
	if err != nil {
		t.Fatal(err)
	}

	rel := record.Relationship{
		SourceSlug: "Bonedog",
		TargetSlug: "The_Hub",
		Kind:       extract.RelFoundIn,
	}
	err = s.ResolveRelationship(ctx, rel)
	require.ErrorIs(t, err, ErrUnresolvedEndpoint)

	err = s.UpsertRecord(ctx, creatureRecord("The_Hub", "The Hub"))
	if err != nil {
		t.Fatal(err)
	}
	err = s.ResolveRelationship(ctx, rel)
	if err != nil {
		t.Fatal(err)
	}

	summary, err := s.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, int64(1), summary.Relationships)
}

func TestConcurrentUpserts(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := creatureRecord(fmt.Sprintf("Creature_%d", i), fmt.Sprintf("Creature %d", i))
			if err := s.UpsertRecord(ctx, rec); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	summary, err := s.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []db.CountEntitiesByKindRow{{Kind: "creature", Count: 8}}, summary.Kinds)
}

func TestWipe(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	err := s.UpsertRecord(ctx, sabreRecord())
	if err != nil {
		t.Fatal(err)
	}

	err = db.Wipe(ctx, s.db)
	if err != nil {
		t.Fatal(err)
	}

	summary, err := s.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, summary.Kinds)
	require.Equal(t, int64(0), summary.Relationships)
	require.Equal(t, int64(0), summary.Pending)
}
