// Package assemble turns the extracted pieces of one page into exactly
// one entity record. It is a pure transformation, every decision here
// is deterministic for the same input.
package assemble

import (
	"time"

	"kenshidata/lib/scrapers/fandom/extract"
	"kenshidata/lib/textutil"
	"kenshidata/services/gamedata/record"
)

// Input carries everything extracted from a single page.
type Input struct {
	Slug      string
	Title     string
	SourceUrl string
	Kind      extract.Kind
	ScrapedAt time.Time
	Fields    []extract.Field
	Variants  []extract.Variant
	Images    []extract.ImageRef
}

// Record assembles one entity from the extracted input. Duplicate
// fields collapse to the highest confidence value, ties break on
// extractor priority, then first occurrence. Reference candidates are
// deduplicated by normalized target name and never point back at the
// page itself.
func Record(in Input) record.Entity {
	merged := map[string]extract.Field{}
	var order []string

	for _, f := range in.Fields {
		existing, ok := merged[f.Name]
		if !ok {
			merged[f.Name] = f
			order = append(order, f.Name)
			continue
		}
		if betterField(f, existing) {
			merged[f.Name] = f
		}
	}

	applyPatches(in.Slug, merged, &order)

	entity := record.Entity{
		Slug:      in.Slug,
		Title:     in.Title,
		Kind:      in.Kind,
		SourceUrl: in.SourceUrl,
		ScrapedAt: in.ScrapedAt,
	}

	seenRefs := map[string]struct{}{}
	for _, name := range order {
		f := merged[name]
		entity.Fields = append(entity.Fields, f)
		if f.Confidence == extract.Missing {
			entity.Incomplete = true
		}

		for _, ref := range f.Refs {
			targetSlug := textutil.Slug(ref.Target)
			if targetSlug == "" || targetSlug == in.Slug {
				continue
			}
			key := textutil.NormalizeName(ref.Target) + "\x00" + string(ref.Kind)
			if _, dup := seenRefs[key]; dup {
				continue
			}
			seenRefs[key] = struct{}{}
			entity.Relationships = append(entity.Relationships, record.Relationship{
				SourceSlug:  in.Slug,
				TargetTitle: ref.Target,
				TargetSlug:  targetSlug,
				Kind:        ref.Kind,
			})
		}
	}

	entity.Variants = in.Variants

	seenImages := map[string]struct{}{}
	for _, img := range in.Images {
		if img.Url == "" {
			continue
		}
		if _, dup := seenImages[img.Url]; dup {
			continue
		}
		seenImages[img.Url] = struct{}{}
		entity.Images = append(entity.Images, record.ImageAsset{
			EntitySlug: in.Slug,
			SourceUrl:  img.Url,
			Caption:    img.Caption,
		})
	}

	return entity
}

// betterField reports whether candidate should replace existing:
// higher confidence wins, equal confidence falls back to extractor
// priority, everything else keeps the incumbent.
func betterField(candidate, existing extract.Field) bool {
	if candidate.Confidence != existing.Confidence {
		return candidate.Confidence > existing.Confidence
	}
	return extract.Priority(candidate.Source) < extract.Priority(existing.Source)
}
