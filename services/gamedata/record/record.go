// Package record holds the assembled form of a scraped wiki page,
// shared between extraction, persistence and reporting.
package record

import (
	"time"

	"kenshidata/lib/scrapers/fandom/extract"
)

// Entity is the assembled record of one wiki page, ready to be
// persisted as a unit.
type Entity struct {
	Slug      string
	Title     string
	Kind      extract.Kind
	SourceUrl string
	// Incomplete marks entities whose expected fields came back
	// Missing. They are stored anyway and refreshed on later runs.
	Incomplete bool
	ScrapedAt  time.Time

	Fields        []extract.Field
	Variants      []extract.Variant
	Relationships []Relationship
	Images        []ImageAsset
}

// Relationship is a typed link between two entities, named by slug. The
// target may not exist yet when the relationship is stored, in which
// case it stays pending until a later resolution pass.
type Relationship struct {
	SourceSlug  string
	TargetTitle string
	TargetSlug  string
	Kind        extract.RelKind
}

// ImageAsset is an image attached to an entity, tracked through its
// download lifecycle.
type ImageAsset struct {
	EntitySlug string
	SourceUrl  string
	Caption    string
}
