package extract

import (
	"errors"
	"fmt"
	"strings"

	"kenshidata/lib/scrapers/fandom"
	"kenshidata/lib/textutil"
)

// Kind is the entity kind of a page.
type Kind string

const (
	KindItem     Kind = "item"
	KindCreature Kind = "creature"
	KindLocation Kind = "location"
)

var ErrUnclassifiable = errors.New("page does not match a known entity kind")

// category keywords per kind, checked in order: the first kind with a
// matching category wins, which keeps overlapping categories
// deterministic.
var kindCategories = []struct {
	kind     Kind
	matchers []string
}{
	{KindItem, []string{"weapons", "armour", "armor", "items", "tools", "equipment", "crossbows"}},
	{KindCreature, []string{"creatures", "animals", "fauna", "robots", "races"}},
	{KindLocation, []string{"locations", "towns", "settlements", "regions", "zones", "ruins"}},
}

// infobox theme classes used when categories are inconclusive
var kindThemes = []struct {
	kind  Kind
	theme string
}{
	{KindItem, "pi-theme-weapon"},
	{KindItem, "pi-theme-item"},
	{KindCreature, "pi-theme-creature"},
	{KindCreature, "pi-theme-animal"},
	{KindLocation, "pi-theme-location"},
	{KindLocation, "pi-theme-town"},
}

// Classify determines the entity kind of a page from its categories,
// falling back to the infobox theme. Pages matching neither fail with
// ErrUnclassifiable.
func Classify(doc *fandom.Document) (Kind, error) {
	categories := doc.Categories()
	for _, entry := range kindCategories {
		for _, category := range categories {
			if textutil.MatchName(category, entry.matchers) {
				return entry.kind, nil
			}
		}
	}

	infobox := doc.Infobox()
	if infobox.Length() > 0 {
		class := infobox.AttrOr("class", "")
		for _, entry := range kindThemes {
			if strings.Contains(class, entry.theme) {
				return entry.kind, nil
			}
		}
	}

	return "", fmt.Errorf("classify %s: %w", doc.Ref.Slug, ErrUnclassifiable)
}
