package extract

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"kenshidata/lib/htmlutil"
	"kenshidata/lib/scrapers/fandom"
	"kenshidata/lib/textutil"
)

// normalized label fragments that turn a field's links into typed
// reference candidates
var craftedLabels = []string{"craftedat", "craftedwith", "materials", "blueprint", "research", "ingredients"}
var locationLabels = []string{"location", "foundat", "foundin", "region", "town", "soldat", "biome", "nests"}

func relKindForLabel(label string) RelKind {
	switch {
	case textutil.MatchName(label, craftedLabels):
		return RelCraftedFrom
	case textutil.MatchName(label, locationLabels):
		return RelFoundIn
	default:
		return RelReferences
	}
}

// fields a record of the given kind is expected to carry. When a page
// never yields them they are recorded as Missing so the gap stays
// visible downstream instead of silently disappearing.
var requiredFields = map[Kind][]string{
	KindItem: {"value", "sell_value", "weight"},
}

// Infobox reads the portable infobox rows into typed fields. Links in a
// row's value become reference candidates whose kind follows the row's
// label.
func Infobox(ctx context.Context, doc *fandom.Document, kind Kind) []Field {
	var out []Field
	seen := map[string]struct{}{}

	infobox := doc.Infobox()
	if infobox.Length() > 0 {
		infobox.Find(".pi-item.pi-data").Each(func(_ int, row *goquery.Selection) {
			label := htmlutil.CleanText(row.Find(".pi-data-label").First())
			valueSel := row.Find(".pi-data-value").First()
			if label == "" || valueSel.Length() == 0 {
				return
			}

			name := row.AttrOr("data-source", "")
			if name == "" {
				name = label
			}
			name = textutil.SnakeCase(name)
			if name == "" {
				return
			}
			if _, dup := seen[name]; dup {
				return
			}
			seen[name] = struct{}{}

			f := Field{
				Name:       name,
				Label:      label,
				Value:      ParseValue(htmlutil.CleanText(valueSel)),
				Confidence: Found,
			}
			relKind := relKindForLabel(label)
			for _, a := range htmlutil.GetAnchors(ctx, valueSel.Find("a[href]")) {
				ref, ok := fandom.RefFromHref(a.Href)
				if !ok {
					continue
				}
				f.Refs = append(f.Refs, Ref{Target: ref.Title, Kind: relKind})
			}

			out = append(out, f)
		})
	}

	for _, name := range requiredFields[kind] {
		if _, ok := seen[name]; ok {
			continue
		}
		out = append(out, Field{
			Name:       name,
			Value:      Value{Kind: ValueText},
			Confidence: Missing,
		})
	}

	return out
}
