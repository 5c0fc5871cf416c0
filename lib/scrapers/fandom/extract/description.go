package extract

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"kenshidata/lib/htmlutil"
	"kenshidata/lib/scrapers/fandom"
)

// paragraphs shorter than this are stub lines above the real lead
// paragraph
const minDescriptionLength = 40

// Description captures the first meaningful paragraph of the page. Wiki
// links inside it are preserved as reference candidates instead of
// being flattened away.
func Description(ctx context.Context, doc *fandom.Document, kind Kind) []Field {
	var out []Field

	doc.Paragraphs().EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := htmlutil.CleanText(p)
		if len(text) < minDescriptionLength {
			return true
		}

		f := Field{
			Name:       "description",
			Label:      "Description",
			Value:      Value{Kind: ValueText, Text: text},
			Confidence: Found,
		}
		for _, a := range htmlutil.GetAnchors(ctx, p.Find("a[href]")) {
			ref, ok := fandom.RefFromHref(a.Href)
			if !ok {
				continue
			}
			f.Refs = append(f.Refs, Ref{Target: ref.Title, Kind: RelReferences})
		}

		out = append(out, f)
		return false
	})

	if len(out) == 0 {
		out = append(out, Field{
			Name:       "description",
			Label:      "Description",
			Value:      Value{Kind: ValueText},
			Confidence: Missing,
		})
	}

	return out
}
