package extract

import (
	"github.com/PuerkitoBio/goquery"

	"kenshidata/lib/scrapers/fandom"
	"kenshidata/lib/textutil"
)

// ImageRef is an image attached to a page, by source URL.
type ImageRef struct {
	Url     string
	Caption string
}

// Images collects the image URLs of a page: the infobox portrait plus
// one representative image per data table. Duplicate URLs collapse to
// their first occurrence.
func Images(doc *fandom.Document) []ImageRef {
	var out []ImageRef
	seen := map[string]struct{}{}

	add := func(url, caption string) {
		if url == "" {
			return
		}
		if _, dup := seen[url]; dup {
			return
		}
		seen[url] = struct{}{}
		out = append(out, ImageRef{Url: url, Caption: caption})
	}

	doc.Infobox().Find(".pi-image").Each(func(_ int, figure *goquery.Selection) {
		href, ok := figure.Find("a.image").First().Attr("href")
		if !ok {
			return
		}
		caption := textutil.CollapseSpace(figure.Find("figcaption").First().Text())
		add(href, caption)
	})

	doc.DataTables().Each(func(_ int, table *goquery.Selection) {
		href, ok := table.Find("a.image").First().Attr("href")
		if !ok {
			return
		}
		add(href, "")
	})

	return out
}
