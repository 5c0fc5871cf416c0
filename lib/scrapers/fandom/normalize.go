package fandom

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"kenshidata/lib/htmlutil"
)

// Document is a normalized wiki page. Parsing happens once here,
// extractors work through the capability queries below instead of
// probing raw markup.
type Document struct {
	Ref       PageRef
	Url       string
	FetchedAt time.Time

	root   *goquery.Document
	region *goquery.Selection
}

// content region selectors, tried in order
var regionSelectors = []string{
	"div.mw-parser-output",
	"#mw-content-text",
	"div#content",
}

// Normalize parses a fetched page and locates its content region.
// Responses that are empty, not html or without any usable region fail
// with ErrMalformedDocument. The raw document is never modified.
func Normalize(raw RawDocument) (*Document, error) {
	if len(bytes.TrimSpace(raw.Body)) == 0 {
		return nil, fmt.Errorf("normalize %s: empty body: %w", raw.Ref.Slug, ErrMalformedDocument)
	}

	root, err := goquery.NewDocumentFromReader(bytes.NewBuffer(raw.Body))
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %v: %w", raw.Ref.Slug, err, ErrMalformedDocument)
	}
	if root.Find("body *").Length() == 0 {
		return nil, fmt.Errorf("normalize %s: no markup: %w", raw.Ref.Slug, ErrMalformedDocument)
	}

	var region *goquery.Selection
	for _, selector := range regionSelectors {
		sel := root.Find(selector)
		if sel.Length() > 0 {
			region = sel.First()
			break
		}
	}
	if region == nil {
		region = largestTextBlock(root)
	}
	if region == nil {
		return nil, fmt.Errorf("normalize %s: no content region: %w", raw.Ref.Slug, ErrMalformedDocument)
	}

	return &Document{
		Ref:       raw.Ref,
		Url:       raw.Url,
		FetchedAt: raw.FetchedAt,
		root:      root,
		region:    region,
	}, nil
}

// largestTextBlock picks the body child holding the most text, keeping
// region selection deterministic on pages without the usual wrappers.
func largestTextBlock(root *goquery.Document) *goquery.Selection {
	var best *goquery.Selection
	bestLen := 0
	root.Find("body").Children().Each(func(_ int, sel *goquery.Selection) {
		l := len(strings.TrimSpace(sel.Text()))
		if l > bestLen {
			best = sel
			bestLen = l
		}
	})
	return best
}

// Region returns the content region of the page.
func (d *Document) Region() *goquery.Selection {
	return d.region
}

// Children returns the direct children of the content region in
// document order.
func (d *Document) Children() *goquery.Selection {
	return d.region.Children()
}

func (d *Document) Title() string {
	heading := d.root.Find("h1#firstHeading, h1.page-header__title").First()
	if heading.Length() > 0 {
		if t := htmlutil.CleanText(heading); t != "" {
			return t
		}
	}
	return d.Ref.Title
}

// Infobox returns the page's portable infobox, possibly empty.
func (d *Document) Infobox() *goquery.Selection {
	return d.root.Find("aside.portable-infobox").First()
}

// Navboxes returns the page's navigation boxes. They drive index
// enumeration and are excluded from data table parsing.
func (d *Document) Navboxes() *goquery.Selection {
	return d.root.Find("table.navbox")
}

// DataTables returns content tables in document order, excluding
// navigation boxes.
func (d *Document) DataTables() *goquery.Selection {
	return d.region.Find("table").Not(".navbox")
}

// Paragraphs returns the region's top level paragraphs in order.
func (d *Document) Paragraphs() *goquery.Selection {
	return d.region.ChildrenFiltered("p")
}

// Categories returns the page's category names, without the Category:
// prefix.
func (d *Document) Categories() []string {
	var out []string
	d.root.Find("div.page-header__categories a, #catlinks li a").Each(func(_ int, sel *goquery.Selection) {
		name := htmlutil.CleanText(sel)
		name = strings.TrimPrefix(name, "Category:")
		if name == "" {
			return
		}
		out = append(out, name)
	})
	return out
}
