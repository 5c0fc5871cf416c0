package fandom

import (
	"net/url"
	"strings"
	"time"

	"kenshidata/lib/textutil"
)

// PageRef identifies a single wiki page.
type PageRef struct {
	// Title is the human readable page title, e.g. "Ringed Sabre".
	Title string
	// Slug is the stable path segment, e.g. "Ringed_Sabre".
	Slug string
}

func (r PageRef) Endpoint() string {
	return "/wiki/" + url.PathEscape(r.Slug)
}

// RefFromTitle builds a page reference from a title or slug, decoding
// percent escapes like %27.
func RefFromTitle(title string) PageRef {
	slug := textutil.Slug(title)
	return PageRef{
		Title: strings.ReplaceAll(slug, "_", " "),
		Slug:  slug,
	}
}

// RefFromHref builds a page reference from a /wiki/ link. Links outside
// the main namespace (File:, Category:, Special:, ...) and links that
// are not wiki pages report false.
func RefFromHref(href string) (PageRef, bool) {
	link, err := url.Parse(href)
	if err != nil {
		return PageRef{}, false
	}
	path := link.Path
	if !strings.HasPrefix(path, "/wiki/") {
		return PageRef{}, false
	}
	slug := strings.TrimPrefix(path, "/wiki/")
	if slug == "" || strings.Contains(slug, ":") {
		return PageRef{}, false
	}
	return RefFromTitle(slug), true
}

// RawDocument is a fetched page before any parsing, it is never
// persisted.
type RawDocument struct {
	Ref       PageRef
	Url       string
	Body      []byte
	FetchedAt time.Time
}
