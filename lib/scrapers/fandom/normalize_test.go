package fandom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const normalizePage = `<html><head><title>Ringed Sabre | Kenshi Wiki</title></head><body>
<div class="page-header__categories">
	<a href="/wiki/Category:Weapons">Weapons</a>
	<a href="/wiki/Category:Sabres">Sabres</a>
</div>
<h1 class="page-header__title">Ringed Sabre</h1>
<div class="mw-parser-output">
	<p>Stub.</p>
	<p>The Ringed Sabre is a heavy sabre with a distinctive ring shaped guard.</p>
	<table class="navbox"><tr><td><a href="/wiki/Weapons">Weapons</a></td></tr></table>
	<table><tr><td>data</td></tr></table>
</div>
</body></html>`

func rawPage(slug, body string) RawDocument {
	return RawDocument{
		Ref:  RefFromTitle(slug),
		Url:  "https://kenshi.fandom.com/wiki/" + slug,
		Body: []byte(body),
	}
}

func TestNormalize(t *testing.T) {
	doc, err := Normalize(rawPage("Ringed_Sabre", normalizePage))
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, "Ringed Sabre", doc.Title())
	require.Equal(t, []string{"Weapons", "Sabres"}, doc.Categories())
	require.Equal(t, 2, doc.Paragraphs().Length())
	require.Equal(t, 1, doc.Navboxes().Length())
	// data tables never include navigation boxes
	require.Equal(t, 1, doc.DataTables().Length())
}

func TestNormalizeMalformed(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "whitespace", body: "   \n\t "},
		{name: "plain text", body: "not a wiki page at all"},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := Normalize(rawPage("Broken", test.body))
			require.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestNormalizeRegionFallback(t *testing.T) {
	// no mw-parser-output wrapper, the biggest text block becomes the
	// region
	page := `<html><body>
	<div id="sidebar">tiny</div>
	<div id="main"><p>This block carries far more text than the sidebar does, so it wins the region pick.</p></div>
	</body></html>`

	doc, err := Normalize(rawPage("Plain", page))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "main", doc.Region().AttrOr("id", ""))
}

func TestNormalizeTitleFallback(t *testing.T) {
	page := `<html><body><div class="mw-parser-output"><p>No heading anywhere on this page, the reference title is used.</p></div></body></html>`

	doc, err := Normalize(rawPage("Iron_Plate", page))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Iron Plate", doc.Title())
}

func TestRefFromHref(t *testing.T) {
	testCases := []struct {
		href     string
		expected string
		ok       bool
	}{
		{href: "/wiki/Ringed_Sabre", expected: "Ringed_Sabre", ok: true},
		{href: "https://kenshi.fandom.com/wiki/Iron_Plate", expected: "Iron_Plate", ok: true},
		{href: "/wiki/Cross%27s_Armoury", expected: "Cross's_Armoury", ok: true},
		{href: "/wiki/Category:Weapons", ok: false},
		{href: "/wiki/File:Ringed_Sabre.png", ok: false},
		{href: "/wiki/Special:Random", ok: false},
		{href: "/wiki/", ok: false},
		{href: "#References", ok: false},
		{href: "https://example.com/elsewhere", ok: false},
	}

	for _, test := range testCases {
		ref, ok := RefFromHref(test.href)
		require.Equal(t, test.ok, ok, test.href)
		if ok {
			require.Equal(t, test.expected, ref.Slug, test.href)
		}
	}
}
