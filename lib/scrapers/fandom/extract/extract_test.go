package extract

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"kenshidata/lib/scrapers/fandom"
)

// a trimmed down item page in the shape fandom renders: portable
// infobox, lead paragraphs, quality variant tables split by a Homemade
// heading
const sabrePage = `<html><body>
<div class="page-header__categories">
	<a href="/wiki/Category:Weapons">Weapons</a>
	<a href="/wiki/Category:Sabres">Sabres</a>
</div>
<h1 class="page-header__title">Ringed Sabre</h1>
<div class="mw-parser-output">
<aside class="portable-infobox pi-theme-weapon">
	<h2 class="pi-item pi-title">Ringed Sabre</h2>
	<figure class="pi-item pi-image">
		<a href="https://static.example.net/kenshi/images/a/ab/Ringed_Sabre.png/revision/latest" class="image"><img></a>
		<figcaption class="pi-caption">Ringed Sabre</figcaption>
	</figure>
	<div class="pi-item pi-data" data-source="value">
		<h3 class="pi-data-label">Value</h3>
		<div class="pi-data-value">c. 1,664</div>
	</div>
	<div class="pi-item pi-data" data-source="weight">
		<h3 class="pi-data-label">Weight</h3>
		<div class="pi-data-value">12 kg</div>
	</div>
	<div class="pi-item pi-data" data-source="crafted_at">
		<h3 class="pi-data-label">Crafted At</h3>
		<div class="pi-data-value"><a href="/wiki/Weapon_Smith_I">Weapon Smith I</a></div>
	</div>
	<div class="pi-item pi-data" data-source="location">
		<h3 class="pi-data-label">Location</h3>
		<div class="pi-data-value"><a href="/wiki/The_Hub">The Hub</a></div>
	</div>
</aside>
<p>Short stub.</p>
<p>The Ringed Sabre is a heavy sabre favoured by <a href="/wiki/Shek">Shek</a> warriors across the continent.</p>
<h2><span class="mw-headline" id="Shop_Quality">Shop Quality</span></h2>
<table style="border: 2px solid #553019;"><tbody>
<tr>
	<td><a href="https://static.example.net/kenshi/images/a/ab/Ringed_Sabre.png/revision/latest" class="image"><img></a></td>
	<td><span>[#Catun No.1]</span></td>
	<td>[Sabre]</td>
	<td>-Blunt Damage 1.2x -Cutting Damage 0.85x</td>
</tr>
</tbody></table>
<table style="border: 2px solid #553019;"><tbody>
<tr>
	<td><span>[#Catun No.2]</span></td>
	<td>-Blunt Damage 1.3x -Cutting Damage 0.9x</td>
</tr>
</tbody></table>
<h2><span class="mw-headline" id="Homemade">Homemade</span></h2>
<table style="border: 2px solid #553019;"><tbody>
<tr>
	<td><span>[#Shoddy]</span></td>
	<td>-Blunt Damage 0.6x</td>
</tr>
</tbody></table>
</div>
</body></html>`

func makeDoc(t testing.TB, slug, body string) *fandom.Document {
	doc, err := fandom.Normalize(fandom.RawDocument{
		Ref:  fandom.RefFromTitle(slug),
		Url:  "https://kenshi.fandom.com/wiki/" + slug,
		Body: []byte(body),
	})
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func fieldByName(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func TestInfobox(t *testing.T) {
	doc := makeDoc(t, "Ringed_Sabre", sabrePage)
	fields := Infobox(context.Background(), doc, KindItem)

	value, ok := fieldByName(fields, "value")
	require.True(t, ok)
	diff := cmp.Diff(Field{
		Name:       "value",
		Label:      "Value",
		Value:      Value{Kind: ValueInteger, Text: "c. 1,664", Number: 1664},
		Confidence: Found,
	}, value)
	if diff != "" {
		t.Fatal(diff)
	}

	weight, ok := fieldByName(fields, "weight")
	require.True(t, ok)
	require.Equal(t, ValueQuantity, weight.Value.Kind)
	require.Equal(t, float64(12), weight.Value.Number)
	require.Equal(t, "kg", weight.Value.Unit)

	crafted, ok := fieldByName(fields, "crafted_at")
	require.True(t, ok)
	require.Equal(t, []Ref{{Target: "Weapon Smith I", Kind: RelCraftedFrom}}, crafted.Refs)

	location, ok := fieldByName(fields, "location")
	require.True(t, ok)
	require.Equal(t, []Ref{{Target: "The Hub", Kind: RelFoundIn}}, location.Refs)

	// sell_value never appears on the page, the gap is recorded
	sellValue, ok := fieldByName(fields, "sell_value")
	require.True(t, ok)
	require.Equal(t, Missing, sellValue.Confidence)
}

func TestInfoboxAbsent(t *testing.T) {
	page := `<html><body><div class="mw-parser-output"><p>A page without any infobox at all, just prose.</p></div></body></html>`
	doc := makeDoc(t, "Plain", page)

	fields := Infobox(context.Background(), doc, KindItem)
	require.Len(t, fields, 3)
	for _, f := range fields {
		require.Equal(t, Missing, f.Confidence)
	}
}

func TestDescription(t *testing.T) {
	doc := makeDoc(t, "Ringed_Sabre", sabrePage)
	fields := Description(context.Background(), doc, KindItem)

	require.Len(t, fields, 1)
	f := fields[0]
	require.Equal(t, "description", f.Name)
	require.Equal(t, Found, f.Confidence)
	// the stub line above the lead paragraph is skipped
	require.Contains(t, f.Value.Text, "heavy sabre")
	require.Equal(t, []Ref{{Target: "Shek", Kind: RelReferences}}, f.Refs)
}

func TestDescriptionMissing(t *testing.T) {
	page := `<html><body><div class="mw-parser-output"><p>Too short.</p></div></body></html>`
	doc := makeDoc(t, "Stub", page)

	fields := Description(context.Background(), doc, KindItem)
	require.Len(t, fields, 1)
	require.Equal(t, Missing, fields[0].Confidence)
}

func TestClassify(t *testing.T) {
	t.Run("Categories", func(t *testing.T) {
		doc := makeDoc(t, "Ringed_Sabre", sabrePage)
		kind, err := Classify(doc)
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, KindItem, kind)
	})

	t.Run("ThemeFallback", func(t *testing.T) {
		page := `<html><body><div class="mw-parser-output">
		<aside class="portable-infobox pi-theme-creature"><h2 class="pi-item pi-title">Bonedog</h2></aside>
		<p>A page whose categories say nothing useful about its kind.</p>
		</div></body></html>`
		doc := makeDoc(t, "Bonedog", page)
		kind, err := Classify(doc)
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, KindCreature, kind)
	})

	t.Run("Unclassifiable", func(t *testing.T) {
		page := `<html><body><div class="mw-parser-output"><p>Nothing here gives away what this page describes.</p></div></body></html>`
		doc := makeDoc(t, "Mystery", page)
		_, err := Classify(doc)
		require.ErrorIs(t, err, ErrUnclassifiable)
	})
}

func TestItemVariants(t *testing.T) {
	doc := makeDoc(t, "Ringed_Sabre", sabrePage)
	class, variants := ItemVariants(doc)

	require.Equal(t, "class", class.Name)
	require.Equal(t, Found, class.Confidence)
	require.Equal(t, "Sabre", class.Value.Text)
	require.Equal(t, "variants", class.Source)

	require.Len(t, variants, 3)

	first := variants[0]
	require.Equal(t, "Catun No.1", first.Quality)
	require.False(t, first.Homemade)
	require.Equal(t, "https://static.example.net/kenshi/images/a/ab/Ringed_Sabre.png/revision/latest", first.ImageUrl)
	diff := cmp.Diff([]Field{
		{
			Name:       "blunt_damage",
			Label:      "Blunt Damage",
			Value:      Value{Kind: ValueMultiplier, Text: "1.2x", Number: 1.2},
			Confidence: Found,
			Source:     "variants",
		},
		{
			Name:       "cutting_damage",
			Label:      "Cutting Damage",
			Value:      Value{Kind: ValueMultiplier, Text: "0.85x", Number: 0.85},
			Confidence: Found,
			Source:     "variants",
		},
	}, first.Stats)
	if diff != "" {
		t.Fatal(diff)
	}

	require.Equal(t, "Catun No.2", variants[1].Quality)
	require.False(t, variants[1].Homemade)

	// tables below the Homemade heading belong to the homemade split
	require.Equal(t, "Shoddy", variants[2].Quality)
	require.True(t, variants[2].Homemade)
}

func TestItemVariantsFallbackTables(t *testing.T) {
	// no table carries the quality border marker, plain content tables
	// are used and the class drops to fallback confidence
	page := `<html><body><div class="mw-parser-output">
	<table><tbody><tr>
		<td><span>[#Standard]</span></td>
		<td>filler</td>
		<td>[Katana]</td>
		<td>-Blunt Damage 0.4x</td>
	</tr></tbody></table>
	</div></body></html>`
	doc := makeDoc(t, "Plain_Katana", page)

	class, variants := ItemVariants(doc)
	require.Equal(t, Fallback, class.Confidence)
	require.Equal(t, "Katana", class.Value.Text)
	require.Len(t, variants, 1)
	require.Equal(t, "Standard", variants[0].Quality)
}

func TestItemVariantsNone(t *testing.T) {
	page := `<html><body><div class="mw-parser-output"><p>An item page without any variant tables on it.</p></div></body></html>`
	doc := makeDoc(t, "No_Tables", page)

	class, variants := ItemVariants(doc)
	require.Equal(t, Missing, class.Confidence)
	require.Empty(t, variants)
}

func TestImages(t *testing.T) {
	doc := makeDoc(t, "Ringed_Sabre", sabrePage)
	images := Images(doc)

	// the infobox portrait and the variant table image share a url,
	// they collapse into one entry carrying the caption
	require.Equal(t, []ImageRef{{
		Url:     "https://static.example.net/kenshi/images/a/ab/Ringed_Sabre.png/revision/latest",
		Caption: "Ringed Sabre",
	}}, images)
}

func TestRun(t *testing.T) {
	doc := makeDoc(t, "Ringed_Sabre", sabrePage)
	fields := Run(context.Background(), doc, KindItem)

	value, ok := fieldByName(fields, "value")
	require.True(t, ok)
	require.Equal(t, "infobox", value.Source)

	description, ok := fieldByName(fields, "description")
	require.True(t, ok)
	require.Equal(t, "description", description.Source)
}
