package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"kenshidata/lib/scrapers/fandom"
	"kenshidata/lib/textutil"
)

// Variant is one quality level of an item as listed in its stat tables.
type Variant struct {
	Quality  string
	Homemade bool
	ImageUrl string
	Stats    []Field
}

// the wiki marks item stat tables with this border color, content
// tables without it are a layout fallback
const variantTableMarker = "553019"

// ItemVariants parses the quality variant tables of an item page. The
// variant list splits at the "Homemade" heading: tables above it are
// shop quality, tables below it are homemade. The first return is the
// item's class as written in the first variant table, Missing when no
// table names one.
func ItemVariants(doc *fandom.Document) (Field, []Variant) {
	class := Field{
		Name:       "class",
		Label:      "Class",
		Value:      Value{Kind: ValueText},
		Confidence: Missing,
		Source:     "variants",
	}

	classConfidence := Found
	tables := doc.DataTables().FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return strings.Contains(sel.AttrOr("style", ""), variantTableMarker)
	})
	if tables.Length() == 0 {
		tables = doc.DataTables()
		classConfidence = Fallback
	}
	if tables.Length() == 0 {
		return class, nil
	}

	variantNodes := map[*html.Node]bool{}
	tables.Each(func(_ int, t *goquery.Selection) {
		variantNodes[t.Get(0)] = true
	})

	var variants []Variant
	seen := map[string]struct{}{}
	homemade := false
	first := true

	doc.Children().Each(func(_ int, child *goquery.Selection) {
		if child.Is("h2, h3") && (child.Find("#Homemade").Length() > 0 || child.AttrOr("id", "") == "Homemade") {
			homemade = true
			return
		}

		var matches []*goquery.Selection
		if variantNodes[child.Get(0)] {
			matches = append(matches, child)
		} else {
			child.Find("table").Each(func(_ int, t *goquery.Selection) {
				if variantNodes[t.Get(0)] {
					matches = append(matches, t)
				}
			})
		}

		for _, table := range matches {
			if first {
				first = false
				if text := classCell(table); text != "" {
					class.Value = Value{Kind: ValueText, Text: text}
					class.Confidence = classConfidence
				}
			}

			variant := parseVariantTable(table, homemade)
			if variant.Quality == "" && len(variant.Stats) == 0 {
				continue
			}
			key := variant.Quality
			if variant.Homemade {
				key += "/homemade"
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			variants = append(variants, variant)
		}
	})

	return class, variants
}

// the class sits in the third cell of the first variant table, written
// like "[Sabre]"
func classCell(table *goquery.Selection) string {
	cells := table.Find("td")
	if cells.Length() < 3 {
		return ""
	}
	text := textutil.CollapseSpace(cells.Eq(2).Text())
	return strings.Trim(text, "[] ")
}

func parseVariantTable(table *goquery.Selection, homemade bool) Variant {
	v := Variant{Quality: "Standard", Homemade: homemade}

	// quality headers are written like "[#Catun No.1]"
	quality := table.Find("span").First().Text()
	if i := strings.Index(quality, "#"); i >= 0 {
		quality = quality[i+1:]
	}
	quality = strings.Trim(textutil.CollapseSpace(quality), "[] ")
	if quality != "" {
		v.Quality = quality
	}

	if href, ok := table.Find("a.image").First().Attr("href"); ok {
		v.ImageUrl = href
	}

	statSeen := map[string]struct{}{}
	table.Find("td").Each(func(_ int, td *goquery.Selection) {
		for _, stat := range ParseStats(td.Text()) {
			if _, dup := statSeen[stat.Name]; dup {
				continue
			}
			statSeen[stat.Name] = struct{}{}
			stat.Source = "variants"
			v.Stats = append(v.Stats, stat)
		}
	})

	return v
}
