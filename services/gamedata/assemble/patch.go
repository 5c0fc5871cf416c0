package assemble

import "kenshidata/lib/scrapers/fandom/extract"

// patches corrects fields the wiki itself gets wrong, keyed by page
// slug. A patch replaces the extracted field outright, the wiki value
// is known bad.
var patches = map[string][]extract.Field{
	// the Holed Sabre page never states its class, every other sabre
	// page does
	"Holed_Sabre": {{
		Name:       "class",
		Label:      "Class",
		Value:      extract.Value{Kind: extract.ValueText, Text: "Sabre"},
		Confidence: extract.Fallback,
		Source:     "patch",
	}},
}

func applyPatches(slug string, merged map[string]extract.Field, order *[]string) {
	for _, patch := range patches[slug] {
		if _, ok := merged[patch.Name]; !ok {
			*order = append(*order, patch.Name)
		}
		merged[patch.Name] = patch
	}
}
