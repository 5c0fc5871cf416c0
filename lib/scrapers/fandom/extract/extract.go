package extract

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"kenshidata/lib/scrapers/fandom"
)

var tracer = otel.Tracer("scrapers/fandom/extract")

// An Extractor derives flat fields from a page. Extractors are
// independently applicable and never depend on each other's output.
// Their order here is the priority used downstream to break ties
// between duplicate fields, earlier wins.
type Extractor struct {
	Name  string
	Apply func(ctx context.Context, doc *fandom.Document, kind Kind) []Field
}

func Extractors() []Extractor {
	return []Extractor{
		{"infobox", Infobox},
		{"description", Description},
	}
}

// sourceOrder ranks every field source for downstream tie-breaks,
// lower is stronger. The variant-table pass sits between the registry
// extractors because its class cell is more reliable than prose.
var sourceOrder = []string{"infobox", "variants", "description"}

// Priority reports the tie-break rank of a field source, lower is
// stronger. Unknown sources rank last.
func Priority(source string) int {
	for i, name := range sourceOrder {
		if name == source {
			return i
		}
	}
	return len(sourceOrder)
}

// Run applies every extractor to the page and tags each field with its
// source.
func Run(ctx context.Context, doc *fandom.Document, kind Kind) []Field {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(
		attribute.KeyValue{
			Key:   "page",
			Value: attribute.StringValue(doc.Ref.Slug),
		},
		attribute.KeyValue{
			Key:   "kind",
			Value: attribute.StringValue(string(kind)),
		},
	)

	var out []Field
	for _, ex := range Extractors() {
		fields := ex.Apply(ctx, doc, kind)
		for i := range fields {
			fields[i].Source = ex.Name
		}
		out = append(out, fields...)
	}

	span.SetAttributes(attribute.KeyValue{
		Key:   "fields",
		Value: attribute.IntValue(len(out)),
	})
	return out
}
