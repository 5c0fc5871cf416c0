package fandom

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"kenshidata/lib/htmlutil"
)

// IndexPages returns the content pages linked from the navigation boxes
// of an index page like "Weapons". Links in non-content namespaces are
// skipped, nested navboxes are included.
func (c *Client) IndexPages(ctx context.Context, index PageRef) ([]PageRef, error) {
	ctx, span := tracer.Start(ctx, "client:IndexPages")
	defer span.End()
	span.SetAttributes(attribute.KeyValue{
		Key:   "index",
		Value: attribute.StringValue(index.Slug),
	})

	raw, err := c.Fetch(ctx, index)
	if err != nil {
		return nil, err
	}
	doc, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	sel := doc.Navboxes().Find("a[href]")
	if sel.Length() == 0 {
		// some index pages link their content from plain tables instead
		sel = doc.DataTables().Find("a[href]")
	}
	anchors := htmlutil.GetAnchors(ctx, sel)

	seen := map[string]struct{}{index.Slug: {}}
	var refs []PageRef
	for _, a := range anchors {
		ref, ok := RefFromHref(a.Href)
		if !ok {
			continue
		}
		if _, dup := seen[ref.Slug]; dup {
			continue
		}
		seen[ref.Slug] = struct{}{}
		refs = append(refs, ref)
	}

	span.SetAttributes(attribute.KeyValue{
		Key:   "pages",
		Value: attribute.IntValue(len(refs)),
	})
	return refs, nil
}
