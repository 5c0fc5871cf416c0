package commands

import (
	"os"
	"slices"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"kenshidata/services/gamedata/images"
	"kenshidata/services/gamedata/record"
	"kenshidata/services/gamedata/store"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func renderRunSummary(summary record.RunSummary) {
	t := newTable()
	t.AppendHeader(table.Row{"Metric", "Count"})
	t.AppendRow(table.Row{"pages seen", summary.PagesSeen})
	t.AppendRow(table.Row{"pages stored", summary.PagesStored})
	t.AppendRow(table.Row{"pages skipped", summary.PagesSkipped})
	t.AppendRow(table.Row{"pages failed", len(summary.Failures)})
	for _, kind := range sortedKeys(summary.ByKind) {
		t.AppendRow(table.Row{"stored: " + kind, summary.ByKind[kind]})
	}
	failures := summary.FailuresByClass()
	for _, class := range sortedKeys(failures) {
		t.AppendRow(table.Row{"failed: " + class, failures[class]})
	}
	t.AppendRow(table.Row{"relationships resolved", summary.RelationshipsResolved})
	t.AppendRow(table.Row{"relationships pending", summary.RelationshipsPending})
	t.AppendRow(table.Row{"images downloaded", summary.ImagesDownloaded})
	t.AppendRow(table.Row{"images skipped", summary.ImagesSkipped})
	t.AppendRow(table.Row{"images failed", summary.ImagesFailed})
	t.AppendRow(table.Row{"duration", summary.Duration().Round(time.Millisecond)})
	t.Render()

	if len(summary.Failures) == 0 {
		return
	}
	f := newTable()
	f.AppendHeader(table.Row{"Page", "Class", "Error"})
	for _, failure := range summary.Failures {
		f.AppendRow(table.Row{failure.Slug, failure.Class, failure.Err})
	}
	f.Render()
}

func renderImageReport(report images.Report) {
	t := newTable()
	t.AppendHeader(table.Row{"Metric", "Count"})
	t.AppendRow(table.Row{"downloaded", report.Downloaded})
	t.AppendRow(table.Row{"skipped", report.Skipped})
	t.AppendRow(table.Row{"failed", report.Failed})
	t.Render()
}

func renderStoreSummary(summary store.Summary) {
	t := newTable()
	t.AppendHeader(table.Row{"Kind", "Count"})
	for _, row := range summary.Kinds {
		t.AppendRow(table.Row{row.Kind, row.Count})
	}
	t.AppendRow(table.Row{"relationships", summary.Relationships})
	t.AppendRow(table.Row{"pending references", summary.Pending})
	t.Render()

	if len(summary.Classes) > 0 {
		c := newTable()
		c.AppendHeader(table.Row{"Item Class", "Count"})
		for _, row := range summary.Classes {
			c.AppendRow(table.Row{row.Class, row.Count})
		}
		c.Render()
	}

	if len(summary.Images) > 0 {
		i := newTable()
		i.AppendHeader(table.Row{"Image Status", "Count"})
		for _, row := range summary.Images {
			i.AppendRow(table.Row{row.Status, row.Count})
		}
		i.Render()
	}
}
