package record

import "time"

// PageFailure is one page that could not be turned into an entity,
// classified for the run summary.
type PageFailure struct {
	Slug  string
	Class string
	Err   error
}

// failure classes reported in run summaries
const (
	FailNotFound       = "not_found"
	FailRateLimited    = "rate_limited"
	FailMalformed      = "malformed"
	FailUnclassifiable = "unclassifiable"
	FailNetwork        = "network"
	FailStorage        = "storage"
)

// RunSummary aggregates the outcome of one crawl pass.
type RunSummary struct {
	Started  time.Time
	Finished time.Time

	PagesSeen    int
	PagesStored  int
	PagesSkipped int
	ByKind       map[string]int
	Failures     []PageFailure

	RelationshipsResolved int
	RelationshipsPending  int

	ImagesDownloaded int
	ImagesSkipped    int
	ImagesFailed     int
}

func (s RunSummary) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// FailuresByClass counts failures per class for compact reporting.
func (s RunSummary) FailuresByClass() map[string]int {
	out := map[string]int{}
	for _, f := range s.Failures {
		out[f.Class]++
	}
	return out
}
