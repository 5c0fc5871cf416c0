package fandom

import "errors"

var (
	// ErrNetwork marks transport failures and unexpected statuses left
	// over after retries are exhausted.
	ErrNetwork = errors.New("network failure")
	// ErrNotFound marks pages that do not exist on the wiki.
	ErrNotFound = errors.New("page not found")
	// ErrRateLimited marks requests refused by the wiki's rate limiting.
	ErrRateLimited = errors.New("rate limited")
	// ErrMalformedDocument marks responses that could not be parsed into
	// a usable content region.
	ErrMalformedDocument = errors.New("malformed document")
)
