package browser

import "context"

// Fetcher fetches a page and returns the extracted text of all elements
// matching the configured selector, joined by blank lines.
//
// Implementations must be safe for concurrent use: the harvester dispatches
// multiple fetches against one Fetcher under a concurrency limit.
type Fetcher interface {
	// Fetch navigates to url, waits for the page to settle, and returns
	// the joined text of all matching elements. A page where the selector
	// matches nothing yields an empty string and no error.
	Fetch(ctx context.Context, url string) (string, error)
}
