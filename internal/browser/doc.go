// Package browser provides headless browser page fetching and text
// extraction for the harvester.
//
// # Architecture
//
// The package exposes a small Fetcher interface ("navigate, query matching
// elements, read their text") and a chromedp-backed Engine implementing it.
// The Engine owns a single shared Chrome process; each Fetch opens its own
// isolated tab context, so concurrent fetches never mutate shared browser
// state.
//
// Design decision: We use chromedp rather than driving Chrome over raw CDP
// because:
//  1. It manages the browser process lifecycle (launch, attach, cleanup)
//  2. Tab contexts map directly onto our one-page-per-URL model
//  3. ListenTarget gives us page lifecycle events for network-idle detection
//
// The harvester depends only on the Fetcher interface, so its fetch/extract/
// write logic is tested against a fake without a real browser.
package browser
