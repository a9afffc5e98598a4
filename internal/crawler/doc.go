// Package crawler walks the irasutoya listing pages and extracts post records.
//
// # Architecture
//
// The package is built around the Crawler type, which composes a
// fetcher.Fetcher (transport plus retry policy) with an extract.Extractor
// (selectors over the parsed document). Two stages are layered on top:
//
//   - Walk: follows the "older posts" pager from the front page, one page at
//     a time, waiting Options.Delay between fetches.
//   - CrawlAll: fetches the detail page of every post found by Walk with at
//     most Options.Concurrency requests in flight.
//
// Listing and category pages are always fetched sequentially. Only the detail
// stage runs concurrently.
//
// # Failures
//
// Transport errors are retried Options.Retry times and then returned. A page
// whose layout no longer matches the selectors fails the whole call with an
// *extract.StructureError. A single post that cannot be extracted is dropped
// and reported as a model.Skip; the rest of the crawl continues.
//
// # Usage
//
//	client, _ := fetcher.NewClient()
//	c := crawler.New(client, crawler.WithLogger(logger))
//	result, err := c.CrawlAll(ctx, crawler.DefaultOptions())
package crawler
