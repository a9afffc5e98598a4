// Package model defines the data structures produced by the irasutoya crawler.
//
// This package contains the following main types:
//   - Category: A label listed in the site's sidebar navigation
//   - IrasutoLink: A post stub discovered while walking listing pages
//   - Page: One fetched listing page with its post stubs and pager link
//   - Irasuto: The full record extracted from a post's detail page
//   - Irasutoya: Post stubs grouped by category name
//   - Skip: A diagnostic for a single item whose extraction failed
//
// Every type is a plain value that serializes to JSON with the snake_case field
// names used by the report writers.
package model
