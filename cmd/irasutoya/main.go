// Package main provides the entry point for the irasutoya CLI.
//
// irasutoya crawls https://www.irasutoya.com/ and extracts the illustration
// catalogue: sidebar categories, post stubs from the listing pages and the
// full records of the detail pages.
//
// Usage:
//
//	irasutoya categories
//	irasutoya links --depth 3
//	irasutoya crawl --json -o irasutoya.json
//	irasutoya category 動物 季節
//
// See --help for all available options.
package main

// main is the entry point for irasutoya.
func main() {
	Execute()
}
