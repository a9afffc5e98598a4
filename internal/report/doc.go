// Package report renders crawl output.
//
// Three formats are provided:
//   - SimpleWriter: tab-separated lines for pipes and terminals
//   - JSONWriter: indented JSON, optionally wrapped in an Envelope
//   - MarkdownWriter: tables and a crawl outcome chart for sharing
//
// The records themselves live in the model package. Every format implements
// Writer, so the CLI picks one by flag and MultiWriter fans out to several.
package report
