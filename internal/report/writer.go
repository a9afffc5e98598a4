package report

import (
	"io"
	"unicode/utf8"

	"github.com/nao1215/irasutoya/internal/model"
)

// Writer defines the interface for result output.
// Each method writes one kind of result and returns the number of bytes written.
type Writer interface {
	// WriteCategories outputs the sidebar categories.
	WriteCategories(categories []model.Category) (int, error)

	// WriteLinks outputs post stubs.
	WriteLinks(links []model.IrasutoLink) (int, error)

	// WriteIrasuto outputs extracted records.
	WriteIrasuto(records []model.Irasuto) (int, error)

	// WriteCrawlResult outputs a whole-site crawl with its skipped items.
	WriteCrawlResult(result *model.CrawlResult) (int, error)

	// WriteIrasutoya outputs the per-category aggregate.
	WriteIrasutoya(result *model.Irasutoya) (int, error)
}

// MultiWriter writes to multiple Writers in turn.
// It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// each calls fn for every writer and sums the bytes written.
func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteCategories implements Writer.
func (m *MultiWriter) WriteCategories(categories []model.Category) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteCategories(categories) })
}

// WriteLinks implements Writer.
func (m *MultiWriter) WriteLinks(links []model.IrasutoLink) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteLinks(links) })
}

// WriteIrasuto implements Writer.
func (m *MultiWriter) WriteIrasuto(records []model.Irasuto) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteIrasuto(records) })
}

// WriteCrawlResult implements Writer.
func (m *MultiWriter) WriteCrawlResult(result *model.CrawlResult) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteCrawlResult(result) })
}

// WriteIrasutoya implements Writer.
func (m *MultiWriter) WriteIrasutoya(result *model.Irasutoya) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteIrasutoya(result) })
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// categoryTitle returns the title of the category a stub was listed under, or "-".
func categoryTitle(link model.IrasutoLink) string {
	if link.Category == nil {
		return "-"
	}
	return link.Category.Title
}

// truncateString truncates s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
