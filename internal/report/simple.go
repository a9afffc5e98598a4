package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/irasutoya/internal/model"
)

// ruleWidth is the width of section rules.
const ruleWidth = 70

// SimpleWriter outputs human-readable text for terminal display.
// One item per line, so the output stays usable with grep and cut.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no items are shown.
	showEmpty bool

	// verbose adds image URLs and descriptions to each item.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteCategories implements Writer.
func (w *SimpleWriter) WriteCategories(categories []model.Category) (int, error) {
	var sb strings.Builder
	for _, c := range categories {
		fmt.Fprintf(&sb, "%s\t%s\n", c.Title, c.URL)
	}
	return w.output.Write([]byte(sb.String()))
}

// WriteLinks implements Writer.
func (w *SimpleWriter) WriteLinks(links []model.IrasutoLink) (int, error) {
	var sb strings.Builder
	w.writeLinks(&sb, links)
	return w.output.Write([]byte(sb.String()))
}

// WriteIrasuto implements Writer.
func (w *SimpleWriter) WriteIrasuto(records []model.Irasuto) (int, error) {
	var sb strings.Builder
	w.writeRecords(&sb, records)
	return w.output.Write([]byte(sb.String()))
}

// WriteCrawlResult implements Writer.
func (w *SimpleWriter) WriteCrawlResult(result *model.CrawlResult) (int, error) {
	if result == nil {
		result = &model.CrawlResult{}
	}

	var sb strings.Builder
	writeHeader(&sb, "IRASUTOYA CRAWL")

	listing, detail := countSkips(result.Skipped)
	fmt.Fprintf(&sb, "Extracted:          %d\n", result.Len())
	fmt.Fprintf(&sb, "Skipped (listing):  %d\n", listing)
	fmt.Fprintf(&sb, "Skipped (detail):   %d\n", detail)
	sb.WriteString("\n")

	if result.Len() > 0 || w.showEmpty {
		writeSection(&sb, "ILLUSTRATIONS")
		w.writeRecords(&sb, result.Irasuto)
		sb.WriteString("\n")
	}

	if len(result.Skipped) > 0 || w.showEmpty {
		writeSection(&sb, "SKIPPED")
		for _, s := range result.Skipped {
			fmt.Fprintf(&sb, "[%s] %s: %s\n", s.Stage, s.URL, s.Reason)
		}
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// WriteIrasutoya implements Writer.
func (w *SimpleWriter) WriteIrasutoya(result *model.Irasutoya) (int, error) {
	if result == nil {
		result = model.NewIrasutoya()
	}

	var sb strings.Builder
	writeHeader(&sb, "IRASUTOYA BY CATEGORY")
	fmt.Fprintf(&sb, "Categories: %d\n", result.Len())
	fmt.Fprintf(&sb, "Posts:      %d\n", result.TotalLinks())
	sb.WriteString("\n")

	for _, name := range result.Names() {
		links, _ := result.Get(name)
		if len(links) == 0 && !w.showEmpty {
			continue
		}
		writeSection(&sb, fmt.Sprintf("%s (%d)", name, len(links)))
		w.writeLinks(&sb, links)
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// writeLinks writes one line per post stub.
func (w *SimpleWriter) writeLinks(sb *strings.Builder, links []model.IrasutoLink) {
	for _, l := range links {
		fmt.Fprintf(sb, "%s\t%s\n", l.Name, l.DetailURL)
		if w.verbose {
			fmt.Fprintf(sb, "  image:    %s\n", l.ImageURL)
			if l.Category != nil {
				fmt.Fprintf(sb, "  category: %s\n", l.Category.Title)
			}
		}
	}
}

// writeRecords writes one line per record.
func (w *SimpleWriter) writeRecords(sb *strings.Builder, records []model.Irasuto) {
	for _, r := range records {
		fmt.Fprintf(sb, "%s\t%s\t%s\n", r.Name, r.DetailURL, strings.Join(r.Categories, ","))
		if w.verbose {
			fmt.Fprintf(sb, "  image:       %s\n", r.ImageURL)
			fmt.Fprintf(sb, "  thumbnail:   %s\n", r.MiniImageURL)
			fmt.Fprintf(sb, "  description: %s\n", truncateString(r.Description, 120))
		}
	}
}

// writeHeader writes a title framed by "=" rules.
func writeHeader(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

// writeSection writes a section title framed by "-" rules.
func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
}
