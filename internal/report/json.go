package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/irasutoya/internal/model"
)

// Kinds of documents written by JSONWriter when an envelope is enabled.
const (
	KindCategories  = "categories"
	KindLinks       = "links"
	KindIrasuto     = "irasuto"
	KindCrawlResult = "crawl_result"
	KindIrasutoya   = "irasutoya"
)

// JSONWriter outputs results in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version, when set, wraps every document in an Envelope.
	version string

	// now stamps the envelope.
	now func() time.Time
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithEnvelope wraps every document in an Envelope carrying the tool version.
func WithEnvelope(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// Envelope is a document with metadata about how it was produced.
type Envelope struct {
	// Version is the irasutoya version that generated this document.
	Version string `json:"version"`

	// GeneratedAt is when the document was written.
	GeneratedAt time.Time `json:"generated_at"`

	// Kind names the type of Data, e.g. "crawl_result".
	Kind string `json:"kind"`

	// Data is the result itself.
	Data any `json:"data"`
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteCategories implements Writer.
func (w *JSONWriter) WriteCategories(categories []model.Category) (int, error) {
	if categories == nil {
		categories = []model.Category{}
	}
	return w.writeJSON(KindCategories, categories)
}

// WriteLinks implements Writer.
func (w *JSONWriter) WriteLinks(links []model.IrasutoLink) (int, error) {
	if links == nil {
		links = []model.IrasutoLink{}
	}
	return w.writeJSON(KindLinks, links)
}

// WriteIrasuto implements Writer.
func (w *JSONWriter) WriteIrasuto(records []model.Irasuto) (int, error) {
	if records == nil {
		records = []model.Irasuto{}
	}
	return w.writeJSON(KindIrasuto, records)
}

// WriteCrawlResult implements Writer.
func (w *JSONWriter) WriteCrawlResult(result *model.CrawlResult) (int, error) {
	var out model.CrawlResult
	if result != nil {
		out = *result
	}
	if out.Irasuto == nil {
		out.Irasuto = []model.Irasuto{}
	}
	return w.writeJSON(KindCrawlResult, &out)
}

// WriteIrasutoya implements Writer.
func (w *JSONWriter) WriteIrasutoya(result *model.Irasutoya) (int, error) {
	if result == nil {
		result = model.NewIrasutoya()
	}
	return w.writeJSON(KindIrasutoya, result)
}

// writeJSON marshals v, optionally wrapped in an Envelope, and writes it.
func (w *JSONWriter) writeJSON(kind string, v any) (int, error) {
	if w.version != "" {
		v = Envelope{
			Version:     w.version,
			GeneratedAt: w.now().UTC(),
			Kind:        kind,
			Data:        v,
		}
	}

	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Trailing newline for better terminal output.
	data = append(data, '\n')

	return w.output.Write(data)
}
