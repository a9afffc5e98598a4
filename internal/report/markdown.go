package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/irasutoya/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs results in GitHub Flavored Markdown.
// Thumbnails are embedded so the output renders as a catalogue.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteCategories implements Writer.
func (w *MarkdownWriter) WriteCategories(categories []model.Category) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Irasutoya Categories")
	md.PlainText("")

	if len(categories) == 0 {
		md.PlainText("No categories found.")
		md.PlainText("")
	} else {
		rows := make([][]string, len(categories))
		for i, c := range categories {
			rows[i] = []string{strconv.Itoa(i + 1), escapeCell(c.Title), link("open", c.URL)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"#", "Title", "URL"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteLinks implements Writer.
func (w *MarkdownWriter) WriteLinks(links []model.IrasutoLink) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Irasutoya Posts")
	md.PlainText("")
	md.PlainTextf("%d post(s) found.", len(links))
	md.PlainText("")

	w.writeLinksTable(md, links)
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteIrasuto implements Writer.
func (w *MarkdownWriter) WriteIrasuto(records []model.Irasuto) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Irasutoya Illustrations")
	md.PlainText("")

	w.writeRecords(md, records)
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteCrawlResult implements Writer.
func (w *MarkdownWriter) WriteCrawlResult(result *model.CrawlResult) (int, error) {
	if result == nil {
		result = &model.CrawlResult{}
	}
	md := markdown.NewMarkdown(w.output)

	md.H1("Irasutoya Crawl Report")
	md.PlainText("")

	listing, detail := countSkips(result.Skipped)
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Extracted", strconv.Itoa(result.Len())},
			{"Skipped (listing)", strconv.Itoa(listing)},
			{"Skipped (detail)", strconv.Itoa(detail)},
		},
	})
	md.PlainText("")

	w.writePieChart(md, result.Len(), listing, detail)
	w.writeAlert(md, result)

	md.H2("Illustrations")
	md.PlainText("")
	w.writeRecords(md, result.Irasuto)

	if len(result.Skipped) > 0 {
		md.H2("Skipped")
		md.PlainText("")
		rows := make([][]string, len(result.Skipped))
		for i, s := range result.Skipped {
			rows[i] = []string{s.Stage, escapeCell(truncateString(s.URL, 80)), escapeCell(s.Reason)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Stage", "URL", "Reason"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteIrasutoya implements Writer.
func (w *MarkdownWriter) WriteIrasutoya(result *model.Irasutoya) (int, error) {
	if result == nil {
		result = model.NewIrasutoya()
	}
	md := markdown.NewMarkdown(w.output)

	md.H1("Irasutoya by Category")
	md.PlainText("")
	md.PlainTextf("%d categories, %d post(s).", result.Len(), result.TotalLinks())
	md.PlainText("")

	for _, name := range result.Names() {
		links, _ := result.Get(name)
		md.H2(name)
		md.PlainText("")
		if len(links) == 0 {
			md.PlainText("No posts.")
			md.PlainText("")
			continue
		}
		items := make([]string, len(links))
		for i, l := range links {
			items[i] = link(l.Name, l.DetailURL)
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeLinksTable writes post stubs as a table.
func (w *MarkdownWriter) writeLinksTable(md *markdown.Markdown, links []model.IrasutoLink) {
	if len(links) == 0 {
		md.PlainText("No posts found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(links))
	for i, l := range links {
		rows[i] = []string{
			link(escapeCell(truncateString(l.Name, 60)), l.DetailURL),
			escapeCell(categoryTitle(l)),
			link("image", l.ImageURL),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Name", "Category", "Image"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRecords writes records as a table followed by collapsible descriptions.
func (w *MarkdownWriter) writeRecords(md *markdown.Markdown, records []model.Irasuto) {
	if len(records) == 0 {
		md.PlainText("No illustrations extracted.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			fmt.Sprintf("![%s](%s)", escapeCell(r.Name), r.MiniImageURL),
			link(escapeCell(truncateString(r.Name, 60)), r.DetailURL),
			escapeCell(strings.Join(r.Categories, ", ")),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Thumbnail", "Name", "Categories"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, r := range records {
		if r.Description != "" {
			md.Details(r.Name, r.Description)
		}
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of extracted and skipped items.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, extracted, listing, detail int) {
	if extracted+listing+detail == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Crawl Outcome"),
		piechart.WithShowData(true),
	)
	if extracted > 0 {
		chart.LabelAndIntValue("Extracted", uint64(extracted)) //nolint:gosec // non-negative count
	}
	if listing > 0 {
		chart.LabelAndIntValue("Skipped (listing)", uint64(listing)) //nolint:gosec // non-negative count
	}
	if detail > 0 {
		chart.LabelAndIntValue("Skipped (detail)", uint64(detail)) //nolint:gosec // non-negative count
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert summarising how much of the crawl was dropped.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.CrawlResult) {
	switch {
	case result.Len() == 0 && len(result.Skipped) > 0:
		md.Cautionf("No illustration could be extracted. %d item(s) were skipped.", len(result.Skipped))
	case len(result.Skipped) > 0:
		md.Warningf("%d item(s) were skipped. The markup of the site may have changed.", len(result.Skipped))
	case result.Len() == 0:
		md.Note("The crawl found no posts.")
	default:
		md.Tip("Every post was extracted.")
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [irasutoya](https://github.com/nao1215/irasutoya)*")
}

// countSkips splits skips by stage.
func countSkips(skips []model.Skip) (listing, detail int) {
	for _, s := range skips {
		switch s.Stage {
		case model.StageListing:
			listing++
		case model.StageDetail:
			detail++
		}
	}
	return listing, detail
}

// link formats a markdown link, or returns text alone when url is empty.
func link(text, url string) string {
	if url == "" {
		return text
	}
	return "[" + text + "](" + url + ")"
}

// escapeCell escapes the table column separator.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
