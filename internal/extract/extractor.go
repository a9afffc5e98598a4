package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/irasutoya/internal/model"
)

// Page sizes of the site's listing pages. The first page links to the second
// with the page size of the front page, which skips posts; the pager link of
// the first page is rewritten to the size the site actually serves there.
const (
	DefaultFirstPageSize     = 24
	DefaultCorrectedPageSize = 31
)

// scriptPattern matches the image URL and post name embedded in the thumbnail
// script of a listing entry, e.g. bp_thumbnail_resize("https://.../s800/a.png","name").
// The name may contain backslash escapes such as \".
var scriptPattern = regexp.MustCompile(`"(https?://[^"]+\.(?:png|jpg))","((?:[^"\\]|\\.)+)"`)

// scriptUnescaper undoes the string escapes of the embedded name.
var scriptUnescaper = strings.NewReplacer(`\"`, `"`, `\\`, `\`)

// Extractor extracts categories, listing pages and detail records.
// It is stateless apart from its configuration and safe for concurrent use.
type Extractor struct {
	// selectors locate the data in the template.
	selectors Selectors

	// pageSizeFrom and pageSizeTo drive the first page pager rewrite.
	pageSizeFrom int
	pageSizeTo   int

	// pageSizePattern matches the max-results parameter holding pageSizeFrom.
	pageSizePattern *regexp.Regexp
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSelectors overrides the selectors. Empty fields keep their defaults.
func WithSelectors(s Selectors) Option {
	return func(e *Extractor) {
		e.selectors = s.WithDefaults()
	}
}

// WithFirstPageSize sets the page size rewrite applied to the first page's pager link.
func WithFirstPageSize(from, to int) Option {
	return func(e *Extractor) {
		if from > 0 && to > 0 {
			e.pageSizeFrom = from
			e.pageSizeTo = to
		}
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		selectors:    DefaultSelectors(),
		pageSizeFrom: DefaultFirstPageSize,
		pageSizeTo:   DefaultCorrectedPageSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.pageSizePattern = regexp.MustCompile(`([?&])max-results=` + strconv.Itoa(e.pageSizeFrom) + `(&|#|$)`)
	return e
}

// Selectors returns the selectors in use.
func (e *Extractor) Selectors() Selectors {
	return e.selectors
}

// Parse parses an HTML document.
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// Categories returns the sidebar categories in document order.
// Each URL is the anchor's href as written in the markup. Anchors without an
// href are ignored and a repeated title keeps its first occurrence.
// A missing sidebar is reported as a *StructureError.
func (e *Extractor) Categories(doc *goquery.Document) ([]model.Category, error) {
	anchors := doc.Find(e.selectors.Categories)
	if anchors.Length() == 0 {
		return nil, &StructureError{URL: documentURL(doc), Selector: e.selectors.Categories}
	}

	categories := make([]model.Category, 0, anchors.Length())
	seen := make(map[string]bool)
	anchors.Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		title := normalizeText(a.Text())
		if title == "" || seen[title] {
			return
		}
		seen[title] = true
		categories = append(categories, model.Category{Title: title, URL: href})
	})

	return categories, nil
}

// Page extracts the post stubs and the pager link of a listing page.
//
// An entry whose anchor has no script child, whose script does not match the
// embedded image/name pattern, or whose href is not a usable URL is returned as
// a model.Skip and the rest of the page is still extracted. A page with no
// entries at all is reported as a *StructureError.
//
// When first is true the first-page pager selector is used and the pager link's
// page size is corrected.
func (e *Extractor) Page(doc *goquery.Document, pageURL string, first bool) (model.Page, []model.Skip, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return model.Page{}, nil, fmt.Errorf("invalid page url %q: %w", pageURL, err)
	}

	anchors := doc.Find(e.selectors.PostAnchors)
	if anchors.Length() == 0 {
		return model.Page{}, nil, &StructureError{URL: pageURL, Selector: e.selectors.PostAnchors}
	}

	page := model.Page{
		URL:      pageURL,
		Contents: make([]model.IrasutoLink, 0, anchors.Length()),
	}
	skips := make([]model.Skip, 0)

	anchors.Each(func(_ int, a *goquery.Selection) {
		link, reason := e.link(a, base)
		if reason != "" {
			skipURL := link.DetailURL
			if skipURL == "" {
				skipURL = pageURL
			}
			skips = append(skips, model.Skip{URL: skipURL, Stage: model.StageListing, Reason: reason})
			return
		}
		page.Contents = append(page.Contents, link)
	})

	page.NextURL = e.nextURL(doc, base, first)

	return page, skips, nil
}

// link extracts one post stub from a listing anchor. A non-empty reason means
// the entry must be skipped; DetailURL is filled whenever it could be resolved.
func (e *Extractor) link(a *goquery.Selection, base *url.URL) (model.IrasutoLink, string) {
	var link model.IrasutoLink

	href, ok := a.Attr("href")
	if !ok {
		return link, "anchor has no href"
	}
	detail, ok := resolveAbsolute(base, href)
	if !ok {
		return link, "anchor href is not a valid url: " + href
	}
	link.DetailURL = detail

	script := a.ChildrenFiltered("script").First()
	if script.Length() == 0 {
		return link, "anchor has no script"
	}

	src := script.Text()
	match := scriptPattern.FindStringSubmatch(src)
	if match == nil {
		return link, "script does not embed an image and a name: " + strings.TrimSpace(src)
	}

	link.ImageURL = match[1]
	link.Name = normalizeText(scriptUnescaper.Replace(match[2]))
	return link, ""
}

// nextURL returns the absolute href of the pager anchor, or "" on the last page.
func (e *Extractor) nextURL(doc *goquery.Document, base *url.URL, first bool) string {
	selector := e.selectors.Pager
	if first {
		selector = e.selectors.FirstPagePager
	}

	href, ok := doc.Find(selector).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return ""
	}
	next, ok := resolveAbsolute(base, href)
	if !ok {
		return ""
	}
	if first {
		next = e.CorrectPageSize(next)
	}
	return next
}

// CorrectPageSize rewrites the max-results query parameter of rawURL from the
// first page size to the corrected size. Everything else is left untouched.
func (e *Extractor) CorrectPageSize(rawURL string) string {
	return e.pageSizePattern.ReplaceAllString(rawURL, "${1}max-results="+strconv.Itoa(e.pageSizeTo)+"${2}")
}

// Detail extracts the record of a detail page.
//
// Every field is required. When one cannot be located a *SkipError naming it is
// returned and no partial record is produced.
func (e *Extractor) Detail(doc *goquery.Document, detailURL string) (model.Irasuto, error) {
	name := normalizeText(doc.Find(e.selectors.DetailTitle).First().Text())
	if name == "" {
		return model.Irasuto{}, &SkipError{URL: detailURL, Field: "name"}
	}

	imageURL, ok := doc.Find(e.selectors.DetailImage).First().Attr("href")
	if !ok || strings.TrimSpace(imageURL) == "" {
		return model.Irasuto{}, &SkipError{URL: detailURL, Field: "image"}
	}
	imageURL = strings.TrimSpace(imageURL)

	miniImageURL, err := model.MiniImageURL(imageURL)
	if err != nil {
		return model.Irasuto{}, &SkipError{URL: detailURL, Field: "full size image (" + imageURL + ")"}
	}

	description := e.description(doc)
	if description == "" {
		return model.Irasuto{}, &SkipError{URL: detailURL, Field: "description"}
	}

	categories := make([]string, 0)
	doc.Find(e.selectors.DetailCategories).Each(func(_ int, a *goquery.Selection) {
		if c := normalizeText(a.Text()); c != "" {
			categories = append(categories, c)
		}
	})
	if len(categories) == 0 {
		return model.Irasuto{}, &SkipError{URL: detailURL, Field: "categories"}
	}

	return model.Irasuto{
		Name:         name,
		DetailURL:    detailURL,
		ImageURL:     imageURL,
		MiniImageURL: miniImageURL,
		Categories:   categories,
		Description:  description,
	}, nil
}

// description returns the text of the second separator block, or failing that
// the text that directly follows the first one.
func (e *Extractor) description(doc *goquery.Document) string {
	separators := doc.Find(e.selectors.DetailSeparator)
	if separators.Length() >= 2 {
		if text := normalizeText(separators.Eq(1).Text()); text != "" {
			return text
		}
	}
	if separators.Length() == 0 {
		return ""
	}
	return textAfter(separators.Get(0))
}

// textAfter returns the first non-blank text node among the following siblings
// of n, skipping <br> elements. Any other element ends the search.
func textAfter(n *html.Node) string {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		switch s.Type {
		case html.TextNode:
			if text := normalizeText(s.Data); text != "" {
				return text
			}
		case html.ElementNode:
			if s.Data != "br" {
				return ""
			}
		}
	}
	return ""
}

// resolveAbsolute resolves href against base and reports whether the result
// is an absolute http(s) URL.
func resolveAbsolute(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	if !ref.IsAbs() {
		ref = base.ResolveReference(ref)
	}
	if (ref.Scheme != "http" && ref.Scheme != "https") || ref.Host == "" {
		return "", false
	}
	return ref.String(), true
}

// normalizeText trims surrounding space and applies Unicode NFC so that
// names and tags compare equal regardless of how the markup composed them.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// documentURL returns the URL of doc, if goquery recorded one.
func documentURL(doc *goquery.Document) string {
	if doc.Url == nil {
		return ""
	}
	return doc.Url.String()
}
