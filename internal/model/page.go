package model

// Page represents one listing page fetched while walking the "older posts" chain.
// Pages are transient: they drive the traversal and contribute their Contents.
type Page struct {
	// URL is the address the page was fetched from.
	URL string `json:"url"`

	// NextURL is the href of the "older posts" pager anchor.
	// It is empty exactly when this page is the last one in the chain.
	NextURL string `json:"next_url,omitempty"`

	// Contents holds the post stubs of the page in document order.
	Contents []IrasutoLink `json:"contents"`
}

// HasNext reports whether the page links to an older page.
func (p Page) HasNext() bool {
	return p.NextURL != ""
}

// FlattenPages concatenates the contents of pages, keeping page order and then
// in-page order.
func FlattenPages(pages []Page) []IrasutoLink {
	total := 0
	for _, p := range pages {
		total += len(p.Contents)
	}

	links := make([]IrasutoLink, 0, total)
	for _, p := range pages {
		links = append(links, p.Contents...)
	}
	return links
}
