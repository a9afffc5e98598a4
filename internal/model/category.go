package model

// Category is a label from the sidebar navigation of the site.
// Title identifies the category within a crawl.
type Category struct {
	// Title is the anchor text of the sidebar link.
	Title string `json:"title"`

	// URL is the href attribute of the sidebar link, unmodified.
	URL string `json:"url"`
}
