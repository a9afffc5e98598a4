package extract

// Selectors are the CSS selectors that locate data in the site's template.
// Every field has a default; a zero field falls back to it.
type Selectors struct {
	// Categories selects the label anchors in the sidebar.
	Categories string `yaml:"categories,omitempty"`

	// PostAnchors selects the boxed image anchor of every post on a listing page.
	// The anchor's script child embeds the image URL and the post name.
	PostAnchors string `yaml:"post_anchors,omitempty"`

	// FirstPagePager selects the "older posts" anchor on the first page.
	FirstPagePager string `yaml:"first_page_pager,omitempty"`

	// Pager selects the "older posts" anchor on every later page.
	Pager string `yaml:"pager,omitempty"`

	// DetailTitle selects the heading holding the post name.
	DetailTitle string `yaml:"detail_title,omitempty"`

	// DetailImage selects the anchors wrapping the post images.
	DetailImage string `yaml:"detail_image,omitempty"`

	// DetailSeparator selects the separator blocks of the post body.
	DetailSeparator string `yaml:"detail_separator,omitempty"`

	// DetailCategories selects the category tag anchors of a post.
	DetailCategories string `yaml:"detail_categories,omitempty"`
}

// DefaultSelectors returns the selectors matching the site's current template.
func DefaultSelectors() Selectors {
	return Selectors{
		Categories:       "div#sidebar-wrapper div.widget.Label div.widget-content ul li a",
		PostAnchors:      ".widget.Blog .post-outer .box .boxim a",
		FirstPagePager:   "#blog-pager-older-link a",
		Pager:            "a.blog-pager-older-link",
		DetailTitle:      "#post .title h2",
		DetailImage:      "#post .entry .separator a",
		DetailSeparator:  "#post .entry .separator",
		DetailCategories: "#post .category a",
	}
}

// WithDefaults returns a copy of s with every empty field set to its default.
func (s Selectors) WithDefaults() Selectors {
	d := DefaultSelectors()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&s.Categories, d.Categories)
	fill(&s.PostAnchors, d.PostAnchors)
	fill(&s.FirstPagePager, d.FirstPagePager)
	fill(&s.Pager, d.Pager)
	fill(&s.DetailTitle, d.DetailTitle)
	fill(&s.DetailImage, d.DetailImage)
	fill(&s.DetailSeparator, d.DetailSeparator)
	fill(&s.DetailCategories, d.DetailCategories)
	return s
}
