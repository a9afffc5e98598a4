package crawler

import (
	"context"

	"github.com/nao1215/irasutoya/internal/model"
)

// Walk fetches the front page and follows its "older posts" links.
//
// The front page uses the first-page pager selector and its pager link gets
// the page size correction. Walk stops when a page has no pager link, when
// opts.Depth links have been followed, or when the pager points back to a page
// already fetched. Pages are returned in the order they were fetched.
//
// Items that could not be extracted are logged and left out of the pages.
func (c *Crawler) Walk(ctx context.Context, opts Options) ([]model.Page, error) {
	ctx, cancel, err := begin(ctx, opts)
	defer cancel()
	if err != nil {
		return nil, err
	}

	pages, skips, err := c.walk(ctx, opts)
	c.logSkips(skips)
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// walk is Walk without option handling. Listing skips are returned to the caller.
func (c *Crawler) walk(ctx context.Context, opts Options) ([]model.Page, []model.Skip, error) {
	start, err := c.resolve(c.baseURL)
	if err != nil {
		return nil, nil, err
	}

	pages := make([]model.Page, 0)
	skips := make([]model.Skip, 0)
	visited := make(map[string]bool)

	next := start
	for followed := 0; ; followed++ {
		first := followed == 0
		visited[next] = true

		doc, err := c.fetchDocument(ctx, next, opts)
		if err != nil {
			return nil, nil, err
		}
		page, pageSkips, err := c.extractor.Page(doc, next, first)
		if err != nil {
			return nil, nil, err
		}
		pages = append(pages, page)
		skips = append(skips, pageSkips...)

		c.logger.Debug("fetched listing page",
			"url", page.URL,
			"links", len(page.Contents),
			"page", followed+1,
		)

		if !page.HasNext() {
			break
		}
		if !opts.unbounded() && followed >= opts.Depth {
			break
		}
		if visited[page.NextURL] {
			c.logger.Warn("pager points to a page already fetched, stopping",
				"url", page.URL,
				"next_url", page.NextURL,
			)
			break
		}

		if err := sleep(ctx, opts.Delay); err != nil {
			return nil, nil, err
		}
		next = page.NextURL
	}

	return pages, skips, nil
}
