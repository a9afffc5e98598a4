package crawler

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/irasutoya/internal/extract"
	"github.com/nao1215/irasutoya/internal/model"
)

// ListCategories returns the categories of the front page sidebar in markup order.
func (c *Crawler) ListCategories(ctx context.Context, opts Options) ([]model.Category, error) {
	ctx, cancel, err := begin(ctx, opts)
	defer cancel()
	if err != nil {
		return nil, err
	}

	start, err := c.resolve(c.baseURL)
	if err != nil {
		return nil, err
	}
	doc, err := c.fetchDocument(ctx, start, opts)
	if err != nil {
		return nil, err
	}
	return c.extractor.Categories(doc)
}

// ListAllLinks walks the listing pages and returns every post stub, in page
// order and then in document order within a page.
func (c *Crawler) ListAllLinks(ctx context.Context, opts Options) ([]model.IrasutoLink, error) {
	pages, err := c.Walk(ctx, opts)
	if err != nil {
		return nil, err
	}
	return model.FlattenPages(pages), nil
}

// FetchDetail fetches and extracts one detail page.
//
// When the page lacks a required field the returned error is an
// *extract.SkipError and no record is produced. Transport errors are returned
// after the retries in opts are exhausted.
func (c *Crawler) FetchDetail(ctx context.Context, detailURL string, opts Options) (model.Irasuto, error) {
	ctx, cancel, err := begin(ctx, opts)
	defer cancel()
	if err != nil {
		return model.Irasuto{}, err
	}

	detailURL, err = c.resolve(detailURL)
	if err != nil {
		return model.Irasuto{}, err
	}

	irasuto, err := c.fetchDetail(ctx, detailURL, opts)
	var skipErr *extract.SkipError
	if errors.As(err, &skipErr) {
		c.logSkip(detailSkip(skipErr))
	}
	return irasuto, err
}

func (c *Crawler) fetchDetail(ctx context.Context, detailURL string, opts Options) (model.Irasuto, error) {
	doc, err := c.fetchDocument(ctx, detailURL, opts)
	if err != nil {
		return model.Irasuto{}, err
	}
	return c.extractor.Detail(doc, detailURL)
}

// CrawlAll collects every post stub with Walk and then fetches all detail pages.
//
// At most opts.Concurrency detail pages are in flight. Each worker waits
// opts.Delay after its fetch before releasing its slot. Records keep the order
// of the link list; posts whose detail page could not be extracted are left
// out and listed in CrawlResult.Skipped together with the listing skips.
//
// The first transport error stops the remaining workers and is returned.
func (c *Crawler) CrawlAll(ctx context.Context, opts Options) (*model.CrawlResult, error) {
	ctx, cancel, err := begin(ctx, opts)
	defer cancel()
	if err != nil {
		return nil, err
	}

	pages, listingSkips, err := c.walk(ctx, opts)
	c.logSkips(listingSkips)
	if err != nil {
		return nil, err
	}

	links := model.FlattenPages(pages)
	detailURLs := make([]string, len(links))
	for i, link := range links {
		detailURLs[i] = link.DetailURL
	}

	result, err := c.details(ctx, detailURLs, opts)
	if err != nil {
		return nil, err
	}
	result.Skipped = append(listingSkips, result.Skipped...)
	return result, nil
}

// FetchDetails fetches the given detail pages with the bounded worker pool of
// CrawlAll. Relative URLs are resolved against the base URL.
func (c *Crawler) FetchDetails(ctx context.Context, detailURLs []string, opts Options) (*model.CrawlResult, error) {
	ctx, cancel, err := begin(ctx, opts)
	defer cancel()
	if err != nil {
		return nil, err
	}

	resolved := make([]string, len(detailURLs))
	for i, u := range detailURLs {
		if resolved[i], err = c.resolve(u); err != nil {
			return nil, err
		}
	}
	return c.details(ctx, resolved, opts)
}

// details is the detail stage shared by CrawlAll and FetchDetails.
func (c *Crawler) details(ctx context.Context, detailURLs []string, opts Options) (*model.CrawlResult, error) {
	c.logger.Info("fetching detail pages",
		"links", len(detailURLs),
		"concurrency", opts.Concurrency,
	)
	startTime := time.Now()

	// One slot per link so that workers never share a write target.
	records := make([]*model.Irasuto, len(detailURLs))
	skips := make([]*model.Skip, len(detailURLs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, detailURL := range detailURLs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			irasuto, err := c.fetchDetail(gctx, detailURL, opts)
			var skipErr *extract.SkipError
			switch {
			case errors.As(err, &skipErr):
				s := detailSkip(skipErr)
				c.logSkip(s)
				skips[i] = &s
			case err != nil:
				return err
			default:
				records[i] = &irasuto
			}

			return sleep(gctx, opts.Delay)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &model.CrawlResult{
		Irasuto: make([]model.Irasuto, 0, len(detailURLs)),
	}
	for i := range detailURLs {
		if records[i] != nil {
			result.Irasuto = append(result.Irasuto, *records[i])
		}
		if skips[i] != nil {
			result.Skipped = append(result.Skipped, *skips[i])
		}
	}

	c.logger.Info("crawl completed",
		"records", len(result.Irasuto),
		"skipped", len(result.Skipped),
		"duration", time.Since(startTime),
	)

	return result, nil
}

// CategoryIrasuto fetches the listing page of one category without following
// its pager and returns the post stubs tagged with the category.
// A relative category URL is resolved against the base URL.
func (c *Crawler) CategoryIrasuto(ctx context.Context, category model.Category, opts Options) ([]model.IrasutoLink, error) {
	ctx, cancel, err := begin(ctx, opts)
	defer cancel()
	if err != nil {
		return nil, err
	}
	return c.categoryIrasuto(ctx, category, opts)
}

func (c *Crawler) categoryIrasuto(ctx context.Context, category model.Category, opts Options) ([]model.IrasutoLink, error) {
	categoryURL, err := c.resolve(category.URL)
	if err != nil {
		return nil, err
	}

	doc, err := c.fetchDocument(ctx, categoryURL, opts)
	if err != nil {
		return nil, err
	}
	page, skips, err := c.extractor.Page(doc, categoryURL, false)
	if err != nil {
		return nil, err
	}
	c.logSkips(skips)

	links := make([]model.IrasutoLink, len(page.Contents))
	for i, link := range page.Contents {
		link.Category = &model.Category{Title: category.Title, URL: category.URL}
		links[i] = link
	}
	return links, nil
}

// AllIrasuto lists the categories and then fetches each category page in turn,
// waiting opts.Delay after each one. The result keeps the sidebar order.
func (c *Crawler) AllIrasuto(ctx context.Context, opts Options) (*model.Irasutoya, error) {
	ctx, cancel, err := begin(ctx, opts)
	defer cancel()
	if err != nil {
		return nil, err
	}

	// The deadline is already applied; the inner calls must not add another.
	inner := opts
	inner.Timeout = 0

	categories, err := c.ListCategories(ctx, inner)
	if err != nil {
		return nil, err
	}
	return c.CategoriesIrasuto(ctx, categories, inner)
}

// CategoriesIrasuto fetches the listing page of each category in order,
// waiting opts.Delay after each one. A category listed twice keeps its first
// position and the posts of its last fetch.
func (c *Crawler) CategoriesIrasuto(ctx context.Context, categories []model.Category, opts Options) (*model.Irasutoya, error) {
	ctx, cancel, err := begin(ctx, opts)
	defer cancel()
	if err != nil {
		return nil, err
	}

	result := model.NewIrasutoya()
	for i, category := range categories {
		links, err := c.categoryIrasuto(ctx, category, opts)
		if err != nil {
			return nil, err
		}
		result.Set(category.Title, links)

		c.logger.Debug("fetched category",
			"category", category.Title,
			"links", len(links),
			"index", i+1,
			"total", len(categories),
		)

		if err := sleep(ctx, opts.Delay); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// detailSkip converts a detail extraction failure into its diagnostic.
func detailSkip(err *extract.SkipError) model.Skip {
	return model.Skip{
		URL:    err.URL,
		Stage:  model.StageDetail,
		Reason: "missing " + err.Field,
	}
}
