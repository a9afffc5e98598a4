// Package extract pulls structured data out of the site's HTML with goquery.
//
// Three independent extractions run over a parsed document:
//   - Categories: the label anchors of the sidebar navigation
//   - Page: the post stubs of a listing page and its "older posts" pager link
//   - Detail: the name, image, description and category tags of a post
//
// Failures come in two kinds. A StructureError means the page layout the
// selectors rely on is missing, which usually means the site template changed;
// callers abort the operation. A SkipError or a model.Skip concerns a single
// item only; callers drop the item and carry on.
package extract
