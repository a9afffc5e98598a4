package model

// Extraction stages reported in Skip.Stage.
const (
	// StageListing is the post stub extraction on a listing page.
	StageListing = "listing"

	// StageDetail is the field extraction on a detail page.
	StageDetail = "detail"
)

// Skip describes one item that was dropped because its extraction failed.
// Skips never abort the enclosing operation; they are collected so the caller
// can report them.
type Skip struct {
	// URL is the detail URL of the item, or the listing page URL when the item
	// had no usable link.
	URL string `json:"url"`

	// Stage is StageListing or StageDetail.
	Stage string `json:"stage"`

	// Reason says what could not be located.
	Reason string `json:"reason"`
}

// CrawlResult is the outcome of a whole-site crawl.
type CrawlResult struct {
	// Irasuto holds the extracted records in the order of the link list.
	Irasuto []Irasuto `json:"irasuto"`

	// Skipped holds the diagnostics of every dropped item.
	Skipped []Skip `json:"skipped,omitempty"`
}

// Len returns the number of extracted records.
func (r *CrawlResult) Len() int {
	return len(r.Irasuto)
}
