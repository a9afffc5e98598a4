package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrStructure is wrapped by every StructureError.
	ErrStructure = errors.New("unexpected page structure")

	// ErrSkipped is wrapped by every SkipError.
	ErrSkipped = errors.New("item extraction failed")
)

// StructureError reports that a selector the extraction depends on matched nothing.
type StructureError struct {
	// URL is the page that was being extracted, if known.
	URL string

	// Selector is the CSS selector that matched nothing.
	Selector string
}

// Error implements error.
func (e *StructureError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%v: nothing matches %q", ErrStructure, e.Selector)
	}
	return fmt.Sprintf("%v: nothing matches %q on %s", ErrStructure, e.Selector, e.URL)
}

// Unwrap returns ErrStructure.
func (e *StructureError) Unwrap() error {
	return ErrStructure
}

// SkipError reports that a detail page lacks a required field.
// No record is produced for such a page.
type SkipError struct {
	// URL is the detail page URL.
	URL string

	// Field names what could not be located.
	Field string
}

// Error implements error.
func (e *SkipError) Error() string {
	return fmt.Sprintf("%v: %s: missing %s", ErrSkipped, e.URL, e.Field)
}

// Unwrap returns ErrSkipped.
func (e *SkipError) Unwrap() error {
	return ErrSkipped
}
