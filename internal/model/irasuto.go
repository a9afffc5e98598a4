package model

import (
	"errors"
	"strings"
)

const (
	// FullSizeSegment is the path segment of a full size Blogger image.
	FullSizeSegment = "/s800/"

	// MiniSizeSegment is the path segment of the cropped 72px thumbnail.
	MiniSizeSegment = "/s72-c/"
)

// ErrNoFullSizeSegment is returned by MiniImageURL when the image URL does not
// contain FullSizeSegment, so no thumbnail URL can be derived from it.
var ErrNoFullSizeSegment = errors.New("image url has no " + FullSizeSegment + " segment")

// IrasutoLink is the post stub discovered on a listing page, before the
// detail page is visited. DetailURL identifies the post.
type IrasutoLink struct {
	// Name is the post name embedded in the thumbnail script.
	Name string `json:"name"`

	// ImageURL is the image URL embedded in the thumbnail script.
	ImageURL string `json:"image_url"`

	// DetailURL is the absolute URL of the post's detail page.
	DetailURL string `json:"detail_url"`

	// Category is the category whose listing page produced this stub.
	// It is nil for stubs discovered by walking the front page chain.
	Category *Category `json:"category,omitempty"`
}

// Irasuto is the full record extracted from a detail page.
// A record is only produced when every field could be located.
type Irasuto struct {
	Name         string   `json:"name"`
	DetailURL    string   `json:"detail_url"`
	ImageURL     string   `json:"image_url"`
	MiniImageURL string   `json:"mini_image_url"`
	Categories   []string `json:"categories"`
	Description  string   `json:"description"`
}

// MiniImageURL derives the thumbnail URL from a full size image URL by
// replacing the first FullSizeSegment with MiniSizeSegment.
func MiniImageURL(imageURL string) (string, error) {
	if !strings.Contains(imageURL, FullSizeSegment) {
		return "", ErrNoFullSizeSegment
	}
	return strings.Replace(imageURL, FullSizeSegment, MiniSizeSegment, 1), nil
}

// HasCategory reports whether the record is tagged with the given category title.
func (i Irasuto) HasCategory(title string) bool {
	for _, c := range i.Categories {
		if c == title {
			return true
		}
	}
	return false
}
