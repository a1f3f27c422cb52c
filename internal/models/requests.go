package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateBookmarkRequest struct {
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	FaviconURL  string   `json:"faviconUrl,omitempty"`
	AICategory  string   `json:"aiCategory,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (r CreateBookmarkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required, is.URL),
		validation.Field(&r.FaviconURL, is.URL),
		validation.Field(&r.Tags, validation.Each(validation.Required, validation.Length(1, 0))),
	)
}

type UpdateBookmarkRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	FaviconURL  *string   `json:"faviconUrl,omitempty"`
	AICategory  *string   `json:"aiCategory,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

func (r UpdateBookmarkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FaviconURL, is.URL),
	)
}

// RecategorizeBatchRequest selects bookmarks for re-categorization. An empty
// ID list means "all bookmarks still carrying the fallback category".
type RecategorizeBatchRequest struct {
	IDs []int64 `json:"ids,omitempty"`
}
