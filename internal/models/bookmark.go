package models

import "time"

type Bookmark struct {
	ID           int64     `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description,omitempty"`
	FaviconURL   string    `json:"faviconUrl,omitempty"`
	AICategory   string    `json:"aiCategory"`
	AIConfidence int       `json:"aiConfidence"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Tags         []Tag     `json:"tags"`
}

// BookmarkPage is a paginated list response.
type BookmarkPage struct {
	Bookmarks []Bookmark `json:"bookmarks"`
	Total     int64      `json:"total"`
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
	HasMore   bool       `json:"hasMore"`
}

// BookmarkFilters narrows a bookmark listing.
type BookmarkFilters struct {
	Search   string
	Category string
	DateFrom string
	DateTo   string
	Page     int
	Limit    int
}
