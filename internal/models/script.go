package models

import "time"

// Script maps a URL pattern to the extraction script used for pages that
// match it. Pattern is a regular expression matched against followed URLs;
// Script is a JSON selector set consumed by the scraper.
type Script struct {
	ID        int       `json:"id,omitempty"`
	Pattern   string    `json:"pattern"`
	Script    string    `json:"script"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
