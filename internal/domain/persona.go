package domain

import "time"

type InterestCount struct {
	Word  string `json:"word" db:"word"`
	Count int    `json:"count" db:"count"`
}

// PersonaSummary is recomputed on every run and never stored on its own.
// MostActiveAt is nil when there were no records to look at.
type PersonaSummary struct {
	TopInterests []InterestCount `json:"top_interests"`
	MostActiveAt *time.Time      `json:"most_active_at"`
	PostCount    int             `json:"post_count"`
	CommentCount int             `json:"comment_count"`
}
