package domain

import "time"

// Kind distinguishes the two activity streams of a user.
type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// ActivityRecord is a single post or comment normalized from the source.
// Content is never absent; an empty body is stored as "".
type ActivityRecord struct {
	Kind      Kind      `json:"kind" db:"kind"`
	ID        string    `json:"id" db:"external_id"`
	Title     string    `json:"title,omitempty" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	URL       string    `json:"url" db:"url"`
}

// RawItem is an item as delivered by a source, before normalization.
// Optional text fields are nil when the source omits them.
type RawItem struct {
	ID         string
	Title      *string
	Body       *string
	CreatedUTC float64
	Permalink  string
}

// PageRequest asks a source for one page of a stream.
type PageRequest struct {
	After string
	Limit int
}

// Page is one page of a stream. After is empty when the stream is exhausted.
type Page struct {
	Items []RawItem
	After string
}

// FetchResult holds both streams in the order the source delivered them.
type FetchResult struct {
	Posts    []ActivityRecord
	Comments []ActivityRecord
}

// EmptyFetchResult returns a result with empty, non-nil streams.
func EmptyFetchResult() FetchResult {
	return FetchResult{
		Posts:    []ActivityRecord{},
		Comments: []ActivityRecord{},
	}
}

func (r FetchResult) IsEmpty() bool {
	return len(r.Posts) == 0 && len(r.Comments) == 0
}

// All returns posts followed by comments.
func (r FetchResult) All() []ActivityRecord {
	all := make([]ActivityRecord, 0, len(r.Posts)+len(r.Comments))
	all = append(all, r.Posts...)
	return append(all, r.Comments...)
}
