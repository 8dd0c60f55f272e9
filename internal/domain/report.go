package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report describes one persona run for a handle.
type Report struct {
	RunID          uuid.UUID      `json:"run_id"`
	Handle         string         `json:"handle"`
	Summary        PersonaSummary `json:"summary"`
	TranscriptPath string         `json:"transcript_path"`
	Stats          RunStats       `json:"stats"`
	FetchErr       error          `json:"-"`
}

// RunStats holds statistics about a persona run.
type RunStats struct {
	Posts     int           `json:"posts"`
	Comments  int           `json:"comments"`
	Archived  int           `json:"archived"`
	Published int           `json:"published"`
	Errors    int           `json:"errors"`
	Duration  time.Duration `json:"duration"`
}

// PersonaRun is the archived form of a report.
type PersonaRun struct {
	ID             uuid.UUID       `db:"id"`
	Handle         string          `db:"handle"`
	PostCount      int             `db:"post_count"`
	CommentCount   int             `db:"comment_count"`
	Interests      []InterestCount `db:"-"`
	MostActiveAt   *time.Time      `db:"most_active_at"`
	TranscriptPath string          `db:"transcript_path"`
	CreatedAt      time.Time       `db:"created_at"`
}
