package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"persona_fetcher/internal/domain"
)

// Source is the remote platform capability: newest-first pages of a
// user's posts or comments.
type Source interface {
	ID() string
	Name() string
	LinkBase() string
	ListItems(ctx context.Context, kind domain.Kind, handle string, req domain.PageRequest) (*domain.Page, error)
}

type Throttler interface {
	Throttle(ctx context.Context) error
}

type Fetcher interface {
	Fetch(ctx context.Context, handle string, postLimit, commentLimit int) (domain.FetchResult, error)
}

type TranscriptWriter interface {
	Write(ctx context.Context, handle string, result domain.FetchResult) (string, error)
}

type ActivityStore interface {
	UpsertBatch(ctx context.Context, handle string, records []domain.ActivityRecord) (int, error)
}

type PersonaRunStore interface {
	Record(ctx context.Context, run *domain.PersonaRun) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, report *domain.Report) error
	Close() error
}
