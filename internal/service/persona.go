package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"persona_fetcher/internal/config"
	"persona_fetcher/internal/domain"
	"persona_fetcher/internal/persona"
)

// PersonaService drives one run per handle: fetch, write the transcript,
// summarize, then optionally archive and publish.
type PersonaService struct {
	fetcher   Fetcher
	writer    TranscriptWriter
	records   ActivityStore
	runs      PersonaRunStore
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
	config    config.FetchConfig
	now       func() time.Time
}

// NewPersonaService wires the service. records, runs and txManager are
// either all set or all nil; publisher may be nil.
func NewPersonaService(
	fetcher Fetcher,
	writer TranscriptWriter,
	records ActivityStore,
	runs PersonaRunStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.FetchConfig,
) *PersonaService {
	return &PersonaService{
		fetcher:   fetcher,
		writer:    writer,
		records:   records,
		runs:      runs,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
		config:    cfg,
		now:       time.Now,
	}
}

// Run builds a persona for handle. When the fetch yields nothing, either
// because it failed or because the user has no public activity, Run
// writes nothing and returns domain.ErrNoActivity together with a report
// whose FetchErr tells the two cases apart.
func (s *PersonaService) Run(ctx context.Context, handle string) (*domain.Report, error) {
	startTime := s.now()
	report := &domain.Report{
		RunID:  uuid.New(),
		Handle: handle,
	}
	logger := s.logger.With("handle", handle, "run_id", report.RunID)

	logger.Info("starting persona run",
		"post_limit", s.config.PostLimit,
		"comment_limit", s.config.CommentLimit,
	)

	result, err := s.fetcher.Fetch(ctx, handle, s.config.PostLimit, s.config.CommentLimit)
	if err != nil {
		logger.Warn("fetch failed", "error", err)
		report.FetchErr = err
		report.Stats.Errors++
	}

	report.Stats.Posts = len(result.Posts)
	report.Stats.Comments = len(result.Comments)

	if result.IsEmpty() {
		report.Summary = persona.Summarize(nil, nil)
		report.Stats.Duration = s.now().Sub(startTime)
		return report, domain.ErrNoActivity
	}

	path, err := s.writer.Write(ctx, handle, result)
	if err != nil {
		return nil, fmt.Errorf("write transcript: %w", err)
	}
	report.TranscriptPath = path
	logger.Info("saved transcript", "path", path)

	report.Summary = persona.Summarize(result.Posts, result.Comments)

	if s.records != nil {
		archived, err := s.archive(ctx, report, result)
		if err != nil {
			logger.Error("archive failed", "error", err)
			report.Stats.Errors++
		}
		report.Stats.Archived = archived
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, report); err != nil {
			logger.Error("publish failed", "error", err)
			report.Stats.Errors++
		} else {
			report.Stats.Published++
		}
	}

	report.Stats.Duration = s.now().Sub(startTime)

	logger.Info("persona run completed",
		"posts", report.Stats.Posts,
		"comments", report.Stats.Comments,
		"interests", len(report.Summary.TopInterests),
		"archived", report.Stats.Archived,
		"published", report.Stats.Published,
		"errors", report.Stats.Errors,
		"duration", report.Stats.Duration,
	)

	return report, nil
}

func (s *PersonaService) archive(ctx context.Context, report *domain.Report, result domain.FetchResult) (int, error) {
	run := toPersonaRun(report, s.now())

	var archived int
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		n, err := s.records.UpsertBatch(txCtx, report.Handle, result.All())
		if err != nil {
			return fmt.Errorf("upsert records: %w", err)
		}
		if err := s.runs.Record(txCtx, run); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		archived = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return archived, nil
}

func toPersonaRun(report *domain.Report, now time.Time) *domain.PersonaRun {
	return &domain.PersonaRun{
		ID:             report.RunID,
		Handle:         report.Handle,
		PostCount:      report.Summary.PostCount,
		CommentCount:   report.Summary.CommentCount,
		Interests:      report.Summary.TopInterests,
		MostActiveAt:   report.Summary.MostActiveAt,
		TranscriptPath: report.TranscriptPath,
		CreatedAt:      now.UTC(),
	}
}

// IsNoActivity reports whether err means there was nothing to summarize.
func IsNoActivity(err error) bool {
	return errors.Is(err, domain.ErrNoActivity)
}
