package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"persona_fetcher/internal/domain"
)

const DefaultPageSize = 100

// ActivityFetcher pulls a user's posts and comments from a Source, one
// throttled step per item, and normalizes them into ActivityRecords.
type ActivityFetcher struct {
	source   Source
	limiter  Throttler
	pageSize int
	logger   *slog.Logger
}

func NewActivityFetcher(source Source, limiter Throttler, pageSize int, logger *slog.Logger) *ActivityFetcher {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ActivityFetcher{
		source:   source,
		limiter:  limiter,
		pageSize: pageSize,
		logger:   logger.With("source", source.ID()),
	}
}

// Fetch retrieves up to postLimit posts and commentLimit comments for
// handle. A failure on either stream abandons the whole fetch: the result
// is empty and the error wraps domain.ErrFetchFailed. Nothing is retried.
func (f *ActivityFetcher) Fetch(ctx context.Context, handle string, postLimit, commentLimit int) (domain.FetchResult, error) {
	if handle == "" {
		return domain.EmptyFetchResult(), fmt.Errorf("%w: %w", domain.ErrFetchFailed, domain.ErrEmptyHandle)
	}

	f.logger.Info("fetching posts", "handle", handle, "limit", postLimit)
	posts, err := f.fetchKind(ctx, domain.KindPost, handle, postLimit)
	if err != nil {
		return domain.EmptyFetchResult(), fmt.Errorf("%w: posts for %s: %w", domain.ErrFetchFailed, handle, err)
	}

	f.logger.Info("fetching comments", "handle", handle, "limit", commentLimit)
	comments, err := f.fetchKind(ctx, domain.KindComment, handle, commentLimit)
	if err != nil {
		return domain.EmptyFetchResult(), fmt.Errorf("%w: comments for %s: %w", domain.ErrFetchFailed, handle, err)
	}

	return domain.FetchResult{Posts: posts, Comments: comments}, nil
}

// fetchKind walks one stream. Each item is preceded by exactly one
// Throttle call; when the buffered page is used up, that same throttle
// also covers the request for the next page.
func (f *ActivityFetcher) fetchKind(ctx context.Context, kind domain.Kind, handle string, limit int) ([]domain.ActivityRecord, error) {
	if limit < 0 {
		limit = 0
	}

	records := make([]domain.ActivityRecord, 0, limit)
	var buffered []domain.RawItem
	after := ""
	exhausted := false

	for len(records) < limit {
		if len(buffered) == 0 && exhausted {
			break
		}

		if err := f.limiter.Throttle(ctx); err != nil {
			return nil, fmt.Errorf("throttle: %w", err)
		}

		if len(buffered) == 0 {
			page, err := f.source.ListItems(ctx, kind, handle, domain.PageRequest{
				After: after,
				Limit: min(f.pageSize, limit-len(records)),
			})
			if err != nil {
				return nil, fmt.Errorf("list %ss: %w", kind, err)
			}

			buffered = page.Items
			after = page.After
			exhausted = page.After == ""

			if len(buffered) == 0 {
				break
			}
		}

		raw := buffered[0]
		buffered = buffered[1:]

		record, err := f.toRecord(kind, raw)
		if err != nil {
			f.logger.Warn("skipping malformed item",
				"kind", kind,
				"external_id", raw.ID,
				"error", err,
			)
			continue
		}
		records = append(records, record)
	}

	f.logger.Debug("fetched stream", "kind", kind, "handle", handle, "count", len(records))

	return records, nil
}

// toRecord maps a raw item into an ActivityRecord. Title and Body are
// optional and default to ""; comments never carry a title. ID and a
// positive creation time are required.
func (f *ActivityFetcher) toRecord(kind domain.Kind, raw domain.RawItem) (domain.ActivityRecord, error) {
	if raw.ID == "" {
		return domain.ActivityRecord{}, fmt.Errorf("missing id")
	}
	if raw.CreatedUTC <= 0 || math.IsNaN(raw.CreatedUTC) || math.IsInf(raw.CreatedUTC, 0) {
		return domain.ActivityRecord{}, fmt.Errorf("invalid created time %v", raw.CreatedUTC)
	}

	record := domain.ActivityRecord{
		Kind:      kind,
		ID:        raw.ID,
		Content:   deref(raw.Body),
		CreatedAt: fromUnix(raw.CreatedUTC),
		URL:       f.source.LinkBase() + raw.Permalink,
	}
	if kind == domain.KindPost {
		record.Title = deref(raw.Title)
	}

	return record, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func fromUnix(ts float64) time.Time {
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
}
