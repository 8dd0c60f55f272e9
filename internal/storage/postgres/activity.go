package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"persona_fetcher/internal/domain"
)

type ActivityStore struct {
	db *sqlx.DB
}

func NewActivityStore(db *sqlx.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// UpsertBatch stores records for handle, refreshing text and links of
// records seen before. It returns the number of rows written.
func (s *ActivityStore) UpsertBatch(ctx context.Context, handle string, records []domain.ActivityRecord) (int, error) {
	query := `
		INSERT INTO activity_records (
			handle, kind, external_id, title, content, url, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (kind, external_id) DO UPDATE SET
			handle = EXCLUDED.handle,
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			url = EXCLUDED.url,
			fetched_at = NOW()`

	exec := GetExecutor(ctx, s.db)

	var written int
	for _, r := range records {
		res, err := exec.ExecContext(ctx, query,
			handle,
			string(r.Kind),
			r.ID,
			r.Title,
			r.Content,
			r.URL,
			r.CreatedAt,
		)
		if err != nil {
			return written, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return written, err
		}
		written += int(n)
	}

	return written, nil
}

// ListByHandle returns archived records for handle, newest first. With no
// kinds given, both kinds are returned.
func (s *ActivityStore) ListByHandle(ctx context.Context, handle string, kinds ...domain.Kind) ([]domain.ActivityRecord, error) {
	if len(kinds) == 0 {
		kinds = []domain.Kind{domain.KindPost, domain.KindComment}
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}

	query := `
		SELECT kind, external_id, title, content, url, created_at
		FROM activity_records
		WHERE handle = $1 AND kind = ANY($2)
		ORDER BY created_at DESC`

	var records []domain.ActivityRecord
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &records, query, handle, pq.Array(names))
	return records, err
}
