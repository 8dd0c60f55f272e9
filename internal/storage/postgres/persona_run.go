package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"persona_fetcher/internal/domain"
)

type PersonaRunStore struct {
	db *sqlx.DB
}

func NewPersonaRunStore(db *sqlx.DB) *PersonaRunStore {
	return &PersonaRunStore{db: db}
}

func (s *PersonaRunStore) Record(ctx context.Context, run *domain.PersonaRun) error {
	query := `
		INSERT INTO persona_runs (id, handle, post_count, comment_count, most_active_at, transcript_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	exec := GetExecutor(ctx, s.db)

	_, err := exec.ExecContext(ctx, query,
		run.ID,
		run.Handle,
		run.PostCount,
		run.CommentCount,
		run.MostActiveAt,
		run.TranscriptPath,
		run.CreatedAt,
	)
	if err != nil {
		return err
	}

	return insertInterests(ctx, exec, run.ID, run.Interests)
}

// Latest returns the most recent run for handle. A handle that was never
// archived yields an empty run rather than an error.
func (s *PersonaRunStore) Latest(ctx context.Context, handle string) (*domain.PersonaRun, error) {
	var run domain.PersonaRun
	query := `
		SELECT id, handle, post_count, comment_count, most_active_at, transcript_path, created_at
		FROM persona_runs
		WHERE handle = $1
		ORDER BY created_at DESC
		LIMIT 1`

	exec := GetExecutor(ctx, s.db)

	err := sqlx.GetContext(ctx, exec, &run, query, handle)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.PersonaRun{Handle: handle}, nil
	}
	if err != nil {
		return nil, err
	}

	err = sqlx.SelectContext(ctx, exec, &run.Interests,
		"SELECT word, count FROM persona_interests WHERE run_id = $1 ORDER BY rank",
		run.ID,
	)
	if err != nil {
		return nil, err
	}

	return &run, nil
}

func insertInterests(ctx context.Context, exec sqlx.ExtContext, runID uuid.UUID, interests []domain.InterestCount) error {
	if len(interests) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO persona_interests (run_id, rank, word, count) VALUES ")
	valueArgs := make([]interface{}, 0, len(interests)*2+1)
	valueArgs = append(valueArgs, runID)

	for i, in := range interests {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("($1, ")
		sb.WriteString(itoa(i + 1))
		sb.WriteString(", $")
		sb.WriteString(itoa(i*2 + 2))
		sb.WriteString(", $")
		sb.WriteString(itoa(i*2 + 3))
		sb.WriteString(")")
		valueArgs = append(valueArgs, in.Word, in.Count)
	}

	_, err := exec.ExecContext(ctx, sb.String(), valueArgs...)
	return err
}

func itoa(i int) string {
	if i < 10 {
		return string(rune('0' + i))
	}
	return itoa(i/10) + string(rune('0'+i%10))
}
