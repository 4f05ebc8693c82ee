package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"autoscuola/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// ListDueReminders returns active lessons starting inside (now, until]
// that have not been reminded yet.
func (r *JobRepository) ListDueReminders(ctx context.Context, now, until time.Time) ([]db.Lesson, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM lessons
		WHERE status IN ('PLANNED', 'CONFIRMED')
		  AND NOT reminder_sent
		  AND start_at > $1 AND start_at <= $2
		ORDER BY start_at`, lessonColumns)

	rows, err := r.DB.QueryContext(ctx, query, now, until)
	if err != nil {
		return nil, fmt.Errorf("error querying lessons due a reminder: %w", err)
	}
	defer rows.Close()

	var lessons []db.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning lesson: %w", err)
		}
		lessons = append(lessons, *l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return lessons, nil
}

func (r *JobRepository) MarkReminded(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE lessons SET reminder_sent = TRUE, updated_at = NOW() WHERE id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error marking lessons reminded: %w", err)
	}
	return nil
}
