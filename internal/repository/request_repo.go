package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"autoscuola/internal/apperrors"
	"autoscuola/internal/db"
	"autoscuola/internal/schedule"
)

const requestColumns = `id, code, student_id, preferred_slots, location, transmission, note, status, created_at, updated_at`

type RequestRepository struct {
	DB *sql.DB
}

func NewRequestRepository(database *sql.DB) *RequestRepository {
	return &RequestRepository{DB: database}
}

func scanRequest(row interface{ Scan(dest ...any) error }) (*db.LessonRequest, error) {
	var req db.LessonRequest
	err := row.Scan(
		&req.ID, &req.Code, &req.StudentID, &req.PreferredSlots, &req.Location,
		&req.Transmission, &req.Note, &req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) Insert(ctx context.Context, req *db.LessonRequest) error {
	query := `
		INSERT INTO lesson_requests (code, student_id, preferred_slots, location, transmission, note, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		req.Code, req.StudentID, req.PreferredSlots, req.Location, req.Transmission, req.Note, req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting lesson request: %w", err)
	}
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*db.LessonRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM lesson_requests WHERE id = $1`, requestColumns)
	req, err := scanRequest(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperrors.NotFoundError{Resource: "lesson request", ID: id}
		}
		return nil, fmt.Errorf("error querying lesson request %d: %w", id, err)
	}
	return req, nil
}

func (r *RequestRepository) ListPending(ctx context.Context) ([]db.LessonRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM lesson_requests WHERE status = 'PENDING' ORDER BY created_at`, requestColumns)
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing pending requests: %w", err)
	}
	defer rows.Close()

	var requests []db.LessonRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning lesson request: %w", err)
		}
		requests = append(requests, *req)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating request rows: %w", err)
	}
	return requests, nil
}

// MarkHandled flips a request out of PENDING exactly once. The status
// guard in the WHERE clause is what makes a second accept or reject a
// detectable no-op instead of a duplicate lesson.
func (r *RequestRepository) MarkHandled(ctx context.Context, id int64, status schedule.RequestStatus, note string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE lesson_requests SET status = $1, note = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'PENDING'`,
		status, note, id)
	if err != nil {
		return false, fmt.Errorf("error updating lesson request %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %w", err)
	}
	return affected == 1, nil
}

// Reopen returns an accepted request to PENDING. Used to roll back an
// acceptance whose lesson creation failed.
func (r *RequestRepository) Reopen(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE lesson_requests SET status = 'PENDING', updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error reopening lesson request %d: %w", id, err)
	}
	return nil
}
