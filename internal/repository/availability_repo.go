package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"autoscuola/internal/db"
)

type AvailabilityRepository struct {
	DB *sql.DB
}

func NewAvailabilityRepository(database *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{DB: database}
}

func (r *AvailabilityRepository) CreateSlot(ctx context.Context, s *db.AvailabilitySlot) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO availability_slots (instructor_id, start_at, end_at, location, recurrence, is_blocked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at`,
		s.InstructorID, s.StartAt, s.EndAt, s.Location, s.Recurrence, s.IsBlocked,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting availability slot: %w", err)
	}
	return nil
}

func (r *AvailabilityRepository) DeleteSlot(ctx context.Context, id, instructorID int64) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM availability_slots WHERE id = $1 AND instructor_id = $2`, id, instructorID)
	if err != nil {
		return false, fmt.Errorf("error deleting availability slot %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *AvailabilityRepository) ListSlots(ctx context.Context, instructorID int64, from, to time.Time) ([]db.AvailabilitySlot, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, instructor_id, start_at, end_at, location, recurrence, is_blocked, created_at
		FROM availability_slots
		WHERE instructor_id = $1 AND start_at < $3 AND end_at > $2
		ORDER BY start_at`,
		instructorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error listing availability slots: %w", err)
	}
	defer rows.Close()

	var slots []db.AvailabilitySlot
	for rows.Next() {
		var s db.AvailabilitySlot
		if err := rows.Scan(&s.ID, &s.InstructorID, &s.StartAt, &s.EndAt, &s.Location, &s.Recurrence, &s.IsBlocked, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning availability slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating slot rows: %w", err)
	}
	return slots, nil
}

// CoveringSlotExists reports whether a non-blocked slot of the
// instructor fully contains [start, end).
func (r *AvailabilityRepository) CoveringSlotExists(ctx context.Context, instructorID int64, start, end time.Time) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM availability_slots
			WHERE instructor_id = $1 AND NOT is_blocked
			  AND start_at <= $2 AND end_at >= $3
		)`, instructorID, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking covering slot: %w", err)
	}
	return exists, nil
}

// TimeOffOverlapping reports whether any time-off window of the
// instructor intersects [start, end).
func (r *AvailabilityRepository) TimeOffOverlapping(ctx context.Context, instructorID int64, start, end time.Time) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM time_off
			WHERE instructor_id = $1 AND start_at < $3 AND end_at > $2
		)`, instructorID, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking time off: %w", err)
	}
	return exists, nil
}

func (r *AvailabilityRepository) CreateTimeOff(ctx context.Context, t *db.TimeOff) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO time_off (instructor_id, start_at, end_at, reason, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`,
		t.InstructorID, t.StartAt, t.EndAt, t.Reason,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting time off: %w", err)
	}
	return nil
}

func (r *AvailabilityRepository) DeleteTimeOff(ctx context.Context, id, instructorID int64) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM time_off WHERE id = $1 AND instructor_id = $2`, id, instructorID)
	if err != nil {
		return false, fmt.Errorf("error deleting time off %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *AvailabilityRepository) ListTimeOff(ctx context.Context, instructorID int64, from, to time.Time) ([]db.TimeOff, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, instructor_id, start_at, end_at, reason, created_at
		FROM time_off
		WHERE instructor_id = $1 AND start_at < $3 AND end_at > $2
		ORDER BY start_at`,
		instructorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error listing time off: %w", err)
	}
	defer rows.Close()

	var windows []db.TimeOff
	for rows.Next() {
		var t db.TimeOff
		if err := rows.Scan(&t.ID, &t.InstructorID, &t.StartAt, &t.EndAt, &t.Reason, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning time off: %w", err)
		}
		windows = append(windows, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating time off rows: %w", err)
	}
	return windows, nil
}
