package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"

	"autoscuola/internal/apperrors"
	"autoscuola/internal/db"
	"autoscuola/internal/entities"
	"autoscuola/internal/schedule"
)

// dimensionColumns maps a conflict dimension to its lessons column.
var dimensionColumns = map[schedule.Dimension]string{
	schedule.DimInstructor: "instructor_id",
	schedule.DimStudent:    "student_id",
	schedule.DimVehicle:    "vehicle_id",
}

// conflictConstraints maps the exclusion constraints declared in the
// migrations back to the dimension whose no-overlap rule they enforce.
// A violation means a concurrent writer won the slot between our check
// and the insert.
var conflictConstraints = map[string]schedule.Dimension{
	"lessons_no_instructor_overlap": schedule.DimInstructor,
	"lessons_no_student_overlap":    schedule.DimStudent,
	"lessons_no_vehicle_overlap":    schedule.DimVehicle,
}

const pqExclusionViolation = "23P01"

const lessonColumns = `id, code, student_id, instructor_id, vehicle_id, start_at, end_at,
	status, location, cancel_reason, cancelled_by, reminder_sent, created_at, updated_at`

type LessonRepository struct {
	DB *sql.DB
}

func NewLessonRepository(database *sql.DB) *LessonRepository {
	return &LessonRepository{DB: database}
}

func scanLesson(row interface{ Scan(dest ...any) error }) (*db.Lesson, error) {
	var l db.Lesson
	err := row.Scan(
		&l.ID, &l.Code, &l.StudentID, &l.InstructorID, &l.VehicleID, &l.StartAt, &l.EndAt,
		&l.Status, &l.Location, &l.CancelReason, &l.CancelledBy, &l.ReminderSent,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// FindActiveOverlapping returns PLANNED/CONFIRMED lessons of the given
// resource whose [start_at, end_at) range intersects [start, end). One
// query serves all three dimensions so the checks cannot drift apart.
func (r *LessonRepository) FindActiveOverlapping(ctx context.Context, dim schedule.Dimension, resourceID int64, start, end time.Time) ([]db.Lesson, error) {
	column, ok := dimensionColumns[dim]
	if !ok {
		return nil, fmt.Errorf("unknown conflict dimension %q", dim)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM lessons
		WHERE %s = $1
		  AND status IN ('PLANNED', 'CONFIRMED')
		  AND start_at < $3
		  AND end_at > $2
		ORDER BY start_at`, lessonColumns, column)

	rows, err := r.DB.QueryContext(ctx, query, resourceID, start, end)
	if err != nil {
		return nil, fmt.Errorf("error querying overlapping lessons by %s: %w", dim, err)
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
		return nil, fmt.Errorf("error after iterating lesson rows: %w", err)
	}
	return lessons, nil
}

// Insert persists a new lesson. The exclusion constraints re-check the
// overlap rule atomically, so a lost race against a concurrent booking
// comes back as the matching conflict error instead of a raw pq error.
func (r *LessonRepository) Insert(ctx context.Context, l *db.Lesson) error {
	query := `
		INSERT INTO lessons
		(code, student_id, instructor_id, vehicle_id, start_at, end_at, status, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		l.Code, l.StudentID, l.InstructorID, l.VehicleID,
		l.StartAt, l.EndAt, l.Status, l.Location, l.CreatedAt, l.UpdatedAt,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return r.mapInsertError(err, l)
	}
	return nil
}

func (r *LessonRepository) mapInsertError(err error, l *db.Lesson) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqExclusionViolation {
		if dim, ok := conflictConstraints[pqErr.Constraint]; ok {
			conflict := &apperrors.ConflictError{Dimension: dim}
			switch dim {
			case schedule.DimInstructor:
				conflict.ResourceID = l.InstructorID
			case schedule.DimStudent:
				conflict.ResourceID = l.StudentID
			case schedule.DimVehicle:
				if l.VehicleID != nil {
					conflict.ResourceID = *l.VehicleID
				}
			}
			return conflict
		}
	}
	return fmt.Errorf("error inserting lesson: %w", err)
}

func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*db.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons WHERE id = $1`, lessonColumns)
	l, err := scanLesson(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperrors.NotFoundError{Resource: "lesson", ID: id}
		}
		return nil, fmt.Errorf("error querying lesson %d: %w", id, err)
	}
	return l, nil
}

// UpdateStatusFrom flips the status only when the lesson is still in
// the expected state, so concurrent transitions cannot double-apply.
func (r *LessonRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to schedule.Status) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE lessons SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return false, fmt.Errorf("error updating lesson %d status: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %w", err)
	}
	return affected == 1, nil
}

// CancelFrom records the cancellation reason and acting role together
// with the status flip.
func (r *LessonRepository) CancelFrom(ctx context.Context, id int64, from schedule.Status, reason string, role schedule.Role) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE lessons
		SET status = 'CANCELLED', cancel_reason = $1, cancelled_by = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4`,
		reason, role, id, from)
	if err != nil {
		return false, fmt.Errorf("error cancelling lesson %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %w", err)
	}
	return affected == 1, nil
}

// CompleteFrom flips the lesson to COMPLETED and stores its note in one
// transaction.
func (r *LessonRepository) CompleteFrom(ctx context.Context, id int64, from schedule.Status, note *db.LessonNote) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("error beginning completion tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE lessons SET status = 'COMPLETED', updated_at = NOW() WHERE id = $1 AND status = $2`,
		id, from)
	if err != nil {
		return false, fmt.Errorf("error completing lesson %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO lesson_notes (lesson_id, summary, next_goals, signature, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`,
		id, note.Summary, note.NextGoals, note.Signature,
	).Scan(&note.ID, &note.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("error inserting lesson note: %w", err)
	}
	note.LessonID = id

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("error committing completion tx: %w", err)
	}
	return true, nil
}

// List returns lessons matching the filter, most recent first.
func (r *LessonRepository) List(ctx context.Context, f entities.LessonFilter) ([]db.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons WHERE 1=1`, lessonColumns)
	args := []any{}
	idx := 1

	if f.InstructorID != 0 {
		query += " AND instructor_id = $" + strconv.Itoa(idx)
		args = append(args, f.InstructorID)
		idx++
	}
	if f.StudentID != 0 {
		query += " AND student_id = $" + strconv.Itoa(idx)
		args = append(args, f.StudentID)
		idx++
	}
	if f.VehicleID != 0 {
		query += " AND vehicle_id = $" + strconv.Itoa(idx)
		args = append(args, f.VehicleID)
		idx++
	}
	if f.Date != "" {
		query += " AND DATE(start_at) = $" + strconv.Itoa(idx)
		args = append(args, f.Date)
		idx++
	}
	if f.Status != "" {
		query += " AND status = $" + strconv.Itoa(idx)
		args = append(args, f.Status)
		idx++
	}
	query += " ORDER BY start_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing lessons: %w", err)
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
		return nil, fmt.Errorf("error after iterating lesson rows: %w", err)
	}
	return lessons, nil
}
