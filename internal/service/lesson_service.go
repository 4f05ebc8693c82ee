package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"autoscuola/internal/apperrors"
	"autoscuola/internal/db"
	"autoscuola/internal/entities"
	"autoscuola/internal/schedule"
)

// SettingCancellationHours is the settings key read before student
// cancellations.
const SettingCancellationHours = "cancellation_hours"

type LessonService struct {
	lessons  LessonStore
	skills   SkillStore
	settings SettingStore
	avail    AvailabilityStore
	notifier Notifier
	logger   *zap.Logger

	enforceAvailability      bool
	defaultCancellationHours int
	now                      func() time.Time
}

func NewLessonService(
	lessons LessonStore,
	skills SkillStore,
	settings SettingStore,
	avail AvailabilityStore,
	notifier Notifier,
	logger *zap.Logger,
	enforceAvailability bool,
	defaultCancellationHours int,
) *LessonService {
	return &LessonService{
		lessons:                  lessons,
		skills:                   skills,
		settings:                 settings,
		avail:                    avail,
		notifier:                 notifier,
		logger:                   logger,
		enforceAvailability:      enforceAvailability,
		defaultCancellationHours: defaultCancellationHours,
		now:                      time.Now,
	}
}

// CheckAndCreate books a lesson directly. The candidate is validated,
// checked for conflicts across instructor, student and vehicle, and
// created in PLANNED.
func (s *LessonService) CheckAndCreate(ctx context.Context, in entities.BookLessonInput) (*db.Lesson, error) {
	return s.create(ctx, in, schedule.StatusPlanned)
}

// create runs the full admission sequence for the given initial status.
// Request acceptance reuses it with CONFIRMED.
func (s *LessonService) create(ctx context.Context, in entities.BookLessonInput, status schedule.Status) (*db.Lesson, error) {
	if !schedule.ValidRange(in.StartAt, in.EndAt) {
		return nil, apperrors.ErrInvalidRange
	}

	if s.enforceAvailability {
		if err := s.checkAvailability(ctx, in); err != nil {
			return nil, err
		}
	}

	if err := s.findConflict(ctx, in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	lesson := &db.Lesson{
		Code:         uuid.NewString(),
		StudentID:    in.StudentID,
		InstructorID: in.InstructorID,
		VehicleID:    in.VehicleID,
		StartAt:      in.StartAt,
		EndAt:        in.EndAt,
		Status:       status,
		Location:     in.Location,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Insert re-surfaces a lost race against a concurrent booking as the
	// same conflict error the checks above would have produced.
	if err := s.lessons.Insert(ctx, lesson); err != nil {
		return nil, err
	}

	s.logger.Info("lesson booked",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("student_id", lesson.StudentID),
		zap.Int64("instructor_id", lesson.InstructorID),
		zap.Time("start_at", lesson.StartAt),
		zap.String("status", string(lesson.Status)),
	)
	s.notifier.LessonBooked(lesson)

	return lesson, nil
}

// findConflict checks instructor, then student, then vehicle. The order
// is fixed: it decides which conflict is reported when several apply.
func (s *LessonService) findConflict(ctx context.Context, in entities.BookLessonInput) error {
	checks := []struct {
		dim        schedule.Dimension
		resourceID int64
	}{
		{schedule.DimInstructor, in.InstructorID},
		{schedule.DimStudent, in.StudentID},
	}
	if in.VehicleID != nil {
		checks = append(checks, struct {
			dim        schedule.Dimension
			resourceID int64
		}{schedule.DimVehicle, *in.VehicleID})
	}

	for _, check := range checks {
		overlapping, err := s.lessons.FindActiveOverlapping(ctx, check.dim, check.resourceID, in.StartAt, in.EndAt)
		if err != nil {
			return fmt.Errorf("error checking %s conflicts: %w", check.dim, err)
		}
		if len(overlapping) > 0 {
			return &apperrors.ConflictError{
				Dimension:        check.dim,
				ResourceID:       check.resourceID,
				ConflictLessonID: overlapping[0].ID,
			}
		}
	}
	return nil
}

func (s *LessonService) checkAvailability(ctx context.Context, in entities.BookLessonInput) error {
	covered, err := s.avail.CoveringSlotExists(ctx, in.InstructorID, in.StartAt, in.EndAt)
	if err != nil {
		return fmt.Errorf("error checking availability slots: %w", err)
	}
	if !covered {
		return &apperrors.AvailabilityError{InstructorID: in.InstructorID, Reason: "no open availability slot covers the range"}
	}

	off, err := s.avail.TimeOffOverlapping(ctx, in.InstructorID, in.StartAt, in.EndAt)
	if err != nil {
		return fmt.Errorf("error checking time off: %w", err)
	}
	if off {
		return &apperrors.AvailabilityError{InstructorID: in.InstructorID, Reason: "range overlaps declared time off"}
	}
	return nil
}

func (s *LessonService) GetByID(ctx context.Context, id int64) (*db.Lesson, error) {
	return s.lessons.GetByID(ctx, id)
}

func (s *LessonService) List(ctx context.Context, f entities.LessonFilter) ([]db.Lesson, error) {
	return s.lessons.List(ctx, f)
}

// Confirm moves a PLANNED lesson to CONFIRMED.
func (s *LessonService) Confirm(ctx context.Context, id int64) (*db.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !schedule.CanTransition(lesson.Status, schedule.StatusConfirmed) {
		return nil, &apperrors.InvalidTransitionError{From: lesson.Status, To: schedule.StatusConfirmed}
	}

	ok, err := s.lessons.UpdateStatusFrom(ctx, id, lesson.Status, schedule.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race against another transition; report off the state
		// it moved to.
		current, err := s.lessons.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, &apperrors.InvalidTransitionError{From: current.Status, To: schedule.StatusConfirmed}
	}
	lesson.Status = schedule.StatusConfirmed

	s.logger.Info("lesson confirmed", zap.Int64("lesson_id", id))
	s.notifier.LessonConfirmed(lesson)
	return lesson, nil
}

// Cancel moves an active lesson to CANCELLED. Students are held to the
// cancellation window; staff and instructors are not.
func (s *LessonService) Cancel(ctx context.Context, id int64, actor schedule.Role, reason string) (*db.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !schedule.CanTransition(lesson.Status, schedule.StatusCancelled) {
		return nil, &apperrors.InvalidTransitionError{From: lesson.Status, To: schedule.StatusCancelled}
	}

	threshold, err := s.settings.GetInt(ctx, SettingCancellationHours, s.defaultCancellationHours)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if !schedule.CancellationAllowed(actor, now, lesson.StartAt, threshold) {
		return nil, &apperrors.CancellationWindowError{
			HoursRemaining: schedule.HoursUntil(now, lesson.StartAt),
			ThresholdHours: threshold,
		}
	}

	ok, err := s.lessons.CancelFrom(ctx, id, lesson.Status, reason, actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := s.lessons.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, &apperrors.InvalidTransitionError{From: current.Status, To: schedule.StatusCancelled}
	}
	lesson.Status = schedule.StatusCancelled
	lesson.CancelReason = &reason
	lesson.CancelledBy = &actor

	s.logger.Info("lesson cancelled",
		zap.Int64("lesson_id", id),
		zap.String("by_role", string(actor)),
	)
	s.notifier.LessonCancelled(lesson)
	return lesson, nil
}

// Complete closes an active lesson, recording the note and upserting the
// assessed skills. A level 3 assessment marks the skill acquired.
func (s *LessonService) Complete(ctx context.Context, id int64, in entities.CompleteLessonInput) (*db.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !schedule.CanTransition(lesson.Status, schedule.StatusCompleted) {
		return nil, &apperrors.InvalidTransitionError{From: lesson.Status, To: schedule.StatusCompleted}
	}

	note := &db.LessonNote{
		Summary:   in.Summary,
		NextGoals: in.NextGoals,
		Signature: in.Signature,
	}
	ok, err := s.lessons.CompleteFrom(ctx, id, lesson.Status, note)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := s.lessons.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, &apperrors.InvalidTransitionError{From: current.Status, To: schedule.StatusCompleted}
	}
	lesson.Status = schedule.StatusCompleted

	now := s.now().UTC()
	for _, assessment := range in.Skills {
		record := &db.StudentSkill{
			StudentID: lesson.StudentID,
			SkillID:   assessment.SkillID,
			Level:     assessment.Level,
			Status:    schedule.SkillStatusForLevel(assessment.Level),
			UpdatedAt: now,
		}
		if err := s.skills.Upsert(ctx, record); err != nil {
			return nil, fmt.Errorf("error recording skill %d: %w", assessment.SkillID, err)
		}
	}

	s.logger.Info("lesson completed",
		zap.Int64("lesson_id", id),
		zap.Int("skills_assessed", len(in.Skills)),
	)
	return lesson, nil
}

func (s *LessonService) StudentSkills(ctx context.Context, studentID int64) ([]db.StudentSkill, error) {
	return s.skills.ListByStudent(ctx, studentID)
}
