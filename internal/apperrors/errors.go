package apperrors

import (
	"errors"
	"fmt"

	"autoscuola/internal/schedule"
)

// Sentinel business errors.
var (
	// ErrInvalidRange rejects candidates whose start is not strictly
	// before their end, before any conflict check runs.
	ErrInvalidRange = errors.New("start time must be before end time")

	// ErrRequestAlreadyHandled guards lesson requests that were already
	// accepted or rejected.
	ErrRequestAlreadyHandled = errors.New("lesson request has already been accepted or rejected")
)

// NotFoundError reports a missing lesson, request or other resource.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError reports a double-booking on one resource dimension.
// ConflictLessonID is zero when the conflict was detected by the store's
// exclusion constraint rather than the lookup query.
type ConflictError struct {
	Dimension        schedule.Dimension
	ResourceID       int64
	ConflictLessonID int64
}

func (e *ConflictError) Error() string {
	if e.ConflictLessonID == 0 {
		return fmt.Sprintf("%s %d already has an active lesson in the requested range", e.Dimension, e.ResourceID)
	}
	return fmt.Sprintf("%s %d already has an active lesson (id %d) overlapping the requested range",
		e.Dimension, e.ResourceID, e.ConflictLessonID)
}

// CancellationWindowError reports a student cancellation inside the
// protected window.
type CancellationWindowError struct {
	HoursRemaining float64
	ThresholdHours int
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("lesson starts in %.1f hours, students must cancel at least %d hours in advance",
		e.HoursRemaining, e.ThresholdHours)
}

// InvalidTransitionError reports a status change not reachable from the
// lesson's current state.
type InvalidTransitionError struct {
	From schedule.Status
	To   schedule.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("lesson status %s cannot change to %s", e.From, e.To)
}

// AvailabilityError rejects a booking that falls outside the
// instructor's declared availability or inside a time-off window. Only
// raised when availability enforcement is switched on.
type AvailabilityError struct {
	InstructorID int64
	Reason       string
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("instructor %d is not available for the requested range: %s", e.InstructorID, e.Reason)
}
