package service

import (
	"context"
	"time"

	"autoscuola/internal/db"
	"autoscuola/internal/entities"
	"autoscuola/internal/schedule"
)

// Store interfaces are kept small so tests can swap in-memory fakes for
// the lib/pq repositories.

type LessonStore interface {
	Insert(ctx context.Context, l *db.Lesson) error
	GetByID(ctx context.Context, id int64) (*db.Lesson, error)
	FindActiveOverlapping(ctx context.Context, dim schedule.Dimension, resourceID int64, start, end time.Time) ([]db.Lesson, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to schedule.Status) (bool, error)
	CancelFrom(ctx context.Context, id int64, from schedule.Status, reason string, role schedule.Role) (bool, error)
	CompleteFrom(ctx context.Context, id int64, from schedule.Status, note *db.LessonNote) (bool, error)
	List(ctx context.Context, f entities.LessonFilter) ([]db.Lesson, error)
}

type SkillStore interface {
	Upsert(ctx context.Context, s *db.StudentSkill) error
	ListByStudent(ctx context.Context, studentID int64) ([]db.StudentSkill, error)
}

type SettingStore interface {
	Get(ctx context.Context, key string) (string, error)
	GetInt(ctx context.Context, key string, fallback int) (int, error)
	Set(ctx context.Context, key, value string) error
}

type RequestStore interface {
	Insert(ctx context.Context, req *db.LessonRequest) error
	GetByID(ctx context.Context, id int64) (*db.LessonRequest, error)
	ListPending(ctx context.Context) ([]db.LessonRequest, error)
	MarkHandled(ctx context.Context, id int64, status schedule.RequestStatus, note string) (bool, error)
	Reopen(ctx context.Context, id int64) error
}

type AvailabilityStore interface {
	CreateSlot(ctx context.Context, s *db.AvailabilitySlot) error
	DeleteSlot(ctx context.Context, id, instructorID int64) (bool, error)
	ListSlots(ctx context.Context, instructorID int64, from, to time.Time) ([]db.AvailabilitySlot, error)
	CoveringSlotExists(ctx context.Context, instructorID int64, start, end time.Time) (bool, error)
	CreateTimeOff(ctx context.Context, t *db.TimeOff) error
	DeleteTimeOff(ctx context.Context, id, instructorID int64) (bool, error)
	ListTimeOff(ctx context.Context, instructorID int64, from, to time.Time) ([]db.TimeOff, error)
	TimeOffOverlapping(ctx context.Context, instructorID int64, start, end time.Time) (bool, error)
}

// Notifier fans lesson state changes out to email/SMS. Implementations
// must not block the request path.
type Notifier interface {
	LessonBooked(l *db.Lesson)
	LessonConfirmed(l *db.Lesson)
	LessonCancelled(l *db.Lesson)
	LessonReminder(l *db.Lesson)
}

// NopNotifier is used where notifications are switched off.
type NopNotifier struct{}

func (NopNotifier) LessonBooked(*db.Lesson)    {}
func (NopNotifier) LessonConfirmed(*db.Lesson) {}
func (NopNotifier) LessonCancelled(*db.Lesson) {}
func (NopNotifier) LessonReminder(*db.Lesson)  {}
