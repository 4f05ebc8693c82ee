package db

import (
	"time"

	"autoscuola/internal/schedule"
)

// User is any account known to the school: student, instructor or staff.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         schedule.Role
	FullName     string
	Phone        string
	CreatedAt    time.Time
}

type Vehicle struct {
	ID           int64
	Plate        string
	Model        string
	Transmission string
	CreatedAt    time.Time
}

// Lesson is one scheduled driving session over the half-open range
// [StartAt, EndAt).
type Lesson struct {
	ID           int64
	Code         string
	StudentID    int64
	InstructorID int64
	VehicleID    *int64
	StartAt      time.Time
	EndAt        time.Time
	Status       schedule.Status
	Location     string
	CancelReason *string
	CancelledBy  *schedule.Role
	ReminderSent bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LessonNote is the post-lesson summary recorded at completion.
type LessonNote struct {
	ID        int64
	LessonID  int64
	Summary   string
	NextGoals string
	Signature *string
	CreatedAt time.Time
}

type Skill struct {
	ID       int64
	Name     string
	Category string
}

// StudentSkill is the aggregate per (student, skill) record; assessments
// upsert it, last write wins.
type StudentSkill struct {
	StudentID int64
	SkillID   int64
	Level     int
	Status    string
	UpdatedAt time.Time
}

// AvailabilitySlot is an instructor's open time window. The recurrence
// rule is stored verbatim for the front end; the booking flow treats
// slots as concrete windows.
type AvailabilitySlot struct {
	ID           int64
	InstructorID int64
	StartAt      time.Time
	EndAt        time.Time
	Location     string
	Recurrence   *string
	IsBlocked    bool
	CreatedAt    time.Time
}

type TimeOff struct {
	ID           int64
	InstructorID int64
	StartAt      time.Time
	EndAt        time.Time
	Reason       string
	CreatedAt    time.Time
}

// LessonRequest is a student's submitted preference. PreferredSlots
// holds the ordered candidate ranges as raw JSON.
type LessonRequest struct {
	ID             int64
	Code           string
	StudentID      int64
	PreferredSlots []byte
	Location       string
	Transmission   string
	Note           string
	Status         schedule.RequestStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
