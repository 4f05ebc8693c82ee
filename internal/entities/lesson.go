package entities

import (
	"time"

	"autoscuola/internal/schedule"
)

// BookLessonInput is the payload for a direct booking.
type BookLessonInput struct {
	StudentID    int64     `json:"student_id"`
	InstructorID int64     `json:"instructor_id"`
	VehicleID    *int64    `json:"vehicle_id,omitempty"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	Location     string    `json:"location"`
}

type CancelLessonInput struct {
	Reason string `json:"reason"`
}

// SkillAssessment is one graded skill recorded at lesson completion.
type SkillAssessment struct {
	SkillID int64 `json:"skill_id"`
	Level   int   `json:"level"`
}

type CompleteLessonInput struct {
	Summary   string            `json:"summary"`
	NextGoals string            `json:"next_goals"`
	Signature *string           `json:"signature,omitempty"`
	Skills    []SkillAssessment `json:"skills,omitempty"`
}

// LessonFilter narrows staff lesson listings. Zero values mean "any".
type LessonFilter struct {
	InstructorID int64
	StudentID    int64
	VehicleID    int64
	Date         string
	Status       schedule.Status
}

type LessonResponse struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	StudentID    int64           `json:"student_id"`
	InstructorID int64           `json:"instructor_id"`
	VehicleID    *int64          `json:"vehicle_id,omitempty"`
	StartAt      time.Time       `json:"start_at"`
	EndAt        time.Time       `json:"end_at"`
	Status       schedule.Status `json:"status"`
	Location     string          `json:"location"`
	CancelReason *string         `json:"cancel_reason,omitempty"`
	CancelledBy  *schedule.Role  `json:"cancelled_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
