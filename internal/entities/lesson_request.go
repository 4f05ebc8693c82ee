package entities

import (
	"time"

	"autoscuola/internal/schedule"
)

// PreferredSlot is one candidate range in a student's lesson request.
type PreferredSlot struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

type SubmitRequestInput struct {
	StudentID      int64           `json:"student_id"`
	PreferredSlots []PreferredSlot `json:"preferred_slots"`
	Location       string          `json:"location"`
	Transmission   string          `json:"transmission"`
	Note           string          `json:"note"`
}

// AcceptRequestInput carries the concrete booking staff picked for a
// pending request. Location falls back to the request's stored location
// when empty.
type AcceptRequestInput struct {
	InstructorID int64     `json:"instructor_id"`
	VehicleID    *int64    `json:"vehicle_id,omitempty"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	Location     string    `json:"location"`
}

type RejectRequestInput struct {
	Reason string `json:"reason"`
}

type LessonRequestResponse struct {
	ID             int64                  `json:"id"`
	Code           string                 `json:"code"`
	StudentID      int64                  `json:"student_id"`
	PreferredSlots []PreferredSlot        `json:"preferred_slots"`
	Location       string                 `json:"location"`
	Transmission   string                 `json:"transmission"`
	Note           string                 `json:"note"`
	Status         schedule.RequestStatus `json:"status"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}
