package entities

import "time"

type CreateSlotInput struct {
	InstructorID int64     `json:"instructor_id"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	Location     string    `json:"location"`
	Recurrence   *string   `json:"recurrence,omitempty"`
	IsBlocked    bool      `json:"is_blocked"`
}

type CreateTimeOffInput struct {
	InstructorID int64     `json:"instructor_id"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	Reason       string    `json:"reason"`
}

type SlotResponse struct {
	ID           int64     `json:"id"`
	InstructorID int64     `json:"instructor_id"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	Location     string    `json:"location"`
	Recurrence   *string   `json:"recurrence,omitempty"`
	IsBlocked    bool      `json:"is_blocked"`
}

type TimeOffResponse struct {
	ID           int64     `json:"id"`
	InstructorID int64     `json:"instructor_id"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	Reason       string    `json:"reason"`
}

// AvailabilityOverview is what the booking UI renders for one
// instructor over a date range.
type AvailabilityOverview struct {
	InstructorID int64             `json:"instructor_id"`
	From         time.Time         `json:"from"`
	To           time.Time         `json:"to"`
	Slots        []SlotResponse    `json:"slots"`
	TimeOff      []TimeOffResponse `json:"time_off"`
}
