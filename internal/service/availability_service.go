package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"autoscuola/internal/apperrors"
	"autoscuola/internal/db"
	"autoscuola/internal/entities"
	"autoscuola/internal/schedule"
)

// AvailabilityService manages instructor availability slots and time
// off. The booking flow consults these read-only.
type AvailabilityService struct {
	store  AvailabilityStore
	logger *zap.Logger
}

func NewAvailabilityService(store AvailabilityStore, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{store: store, logger: logger}
}

func (s *AvailabilityService) CreateSlot(ctx context.Context, in entities.CreateSlotInput) (*db.AvailabilitySlot, error) {
	if !schedule.ValidRange(in.StartAt, in.EndAt) {
		return nil, apperrors.ErrInvalidRange
	}
	slot := &db.AvailabilitySlot{
		InstructorID: in.InstructorID,
		StartAt:      in.StartAt,
		EndAt:        in.EndAt,
		Location:     in.Location,
		Recurrence:   in.Recurrence,
		IsBlocked:    in.IsBlocked,
	}
	if err := s.store.CreateSlot(ctx, slot); err != nil {
		return nil, err
	}
	s.logger.Info("availability slot created",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("instructor_id", slot.InstructorID),
	)
	return slot, nil
}

func (s *AvailabilityService) DeleteSlot(ctx context.Context, id, instructorID int64) error {
	ok, err := s.store.DeleteSlot(ctx, id, instructorID)
	if err != nil {
		return err
	}
	if !ok {
		return &apperrors.NotFoundError{Resource: "availability slot", ID: id}
	}
	return nil
}

func (s *AvailabilityService) CreateTimeOff(ctx context.Context, in entities.CreateTimeOffInput) (*db.TimeOff, error) {
	if !schedule.ValidRange(in.StartAt, in.EndAt) {
		return nil, apperrors.ErrInvalidRange
	}
	timeOff := &db.TimeOff{
		InstructorID: in.InstructorID,
		StartAt:      in.StartAt,
		EndAt:        in.EndAt,
		Reason:       in.Reason,
	}
	if err := s.store.CreateTimeOff(ctx, timeOff); err != nil {
		return nil, err
	}
	s.logger.Info("time off created",
		zap.Int64("time_off_id", timeOff.ID),
		zap.Int64("instructor_id", timeOff.InstructorID),
	)
	return timeOff, nil
}

func (s *AvailabilityService) DeleteTimeOff(ctx context.Context, id, instructorID int64) error {
	ok, err := s.store.DeleteTimeOff(ctx, id, instructorID)
	if err != nil {
		return err
	}
	if !ok {
		return &apperrors.NotFoundError{Resource: "time off", ID: id}
	}
	return nil
}

// Overview gathers slots and time off for one instructor over a range,
// the shape the booking calendar renders.
func (s *AvailabilityService) Overview(ctx context.Context, instructorID int64, from, to time.Time) (*entities.AvailabilityOverview, error) {
	if !schedule.ValidRange(from, to) {
		return nil, apperrors.ErrInvalidRange
	}

	slots, err := s.store.ListSlots(ctx, instructorID, from, to)
	if err != nil {
		return nil, err
	}
	timeOff, err := s.store.ListTimeOff(ctx, instructorID, from, to)
	if err != nil {
		return nil, err
	}

	overview := &entities.AvailabilityOverview{
		InstructorID: instructorID,
		From:         from,
		To:           to,
		Slots:        make([]entities.SlotResponse, 0, len(slots)),
		TimeOff:      make([]entities.TimeOffResponse, 0, len(timeOff)),
	}
	for _, slot := range slots {
		overview.Slots = append(overview.Slots, entities.SlotResponse{
			ID:           slot.ID,
			InstructorID: slot.InstructorID,
			StartAt:      slot.StartAt,
			EndAt:        slot.EndAt,
			Location:     slot.Location,
			Recurrence:   slot.Recurrence,
			IsBlocked:    slot.IsBlocked,
		})
	}
	for _, t := range timeOff {
		overview.TimeOff = append(overview.TimeOff, entities.TimeOffResponse{
			ID:           t.ID,
			InstructorID: t.InstructorID,
			StartAt:      t.StartAt,
			EndAt:        t.EndAt,
			Reason:       t.Reason,
		})
	}
	return overview, nil
}
