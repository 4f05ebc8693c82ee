package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"autoscuola/internal/apperrors"
	"autoscuola/internal/db"
	"autoscuola/internal/entities"
	"autoscuola/internal/schedule"
)

// RequestService bridges student lesson requests to concrete lessons.
type RequestService struct {
	requests RequestStore
	lessons  *LessonService
	logger   *zap.Logger
}

func NewRequestService(requests RequestStore, lessons *LessonService, logger *zap.Logger) *RequestService {
	return &RequestService{requests: requests, lessons: lessons, logger: logger}
}

// Submit stores a student's preferred slots for staff to pick from.
func (s *RequestService) Submit(ctx context.Context, in entities.SubmitRequestInput) (*db.LessonRequest, error) {
	if len(in.PreferredSlots) == 0 {
		return nil, apperrors.NewHTTPError(400, "at least one preferred slot is required")
	}
	for _, slot := range in.PreferredSlots {
		if !schedule.ValidRange(slot.StartAt, slot.EndAt) {
			return nil, apperrors.ErrInvalidRange
		}
	}

	slots, err := json.Marshal(in.PreferredSlots)
	if err != nil {
		return nil, fmt.Errorf("error encoding preferred slots: %w", err)
	}

	req := &db.LessonRequest{
		Code:           uuid.NewString(),
		StudentID:      in.StudentID,
		PreferredSlots: slots,
		Location:       in.Location,
		Transmission:   in.Transmission,
		Note:           in.Note,
		Status:         schedule.RequestPending,
	}
	if err := s.requests.Insert(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("lesson request submitted",
		zap.Int64("request_id", req.ID),
		zap.Int64("student_id", req.StudentID),
		zap.Int("preferred_slots", len(in.PreferredSlots)),
	)
	return req, nil
}

func (s *RequestService) GetByID(ctx context.Context, id int64) (*db.LessonRequest, error) {
	return s.requests.GetByID(ctx, id)
}

func (s *RequestService) ListPending(ctx context.Context) ([]db.LessonRequest, error) {
	return s.requests.ListPending(ctx)
}

// Accept turns a pending request into a CONFIRMED lesson using the
// concrete slot staff picked. The booking goes through the same conflict
// checks as a direct booking. The request is flipped first under a
// PENDING guard, so two concurrent accepts cannot both create a lesson;
// if the booking then fails, the request is reopened.
func (s *RequestService) Accept(ctx context.Context, requestID int64, in entities.AcceptRequestInput) (*db.Lesson, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != schedule.RequestPending {
		return nil, apperrors.ErrRequestAlreadyHandled
	}

	ok, err := s.requests.MarkHandled(ctx, requestID, schedule.RequestAccepted, req.Note)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrRequestAlreadyHandled
	}

	location := in.Location
	if location == "" {
		location = req.Location
	}
	lesson, err := s.lessons.create(ctx, entities.BookLessonInput{
		StudentID:    req.StudentID,
		InstructorID: in.InstructorID,
		VehicleID:    in.VehicleID,
		StartAt:      in.StartAt,
		EndAt:        in.EndAt,
		Location:     location,
	}, schedule.StatusConfirmed)
	if err != nil {
		if reopenErr := s.requests.Reopen(ctx, requestID); reopenErr != nil {
			s.logger.Error("failed to reopen lesson request after booking failure",
				zap.Int64("request_id", requestID),
				zap.Error(reopenErr),
			)
		}
		return nil, err
	}

	s.logger.Info("lesson request accepted",
		zap.Int64("request_id", requestID),
		zap.Int64("lesson_id", lesson.ID),
	)
	return lesson, nil
}

// Reject closes a pending request, appending the staff reason to its
// note. No lesson is created.
func (s *RequestService) Reject(ctx context.Context, requestID int64, reason string) (*db.LessonRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != schedule.RequestPending {
		return nil, apperrors.ErrRequestAlreadyHandled
	}

	note := req.Note
	if reason != "" {
		note = strings.TrimSpace(note + "\nRejected: " + reason)
	}

	ok, err := s.requests.MarkHandled(ctx, requestID, schedule.RequestRejected, note)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrRequestAlreadyHandled
	}
	req.Status = schedule.RequestRejected
	req.Note = note

	s.logger.Info("lesson request rejected", zap.Int64("request_id", requestID))
	return req, nil
}
