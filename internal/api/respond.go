package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"autoscuola/internal/apperrors"
	"autoscuola/internal/db"
	"autoscuola/internal/entities"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to status codes and a JSON body with
// enough context for the front end to explain the failure.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	payload := map[string]any{"error": message}

	var conflict *apperrors.ConflictError
	if errors.As(err, &conflict) {
		payload["conflict_dimension"] = conflict.Dimension
		payload["resource_id"] = conflict.ResourceID
		if conflict.ConflictLessonID != 0 {
			payload["conflicting_lesson_id"] = conflict.ConflictLessonID
		}
	}

	var window *apperrors.CancellationWindowError
	if errors.As(err, &window) {
		payload["hours_remaining"] = window.HoursRemaining
		payload["threshold_hours"] = window.ThresholdHours
	}

	writeJSON(w, status, payload)
}

func lessonResponse(l *db.Lesson) entities.LessonResponse {
	return entities.LessonResponse{
		ID:           l.ID,
		Code:         l.Code,
		StudentID:    l.StudentID,
		InstructorID: l.InstructorID,
		VehicleID:    l.VehicleID,
		StartAt:      l.StartAt,
		EndAt:        l.EndAt,
		Status:       l.Status,
		Location:     l.Location,
		CancelReason: l.CancelReason,
		CancelledBy:  l.CancelledBy,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func requestResponse(req *db.LessonRequest) entities.LessonRequestResponse {
	var slots []entities.PreferredSlot
	// Stored JSON was validated on submission.
	json.Unmarshal(req.PreferredSlots, &slots)

	return entities.LessonRequestResponse{
		ID:             req.ID,
		Code:           req.Code,
		StudentID:      req.StudentID,
		PreferredSlots: slots,
		Location:       req.Location,
		Transmission:   req.Transmission,
		Note:           req.Note,
		Status:         req.Status,
		CreatedAt:      req.CreatedAt,
		UpdatedAt:      req.UpdatedAt,
	}
}
