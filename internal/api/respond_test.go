package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoscuola/internal/apperrors"
	"autoscuola/internal/schedule"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid range", apperrors.ErrInvalidRange, http.StatusBadRequest},
		{"not found", &apperrors.NotFoundError{Resource: "lesson", ID: 7}, http.StatusNotFound},
		{"conflict", &apperrors.ConflictError{Dimension: schedule.DimInstructor, ResourceID: 10}, http.StatusConflict},
		{"invalid transition", &apperrors.InvalidTransitionError{From: schedule.StatusCompleted, To: schedule.StatusCancelled}, http.StatusConflict},
		{"request already handled", apperrors.ErrRequestAlreadyHandled, http.StatusConflict},
		{"cancellation window", &apperrors.CancellationWindowError{HoursRemaining: 24, ThresholdHours: 48}, http.StatusUnprocessableEntity},
		{"availability", &apperrors.AvailabilityError{InstructorID: 10, Reason: "time off"}, http.StatusUnprocessableEntity},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWriteErrorConflictPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, &apperrors.ConflictError{
		Dimension:        schedule.DimVehicle,
		ResourceID:       100,
		ConflictLessonID: 42,
	})

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "vehicle", payload["conflict_dimension"])
	assert.Equal(t, float64(100), payload["resource_id"])
	assert.Equal(t, float64(42), payload["conflicting_lesson_id"])
}

func TestWriteErrorWindowPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, &apperrors.CancellationWindowError{HoursRemaining: 23.5, ThresholdHours: 48})

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 23.5, payload["hours_remaining"])
	assert.Equal(t, float64(48), payload["threshold_hours"])
}

func TestWriteErrorMasksInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: connection refused at 10.0.0.3"))

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "internal server error", payload["error"])
}
