package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"autoscuola/internal/auth"
	"autoscuola/internal/entities"
	"autoscuola/internal/schedule"
	"autoscuola/internal/service"
)

type AvailabilityHandler struct {
	Service *service.AvailabilityService
}

func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

func (h *AvailabilityHandler) Overview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	instructorID, err := strconv.ParseInt(query.Get("instructor_id"), 10, 64)
	if err != nil {
		http.Error(w, "instructor_id is required", http.StatusBadRequest)
		return
	}
	from, err := time.Parse(time.RFC3339, query.Get("from"))
	if err != nil {
		http.Error(w, "from must be RFC 3339", http.StatusBadRequest)
		return
	}
	to, err := time.Parse(time.RFC3339, query.Get("to"))
	if err != nil {
		http.Error(w, "to must be RFC 3339", http.StatusBadRequest)
		return
	}

	overview, err := h.Service.Overview(r.Context(), instructorID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *AvailabilityHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateSlotInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	// Instructors only manage their own calendar; staff may pick any.
	if actor, ok := auth.ActorFrom(r.Context()); ok && actor.Role == schedule.RoleInstructor {
		req.InstructorID = actor.UserID
	}

	slot, err := h.Service.CreateSlot(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}

func (h *AvailabilityHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	instructorID := h.scopedInstructorID(r)
	if instructorID == 0 {
		http.Error(w, "instructor_id is required", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteSlot(r.Context(), id, instructorID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Availability slot deleted"})
}

func (h *AvailabilityHandler) CreateTimeOff(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateTimeOffInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if actor, ok := auth.ActorFrom(r.Context()); ok && actor.Role == schedule.RoleInstructor {
		req.InstructorID = actor.UserID
	}

	timeOff, err := h.Service.CreateTimeOff(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, timeOff)
}

func (h *AvailabilityHandler) DeleteTimeOff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	instructorID := h.scopedInstructorID(r)
	if instructorID == 0 {
		http.Error(w, "instructor_id is required", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteTimeOff(r.Context(), id, instructorID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Time off deleted"})
}

// scopedInstructorID resolves whose calendar a delete touches: the
// caller's own for instructors, the instructor_id query param for staff.
func (h *AvailabilityHandler) scopedInstructorID(r *http.Request) int64 {
	actor, ok := auth.ActorFrom(r.Context())
	if ok && actor.Role == schedule.RoleInstructor {
		return actor.UserID
	}
	id, _ := strconv.ParseInt(r.URL.Query().Get("instructor_id"), 10, 64)
	return id
}
