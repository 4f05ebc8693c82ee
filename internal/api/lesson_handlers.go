package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"autoscuola/internal/auth"
	"autoscuola/internal/entities"
	"autoscuola/internal/schedule"
	"autoscuola/internal/service"
)

type LessonHandler struct {
	Service *service.LessonService
}

func NewLessonHandler(svc *service.LessonService) *LessonHandler {
	return &LessonHandler{Service: svc}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

func (h *LessonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entities.BookLessonInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	lesson, err := h.Service.CheckAndCreate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lessonResponse(lesson))
}

func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	lesson, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lessonResponse(lesson))
}

func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := entities.LessonFilter{
		Date:   query.Get("date"),
		Status: schedule.Status(query.Get("status")),
	}
	if v := query.Get("instructor_id"); v != "" {
		filter.InstructorID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := query.Get("student_id"); v != "" {
		filter.StudentID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := query.Get("vehicle_id"); v != "" {
		filter.VehicleID, _ = strconv.ParseInt(v, 10, 64)
	}

	// Students and instructors only ever see their own lessons.
	if actor, ok := auth.ActorFrom(r.Context()); ok {
		switch actor.Role {
		case schedule.RoleStudent:
			filter.StudentID = actor.UserID
		case schedule.RoleInstructor:
			filter.InstructorID = actor.UserID
		}
	}

	lessons, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	responses := make([]entities.LessonResponse, 0, len(lessons))
	for i := range lessons {
		responses = append(responses, lessonResponse(&lessons[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *LessonHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	lesson, err := h.Service.Confirm(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lessonResponse(lesson))
}

func (h *LessonHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req entities.CancelLessonInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	lesson, err := h.Service.Cancel(r.Context(), id, actor.Role, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lessonResponse(lesson))
}

func (h *LessonHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req entities.CompleteLessonInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	lesson, err := h.Service.Complete(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lessonResponse(lesson))
}

func (h *LessonHandler) StudentSkills(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	skills, err := h.Service.StudentSkills(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}
