package api

import (
	"encoding/json"
	"io"
	"net/http"

	"autoscuola/internal/auth"
	"autoscuola/internal/entities"
	"autoscuola/internal/schedule"
	"autoscuola/internal/service"
)

type RequestHandler struct {
	Service *service.RequestService
}

func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{Service: svc}
}

func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req entities.SubmitRequestInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	// Students always submit for themselves; staff may submit on behalf.
	if actor, ok := auth.ActorFrom(r.Context()); ok && actor.Role == schedule.RoleStudent {
		req.StudentID = actor.UserID
	}

	request, err := h.Service.Submit(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, requestResponse(request))
}

func (h *RequestHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.ListPending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	responses := make([]entities.LessonRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, requestResponse(&requests[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	request, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestResponse(request))
}

func (h *RequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req entities.AcceptRequestInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	lesson, err := h.Service.Accept(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lessonResponse(lesson))
}

func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req entities.RejectRequestInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	request, err := h.Service.Reject(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestResponse(request))
}
