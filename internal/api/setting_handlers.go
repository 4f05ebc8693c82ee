package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"autoscuola/internal/service"
)

type SettingHandler struct {
	Settings service.SettingStore
}

func NewSettingHandler(settings service.SettingStore) *SettingHandler {
	return &SettingHandler{Settings: settings}
}

func (h *SettingHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	value, err := h.Settings.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Setting not found", http.StatusNotFound)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

func (h *SettingHandler) Put(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.Settings.Set(r.Context(), key, req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}
