package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/raniahdez/trainup-backend/internal/services"
	"github.com/raniahdez/trainup-backend/pkg/middleware"
	"github.com/sirupsen/logrus"
)

// HistoryHandler handles HTTP requests for training history.
type HistoryHandler struct {
	Service *services.HistoryService
}

// NewHistoryHandler creates a new instance of HistoryHandler.
func NewHistoryHandler(service *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{Service: service}
}

// RecordSessionHandler appends a finished session to the caller's history.
func (h *HistoryHandler) RecordSessionHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Title           string `json:"title"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	entry, err := h.Service.RecordSession(r.Context(), claims.UserID, payload.Title, payload.DurationMinutes)
	if err != nil {
		logrus.WithError(err).Error("Failed to record session")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// GetMyHistoryHandler returns the caller's own history, newest first.
func (h *HistoryHandler) GetMyHistoryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := h.Service.GetClientHistory(r.Context(), claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to load history")
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// GetClientHistoryHandler returns one client's history for the owning
// trainer's progress view.
func (h *HistoryHandler) GetClientHistoryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clientID := mux.Vars(r)["id"]

	entries, err := h.Service.GetHistoryForTrainer(r.Context(), claims.UserID, clientID)
	if err != nil {
		logrus.WithError(err).WithField("clientID", clientID).Warn("Failed to load client history")
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
