package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/raniahdez/trainup-backend/internal/models"
	"github.com/raniahdez/trainup-backend/internal/services"
	"github.com/raniahdez/trainup-backend/pkg/middleware"
	"github.com/sirupsen/logrus"
)

// RoutineHandler handles HTTP requests on the weekly routine aggregate.
type RoutineHandler struct {
	Service *services.RoutineService
}

// NewRoutineHandler creates a new instance of RoutineHandler.
func NewRoutineHandler(service *services.RoutineService) *RoutineHandler {
	return &RoutineHandler{Service: service}
}

// GetClientRoutineHandler returns the routine the trainer keeps for one
// client, published or not.
func (h *RoutineHandler) GetClientRoutineHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clientID := mux.Vars(r)["id"]

	routine, err := h.Service.GetTrainerRoutine(r.Context(), claims.UserID, clientID)
	if err != nil {
		logrus.WithError(err).WithField("clientID", clientID).Warn("Failed to load routine")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(routine)
}

// SaveRoutineHandler rewrites the whole aggregate with the given day list,
// preserving the published flag.
func (h *RoutineHandler) SaveRoutineHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clientID := mux.Vars(r)["id"]

	var payload struct {
		Days []models.RoutineDay `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	routine, err := h.Service.SaveRoutine(r.Context(), claims.UserID, clientID, payload.Days)
	if err != nil {
		logrus.WithError(err).WithField("clientID", clientID).Warn("Failed to save routine")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(routine)
}

// AddDayHandler appends an empty day, creating the routine implicitly on
// the first save.
func (h *RoutineHandler) AddDayHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clientID := mux.Vars(r)["id"]

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	routine, err := h.Service.AddDay(r.Context(), claims.UserID, clientID, payload.Name)
	if err != nil {
		logrus.WithError(err).Warn("Failed to add routine day")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(routine)
}

// UpdateDayHandler replaces one day of the aggregate, matched by its key.
func (h *RoutineHandler) UpdateDayHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	clientID := vars["id"]
	dayKey := vars["dayKey"]

	var day models.RoutineDay
	if err := json.NewDecoder(r.Body).Decode(&day); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	routine, err := h.Service.UpdateDay(r.Context(), claims.UserID, clientID, dayKey, day)
	if err != nil {
		logrus.WithError(err).WithField("dayKey", dayKey).Warn("Failed to update routine day")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(routine)
}

// DeleteDayHandler removes one day from the aggregate.
func (h *RoutineHandler) DeleteDayHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	clientID := vars["id"]
	dayKey := vars["dayKey"]

	routine, err := h.Service.DeleteDay(r.Context(), claims.UserID, clientID, dayKey)
	if err != nil {
		logrus.WithError(err).WithField("dayKey", dayKey).Warn("Failed to delete routine day")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(routine)
}

// PublishRoutineHandler makes the routine visible to the client.
func (h *RoutineHandler) PublishRoutineHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clientID := mux.Vars(r)["id"]

	routine, err := h.Service.Publish(r.Context(), claims.UserID, clientID)
	if err != nil {
		logrus.WithError(err).WithField("clientID", clientID).Warn("Failed to publish routine")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logrus.WithField("clientID", clientID).Info("Routine published")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(routine)
}

// DeleteRoutineHandler removes the client's whole routine document.
func (h *RoutineHandler) DeleteRoutineHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clientID := mux.Vars(r)["id"]

	if err := h.Service.DeleteRoutine(r.Context(), claims.UserID, clientID); err != nil {
		logrus.WithError(err).WithField("clientID", clientID).Warn("Failed to delete routine")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetMyRoutineHandler is the client read path: only published content is
// ever returned.
func (h *RoutineHandler) GetMyRoutineHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	routine, err := h.Service.GetClientRoutine(r.Context(), claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to load client routine")
		http.Error(w, "Failed to load routine", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(routine)
}
