package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/raniahdez/trainup-backend/internal/services"
	"github.com/raniahdez/trainup-backend/pkg/middleware"
	"github.com/sirupsen/logrus"
)

// GoalHandler handles HTTP requests related to client goals.
type GoalHandler struct {
	Service *services.GoalService
}

// NewGoalHandler creates a new instance of GoalHandler.
func NewGoalHandler(service *services.GoalService) *GoalHandler {
	return &GoalHandler{Service: service}
}

// CreateGoalHandler adds a goal for the signed-in client.
func (h *GoalHandler) CreateGoalHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		logrus.Warn("Unauthorized access attempt during goal creation")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during goal creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := h.Service.CreateGoal(r.Context(), claims.UserID, payload.Text)
	if err != nil {
		logrus.WithError(err).Warn("Failed to create goal")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID": claims.UserID,
		"goalID": created.ID.Hex(),
	}).Info("Goal created")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GetGoalsHandler lists the signed-in client's goals.
func (h *GoalHandler) GetGoalsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	goals, err := h.Service.ListGoals(r.Context(), claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to list goals")
		http.Error(w, "Failed to list goals", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goals)
}

// ToggleGoalHandler flips a goal's completed flag.
func (h *GoalHandler) ToggleGoalHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	goalID := mux.Vars(r)["id"]

	var payload struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	goal, err := h.Service.ToggleGoal(r.Context(), claims.UserID, goalID, payload.Completed)
	if err != nil {
		logrus.WithError(err).WithField("goalID", goalID).Warn("Failed to toggle goal")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goal)
}

// DeleteGoalHandler removes one of the signed-in client's goals.
func (h *GoalHandler) DeleteGoalHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	goalID := mux.Vars(r)["id"]

	if err := h.Service.DeleteGoal(r.Context(), claims.UserID, goalID); err != nil {
		logrus.WithError(err).WithField("goalID", goalID).Warn("Failed to delete goal")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
