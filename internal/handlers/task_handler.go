package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/raniahdez/trainup-backend/internal/services"
	"github.com/raniahdez/trainup-backend/pkg/middleware"
	"github.com/sirupsen/logrus"
)

// TaskHandler handles HTTP requests related to daily tasks.
type TaskHandler struct {
	Service *services.TaskService
}

// NewTaskHandler creates a new instance of TaskHandler.
func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{Service: service}
}

// CreateTaskHandler lets the trainer add a task for one of their clients,
// dated today.
func (h *TaskHandler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clientID := mux.Vars(r)["id"]

	var payload struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := h.Service.CreateTask(r.Context(), claims.UserID, clientID, payload.Title, payload.Description)
	if err != nil {
		logrus.WithError(err).Warn("Failed to create daily task")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GetTodayTasksHandler lists the signed-in client's tasks for today.
func (h *TaskHandler) GetTodayTasksHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tasks, err := h.Service.ListTodayTasks(r.Context(), claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to list daily tasks")
		http.Error(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}

// SetTaskCompletionHandler records the client ticking or unticking a task.
// Ticking removes the task from the list entirely.
func (h *TaskHandler) SetTaskCompletionHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID := mux.Vars(r)["id"]

	var payload struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.Service.SetCompletion(r.Context(), claims.UserID, taskID, payload.Completed); err != nil {
		logrus.WithError(err).WithField("taskID", taskID).Warn("Failed to update task completion")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
