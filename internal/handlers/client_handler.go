package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/raniahdez/trainup-backend/internal/services"
	"github.com/raniahdez/trainup-backend/pkg/middleware"
	log "github.com/sirupsen/logrus"
)

// ClientHandler serves the trainer's roster screens: active clients,
// new clients, and the client detail view.
type ClientHandler struct {
	Service *services.UserService
}

// NewClientHandler creates a new instance of ClientHandler.
func NewClientHandler(service *services.UserService) *ClientHandler {
	return &ClientHandler{Service: service}
}

// ListClientsHandler returns the trainer's clients. With ?new=true only
// clients the trainer has not opened yet are returned.
func (h *ClientHandler) ListClientsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	onlyNew := r.URL.Query().Get("new") == "true"

	clients, err := h.Service.ListClients(r.Context(), claims.UserID, onlyNew)
	if err != nil {
		log.WithError(err).Error("Failed to list clients")
		http.Error(w, "Failed to list clients", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clients)
}

// GetClientHandler returns one client's detail for the owning trainer.
func (h *ClientHandler) GetClientHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clientID := mux.Vars(r)["id"]

	client, err := h.Service.GetClientOfTrainer(r.Context(), claims.UserID, clientID)
	if err != nil {
		log.WithError(err).WithField("clientID", clientID).Warn("Client not found")
		http.Error(w, "Client not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(client)
}

// MarkClientSeenHandler clears the client's new flag before the detail
// screen opens.
func (h *ClientHandler) MarkClientSeenHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clientID := mux.Vars(r)["id"]

	if err := h.Service.MarkClientSeen(r.Context(), claims.UserID, clientID); err != nil {
		log.WithError(err).WithField("clientID", clientID).Warn("Failed to mark client as seen")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
