package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/raniahdez/trainup-backend/internal/config"
	"github.com/raniahdez/trainup-backend/internal/services"
	jwtutil "github.com/raniahdez/trainup-backend/pkg/jwt"
	"github.com/raniahdez/trainup-backend/pkg/logger"
	"github.com/raniahdez/trainup-backend/pkg/middleware"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests related to accounts and sessions.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service: service,
		Config:  cfg,
	}
}

// RegisterTrainerHandler handles trainer registration.
func (h *UserHandler) RegisterTrainerHandler(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterTrainerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.WithError(err).Warn("Failed to decode trainer registration request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := h.Service.RegisterTrainer(r.Context(), input)
	if err != nil {
		log.WithError(err).Warn("Failed to register trainer")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.WithField("userID", created.ID.Hex()).Info("Trainer registered")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// RegisterClientHandler handles client registration, including the
// read-time trainer capacity check.
func (h *UserHandler) RegisterClientHandler(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterClientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.WithError(err).Warn("Failed to decode client registration request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := h.Service.RegisterClient(r.Context(), input)
	if err != nil {
		log.WithError(err).Warn("Failed to register client")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.WithField("userID", created.ID.Hex()).Info("Client registered")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// LoginHandler authenticates email, password and intended role, and issues
// a token carrying the session triple.
func (h *UserHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if credentials.Email == "" || credentials.Password == "" || credentials.Role == "" {
		http.Error(w, "Email, password and role are required", http.StatusBadRequest)
		return
	}

	user, err := h.Service.Authenticate(r.Context(), credentials.Email, credentials.Password, credentials.Role)
	if err != nil {
		log.WithFields(log.Fields{
			"email": credentials.Email,
			"error": err,
		}).Warn("Authentication failed")
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User logged in successfully")

	response := map[string]interface{}{
		"token": token,
		"user":  user,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ListTrainersHandler serves the trainer directory used by the client
// registration screen. It is the one unauthenticated read in the system.
func (h *UserHandler) ListTrainersHandler(w http.ResponseWriter, r *http.Request) {
	listings, err := h.Service.ListTrainers(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list trainers")
		http.Error(w, "Failed to list trainers", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listings)
}

// GetMeHandler returns the signed-in user's own profile.
func (h *UserHandler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.Service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// UpdateNameHandler changes the signed-in user's display name.
func (h *UserHandler) UpdateNameHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.Service.UpdateName(r.Context(), claims.UserID, payload.Name); err != nil {
		log.WithError(err).Warn("Failed to update name")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangePasswordHandler re-authenticates with the current password before
// accepting the new one.
func (h *UserHandler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.Service.ChangePassword(r.Context(), claims.UserID, payload.CurrentPassword, payload.NewPassword); err != nil {
		log.WithError(err).Warn("Failed to change password")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.WithField("userID", claims.UserID).Info("Password changed")
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAccountHandler re-authenticates and deletes the account's top-level
// document. Goals, tasks and history stay behind.
func (h *UserHandler) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		CurrentPassword string `json:"current_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.Service.DeleteAccount(r.Context(), claims.UserID, payload.CurrentPassword); err != nil {
		log.WithError(err).Warn("Failed to delete account")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.WithField("userID", claims.UserID).Info("Account deleted")
	w.WriteHeader(http.StatusNoContent)
}
