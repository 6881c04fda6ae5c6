package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/raniahdez/trainup-backend/internal/config"
	"github.com/raniahdez/trainup-backend/internal/models"
	"github.com/raniahdez/trainup-backend/internal/services"
	"github.com/raniahdez/trainup-backend/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (m *memUserRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	m.users[user.ID] = user
	return user, nil
}

func (m *memUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (m *memUserRepo) UpdateUserFields(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	if name, hit := fields["name"]; hit {
		u.Name = name.(string)
	}
	if isNew, hit := fields["new"]; hit {
		u.New = isNew.(bool)
	}
	return nil
}

func (m *memUserRepo) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	delete(m.users, id)
	return nil
}

func (m *memUserRepo) GetTrainers(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		if u.Role == models.RoleTrainer {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memUserRepo) GetClientsByTrainer(_ context.Context, trainerID primitive.ObjectID, onlyNew bool) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		if u.Role == models.RoleClient && u.TrainerID == trainerID {
			if onlyNew && !u.New {
				continue
			}
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memUserRepo) CountClientsByTrainer(_ context.Context, trainerID primitive.ObjectID) (int64, error) {
	var count int64
	for _, u := range m.users {
		if u.Role == models.RoleClient && u.TrainerID == trainerID {
			count++
		}
	}
	return count, nil
}

func (m *memUserRepo) UpdateLastActive(_ context.Context, id primitive.ObjectID) error {
	if u, ok := m.users[id]; ok {
		u.LastActive = time.Now()
	}
	return nil
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	cfg := &config.Config{JWTSecret: "test-secret", TokenExpiry: 1}
	userService := services.NewUserService(newMemUserRepo())
	userHandler := NewUserHandler(userService, cfg)

	router := mux.NewRouter()
	router.HandleFunc("/auth/register/trainer", userHandler.RegisterTrainerHandler).Methods("POST")
	router.HandleFunc("/auth/register/client", userHandler.RegisterClientHandler).Methods("POST")
	router.HandleFunc("/auth/login", userHandler.LoginHandler).Methods("POST")
	router.HandleFunc("/trainers", userHandler.ListTrainersHandler).Methods("GET")

	protected := router.PathPrefix("/me").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protected.HandleFunc("", userHandler.GetMeHandler).Methods("GET")

	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginAndGetMe(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/auth/register/trainer", map[string]interface{}{
		"name":        "Ana",
		"email":       "ana@example.com",
		"password":    "secret123",
		"specialty":   "Fuerza",
		"max_clients": 5,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "POST", "/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "secret123",
		"role":     models.RoleTrainer,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var loginResp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&loginResp))
	require.NotEmpty(t, loginResp.Token)
	assert.Equal(t, "Ana", loginResp.User.Name)

	rec = doJSON(t, router, "GET", "/me", nil, loginResp.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var me models.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
	assert.Equal(t, "ana@example.com", me.Email)
}

func TestLoginWrongRoleRejected(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/auth/register/trainer", map[string]interface{}{
		"name":        "Ana",
		"email":       "ana@example.com",
		"password":    "secret123",
		"specialty":   "Fuerza",
		"max_clients": 5,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "POST", "/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "secret123",
		"role":     models.RoleClient,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginMissingFields(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "secret123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMeWithoutToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTrainerDirectoryIsPublic(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/auth/register/trainer", map[string]interface{}{
		"name":        "Ana",
		"email":       "ana@example.com",
		"password":    "secret123",
		"specialty":   "Fuerza",
		"max_clients": 2,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "GET", "/trainers", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listings []models.TrainerListing
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listings))
	require.Len(t, listings, 1)
	assert.Equal(t, "Ana", listings[0].Name)
	assert.Equal(t, 2, listings[0].MaxClients)
	assert.False(t, listings[0].Full)
}
