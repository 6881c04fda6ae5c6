package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/raniahdez/trainup-backend/internal/repository"
	"github.com/raniahdez/trainup-backend/internal/services"
	jwtutil "github.com/raniahdez/trainup-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineWSHandler streams routine updates to a connected client over a
// WebSocket. Each message carries the client's current gated snapshot, so
// an unpublished routine is pushed as an empty one.
type RoutineWSHandler struct {
	Service   *services.RoutineService
	Repo      *repository.RoutineRepository
	JWTSecret string
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewRoutineWSHandler(service *services.RoutineService, repo *repository.RoutineRepository, jwtSecret string) *RoutineWSHandler {
	return &RoutineWSHandler{Service: service, Repo: repo, JWTSecret: jwtSecret}
}

// RoutineWebSocketHandler authenticates via a token query parameter, sends
// an initial snapshot and then one snapshot per change on the routine
// document until either side disconnects.
func (h *RoutineWSHandler) RoutineWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		logrus.WithError(err).Warn("Routine WebSocket auth failed")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	clientObjID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Error("Routine WebSocket upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	var cancelOnce sync.Once
	stop := func() { cancelOnce.Do(cancel) }
	defer stop()
	defer conn.Close()

	logrus.WithField("clientID", claims.UserID).Info("Routine WebSocket connected")

	stream, err := h.Repo.WatchRoutine(ctx, clientObjID)
	if err != nil {
		logrus.WithError(err).Error("Failed to open routine stream")
		conn.WriteJSON(map[string]interface{}{"type": "error", "error": "stream unavailable"})
		return
	}
	defer stream.Close(ctx)

	if err := h.pushSnapshot(ctx, conn, claims.UserID); err != nil {
		return
	}

	// Drain incoming frames so close handshakes are noticed; clients
	// never send payloads on this socket.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				stop()
				return
			}
		}
	}()

	for stream.Next(ctx) {
		if err := h.pushSnapshot(ctx, conn, claims.UserID); err != nil {
			break
		}
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		logrus.WithError(err).Warn("Routine stream ended with error")
	}
	logrus.WithField("clientID", claims.UserID).Info("Routine WebSocket disconnected")
}

func (h *RoutineWSHandler) pushSnapshot(ctx context.Context, conn *websocket.Conn, clientID string) error {
	routine, err := h.Service.GetClientRoutine(ctx, clientID)
	if err != nil {
		logrus.WithError(err).Error("Failed to load routine snapshot")
		return err
	}
	return conn.WriteJSON(map[string]interface{}{
		"type":    "routine",
		"routine": routine,
	})
}
