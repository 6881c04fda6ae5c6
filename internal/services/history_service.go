package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/raniahdez/trainup-backend/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryRepo is the slice of the history repository the history service
// depends on. It is append-only on purpose.
type HistoryRepo interface {
	AppendEntry(ctx context.Context, entry *models.TrainingHistory) (*models.TrainingHistory, error)
	GetHistoryByClient(ctx context.Context, clientID primitive.ObjectID) ([]models.TrainingHistory, error)
}

// HistoryService records finished training sessions and serves the
// progress views of both roles.
type HistoryService struct {
	repo  HistoryRepo
	users *UserService
}

// NewHistoryService creates a new instance of HistoryService.
func NewHistoryService(repo HistoryRepo, users *UserService) *HistoryService {
	return &HistoryService{repo: repo, users: users}
}

// RecordSession appends a history entry for a finished session. Durations
// are floored at one minute, matching what the session timer produces.
func (s *HistoryService) RecordSession(ctx context.Context, clientID, title string, durationMinutes int) (*models.TrainingHistory, error) {
	objID, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID: %v", err)
	}

	if title == "" {
		title = "Training"
	}
	if durationMinutes < 1 {
		durationMinutes = 1
	}

	now := time.Now()
	entry := &models.TrainingHistory{
		ClientID:          objID,
		Date:              strings.ToUpper(now.Format("02 Jan 2006")),
		Title:             title,
		DurationMinutes:   durationMinutes,
		DurationFormatted: FormatDuration(durationMinutes),
		Completed:         true,
		Timestamp:         now,
	}

	created, err := s.repo.AppendEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to record session: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"clientID": clientID,
		"minutes":  durationMinutes,
	}).Info("Training session recorded")
	return created, nil
}

// GetClientHistory returns a client's own session history, newest first.
func (s *HistoryService) GetClientHistory(ctx context.Context, clientID string) ([]models.TrainingHistory, error) {
	objID, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID: %v", err)
	}
	return s.repo.GetHistoryByClient(ctx, objID)
}

// GetHistoryForTrainer returns a client's history for the owning trainer's
// progress screen.
func (s *HistoryService) GetHistoryForTrainer(ctx context.Context, trainerID, clientID string) ([]models.TrainingHistory, error) {
	client, err := s.users.GetClientOfTrainer(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetHistoryByClient(ctx, client.ID)
}

// FormatDuration renders a minute count the way the progress screens show it.
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %02dmin", minutes/60, minutes%60)
}
