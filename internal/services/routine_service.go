package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/raniahdez/trainup-backend/internal/models"
	"github.com/raniahdez/trainup-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineRepo is the slice of the routine repository the routine service
// depends on. The change-stream watcher is wired separately because it is
// bound to the driver.
type RoutineRepo interface {
	GetRoutine(ctx context.Context, trainerID, clientID primitive.ObjectID) (*models.WeeklyRoutine, error)
	GetRoutineByClient(ctx context.Context, clientID primitive.ObjectID) (*models.WeeklyRoutine, error)
	SetRoutine(ctx context.Context, routine *models.WeeklyRoutine) error
	DeleteRoutine(ctx context.Context, trainerID, clientID primitive.ObjectID) error
}

// RoutineService implements the routine aggregate edit protocol: load the
// whole document, mutate the day list in memory, write the whole document
// back. Every save preserves the current published flag; publishing is a
// separate explicit action.
type RoutineService struct {
	repo  RoutineRepo
	users *UserService
}

// NewRoutineService creates a new instance of RoutineService.
func NewRoutineService(repo RoutineRepo, users *UserService) *RoutineService {
	return &RoutineService{repo: repo, users: users}
}

// GetTrainerRoutine returns the routine the trainer keeps for a client,
// or an empty unpublished aggregate when none has been saved yet.
func (s *RoutineService) GetTrainerRoutine(ctx context.Context, trainerID, clientID string) (*models.WeeklyRoutine, error) {
	trainerObjID, clientObjID, err := s.resolvePair(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}

	routine, err := s.repo.GetRoutine(ctx, trainerObjID, clientObjID)
	if err != nil {
		return nil, err
	}
	if routine == nil {
		return &models.WeeklyRoutine{
			ClientID:  clientObjID,
			TrainerID: trainerObjID,
			Days:      []models.RoutineDay{},
		}, nil
	}

	return routine, nil
}

// SaveRoutine rewrites the whole aggregate with the given day list. The
// stored published flag is read first and carried over, so saving edits
// never publishes by accident. The last writer wins.
func (s *RoutineService) SaveRoutine(ctx context.Context, trainerID, clientID string, days []models.RoutineDay) (*models.WeeklyRoutine, error) {
	trainerObjID, clientObjID, err := s.resolvePair(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetRoutine(ctx, trainerObjID, clientObjID)
	if err != nil {
		return nil, err
	}

	published := false
	if current != nil {
		published = current.Published
	}

	routine := &models.WeeklyRoutine{
		ClientID:  clientObjID,
		TrainerID: trainerObjID,
		Days:      normalizeDays(days),
		Published: published,
	}
	if current != nil {
		routine.ID = current.ID
		routine.CreatedAt = current.CreatedAt
	}

	if err := s.repo.SetRoutine(ctx, routine); err != nil {
		return nil, err
	}
	return routine, nil
}

// AddDay appends a new empty day, creating the routine document implicitly
// on the first save.
func (s *RoutineService) AddDay(ctx context.Context, trainerID, clientID, name string) (*models.WeeklyRoutine, error) {
	if name == "" {
		return nil, fmt.Errorf("day name cannot be empty")
	}

	routine, err := s.GetTrainerRoutine(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}

	day := models.RoutineDay{
		Key:         uuid.NewString(),
		Name:        name,
		MuscleGroup: name,
		Exercises:   []models.Exercise{},
	}
	routine.Days = append(routine.Days, day)

	if err := s.repo.SetRoutine(ctx, routine); err != nil {
		return nil, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"client_id": routine.ClientID.Hex(),
		"day":       name,
	}).Info("Routine day added")
	return routine, nil
}

// UpdateDay replaces one day of the aggregate. Days are matched by their
// stable key; documents written before keys existed fall back to a name
// match. Derived exercise and set counts are recomputed on the way in.
func (s *RoutineService) UpdateDay(ctx context.Context, trainerID, clientID, dayKey string, day models.RoutineDay) (*models.WeeklyRoutine, error) {
	trainerObjID, clientObjID, err := s.resolvePair(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}

	routine, err := s.repo.GetRoutine(ctx, trainerObjID, clientObjID)
	if err != nil {
		return nil, err
	}
	if routine == nil {
		return nil, fmt.Errorf("routine not found")
	}

	idx := findDay(routine.Days, dayKey)
	if idx == -1 {
		return nil, fmt.Errorf("routine day not found")
	}

	day.Key = routine.Days[idx].Key
	if day.Key == "" {
		day.Key = uuid.NewString()
	}
	day.RecomputeTotals()
	routine.Days[idx] = day

	if err := s.repo.SetRoutine(ctx, routine); err != nil {
		return nil, err
	}
	return routine, nil
}

// DeleteDay removes one day from the aggregate.
func (s *RoutineService) DeleteDay(ctx context.Context, trainerID, clientID, dayKey string) (*models.WeeklyRoutine, error) {
	trainerObjID, clientObjID, err := s.resolvePair(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}

	routine, err := s.repo.GetRoutine(ctx, trainerObjID, clientObjID)
	if err != nil {
		return nil, err
	}
	if routine == nil {
		return nil, fmt.Errorf("routine not found")
	}

	idx := findDay(routine.Days, dayKey)
	if idx == -1 {
		return nil, fmt.Errorf("routine day not found")
	}

	routine.Days = append(routine.Days[:idx], routine.Days[idx+1:]...)

	if err := s.repo.SetRoutine(ctx, routine); err != nil {
		return nil, err
	}
	return routine, nil
}

// Publish makes the routine visible to the client. The content is written
// unchanged; only the flag flips.
func (s *RoutineService) Publish(ctx context.Context, trainerID, clientID string) (*models.WeeklyRoutine, error) {
	trainerObjID, clientObjID, err := s.resolvePair(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}

	routine, err := s.repo.GetRoutine(ctx, trainerObjID, clientObjID)
	if err != nil {
		return nil, err
	}
	if routine == nil {
		return nil, fmt.Errorf("routine not found")
	}

	routine.Published = true
	if err := s.repo.SetRoutine(ctx, routine); err != nil {
		return nil, err
	}

	logger.Log.WithField("client_id", routine.ClientID.Hex()).Info("Routine published")
	return routine, nil
}

// DeleteRoutine removes the whole routine document for a client.
func (s *RoutineService) DeleteRoutine(ctx context.Context, trainerID, clientID string) error {
	trainerObjID, clientObjID, err := s.resolvePair(ctx, trainerID, clientID)
	if err != nil {
		return err
	}
	return s.repo.DeleteRoutine(ctx, trainerObjID, clientObjID)
}

// GetClientRoutine is the client read path. An unpublished or missing
// routine reads as an empty aggregate: the client cannot tell the
// difference between "no routine" and "not published yet".
func (s *RoutineService) GetClientRoutine(ctx context.Context, clientID string) (*models.WeeklyRoutine, error) {
	clientObjID, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID: %v", err)
	}

	routine, err := s.repo.GetRoutineByClient(ctx, clientObjID)
	if err != nil {
		return nil, err
	}
	if routine == nil || !routine.Published {
		return &models.WeeklyRoutine{
			ClientID: clientObjID,
			Days:     []models.RoutineDay{},
		}, nil
	}

	return routine, nil
}

func (s *RoutineService) resolvePair(ctx context.Context, trainerID, clientID string) (primitive.ObjectID, primitive.ObjectID, error) {
	client, err := s.users.GetClientOfTrainer(ctx, trainerID, clientID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return client.TrainerID, client.ID, nil
}

func findDay(days []models.RoutineDay, key string) int {
	for i, d := range days {
		if d.Key != "" && d.Key == key {
			return i
		}
	}
	// Legacy documents identified days by display name only.
	for i, d := range days {
		if d.Name == key {
			return i
		}
	}
	return -1
}

func normalizeDays(days []models.RoutineDay) []models.RoutineDay {
	out := make([]models.RoutineDay, len(days))
	for i, d := range days {
		if d.Key == "" {
			d.Key = uuid.NewString()
		}
		d.RecomputeTotals()
		out[i] = d
	}
	return out
}
