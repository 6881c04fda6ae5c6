package services

import (
	"context"
	"fmt"

	"github.com/raniahdez/trainup-backend/internal/models"
	"github.com/raniahdez/trainup-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalRepo is the slice of the goal repository the goal service depends on.
type GoalRepo interface {
	CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error)
	GetGoalByID(ctx context.Context, id primitive.ObjectID) (*models.Goal, error)
	GetGoalsByClient(ctx context.Context, clientID primitive.ObjectID) ([]models.Goal, error)
	SetGoal(ctx context.Context, goal *models.Goal) error
	DeleteGoal(ctx context.Context, id primitive.ObjectID) error
}

// GoalService encapsulates the business logic for client goals.
type GoalService struct {
	repo GoalRepo
}

// NewGoalService creates a new instance of GoalService.
func NewGoalService(repo GoalRepo) *GoalService {
	return &GoalService{repo: repo}
}

// CreateGoal adds a goal for a client.
func (s *GoalService) CreateGoal(ctx context.Context, clientID, text string) (*models.Goal, error) {
	if text == "" {
		return nil, fmt.Errorf("goal text cannot be empty")
	}

	objID, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID: %v", err)
	}

	goal := &models.Goal{
		ClientID:  objID,
		Text:      text,
		Completed: false,
	}

	created, err := s.repo.CreateGoal(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %v", err)
	}

	return created, nil
}

// ListGoals returns all goals of a client.
func (s *GoalService) ListGoals(ctx context.Context, clientID string) ([]models.Goal, error) {
	objID, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID: %v", err)
	}

	goals, err := s.repo.GetGoalsByClient(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %v", err)
	}
	return goals, nil
}

// ToggleGoal flips a goal's completed flag by rewriting the whole document.
func (s *GoalService) ToggleGoal(ctx context.Context, clientID, goalID string, completed bool) (*models.Goal, error) {
	goal, err := s.getOwnedGoal(ctx, clientID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Completed = completed
	if err := s.repo.SetGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"goal_id":   goal.ID.Hex(),
		"completed": completed,
	}).Info("Goal toggled")
	return goal, nil
}

// DeleteGoal removes one of the client's goals.
func (s *GoalService) DeleteGoal(ctx context.Context, clientID, goalID string) error {
	goal, err := s.getOwnedGoal(ctx, clientID, goalID)
	if err != nil {
		return err
	}
	return s.repo.DeleteGoal(ctx, goal.ID)
}

func (s *GoalService) getOwnedGoal(ctx context.Context, clientID, goalID string) (*models.Goal, error) {
	clientObjID, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID: %v", err)
	}
	goalObjID, err := primitive.ObjectIDFromHex(goalID)
	if err != nil {
		return nil, fmt.Errorf("invalid goal ID: %v", err)
	}

	goal, err := s.repo.GetGoalByID(ctx, goalObjID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %v", err)
	}
	if goal == nil || goal.ClientID != clientObjID {
		return nil, fmt.Errorf("goal not found")
	}
	return goal, nil
}
