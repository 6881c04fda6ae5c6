package services

import (
	"context"
	"fmt"
	"time"

	"github.com/raniahdez/trainup-backend/internal/models"
	"github.com/raniahdez/trainup-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskRepo is the slice of the task repository the task service depends on.
type TaskRepo interface {
	CreateTask(ctx context.Context, task *models.DailyTask) (*models.DailyTask, error)
	GetTaskByID(ctx context.Context, id primitive.ObjectID) (*models.DailyTask, error)
	GetTasksByDate(ctx context.Context, clientID primitive.ObjectID, date string) ([]models.DailyTask, error)
	SetTask(ctx context.Context, task *models.DailyTask) error
	DeleteTask(ctx context.Context, id primitive.ObjectID) error
	DeleteTasksBefore(ctx context.Context, date string) (int64, error)
}

// TaskService encapsulates the business logic around daily tasks.
type TaskService struct {
	repo  TaskRepo
	users *UserService
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo TaskRepo, users *UserService) *TaskService {
	return &TaskService{repo: repo, users: users}
}

// CreateTask writes a daily task for one of the trainer's clients, dated
// today. Tasks are always created for the current calendar day.
func (s *TaskService) CreateTask(ctx context.Context, trainerID, clientID, title, description string) (*models.DailyTask, error) {
	if title == "" {
		return nil, fmt.Errorf("task title cannot be empty")
	}

	client, err := s.users.GetClientOfTrainer(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}

	task := &models.DailyTask{
		ClientID:    client.ID,
		Title:       title,
		Description: description,
		Date:        time.Now().Format(models.TaskDateLayout),
		Completed:   false,
	}

	created, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}

	return created, nil
}

// ListTodayTasks returns the client's tasks for the current calendar day.
func (s *TaskService) ListTodayTasks(ctx context.Context, clientID string) ([]models.DailyTask, error) {
	objID, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID: %v", err)
	}

	today := time.Now().Format(models.TaskDateLayout)
	tasks, err := s.repo.GetTasksByDate(ctx, objID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %v", err)
	}
	return tasks, nil
}

// SetCompletion records the client ticking or unticking a task checkbox.
// Ticking deletes the task document entirely; unticking writes the flag back.
func (s *TaskService) SetCompletion(ctx context.Context, clientID, taskID string, completed bool) error {
	clientObjID, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return fmt.Errorf("invalid client ID: %v", err)
	}
	taskObjID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return fmt.Errorf("invalid task ID: %v", err)
	}

	task, err := s.repo.GetTaskByID(ctx, taskObjID)
	if err != nil {
		return fmt.Errorf("failed to get task: %v", err)
	}
	if task == nil || task.ClientID != clientObjID {
		return fmt.Errorf("task not found")
	}

	if completed {
		if err := s.repo.DeleteTask(ctx, task.ID); err != nil {
			return fmt.Errorf("failed to complete task: %v", err)
		}
		logger.Log.WithField("task_id", task.ID.Hex()).Info("Task completed and removed")
		return nil
	}

	task.Completed = false
	if err := s.repo.SetTask(ctx, task); err != nil {
		return fmt.Errorf("failed to update task: %v", err)
	}
	return nil
}

// SweepExpired deletes every task dated before today. Run nightly.
func (s *TaskService) SweepExpired(ctx context.Context) (int64, error) {
	today := time.Now().Format(models.TaskDateLayout)
	removed, err := s.repo.DeleteTasksBefore(ctx, today)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.Log.WithField("count", removed).Info("Swept stale daily tasks")
	}
	return removed, nil
}
