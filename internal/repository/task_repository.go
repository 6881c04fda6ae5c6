package repository

import (
	"context"
	"errors"
	"time"

	"github.com/raniahdez/trainup-backend/internal/models"
	"github.com/raniahdez/trainup-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TaskRepository handles database operations related to daily tasks.
type TaskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository creates a new instance of TaskRepository.
func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{
		collection: db.Collection("daily_tasks"),
	}
}

// CreateTask inserts a new daily task for a client.
func (r *TaskRepository) CreateTask(ctx context.Context, task *models.DailyTask) (*models.DailyTask, error) {
	task.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert daily task")
		return nil, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, errors.New("failed to cast inserted task ID")
	}
	task.ID = insertedID

	logger.Log.WithField("task_id", task.ID.Hex()).Info("Daily task created")
	return task, nil
}

// GetTaskByID fetches a task by its ID, returning (nil, nil) when absent.
func (r *TaskRepository) GetTaskByID(ctx context.Context, id primitive.ObjectID) (*models.DailyTask, error) {
	var task models.DailyTask

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		logger.Log.WithError(err).WithField("task_id", id.Hex()).Error("Failed to find task by ID")
		return nil, err
	}

	return &task, nil
}

// GetTasksByDate fetches a client's tasks for one calendar day.
func (r *TaskRepository) GetTasksByDate(ctx context.Context, clientID primitive.ObjectID, date string) ([]models.DailyTask, error) {
	var tasks []models.DailyTask

	cursor, err := r.collection.Find(ctx, bson.M{"client_id": clientID, "date": date})
	if err != nil {
		logger.Log.WithError(err).WithField("client_id", clientID.Hex()).Error("Failed to fetch daily tasks")
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var task models.DailyTask
		if err := cursor.Decode(&task); err != nil {
			logger.Log.WithError(err).Error("Failed to decode daily task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// SetTask overwrites a task document wholesale.
func (r *TaskRepository) SetTask(ctx context.Context, task *models.DailyTask) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		logger.Log.WithError(err).WithField("task_id", task.ID.Hex()).Error("Failed to set daily task")
		return err
	}
	return nil
}

// DeleteTask removes a task document.
func (r *TaskRepository) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("task_id", id.Hex()).Error("Failed to delete daily task")
		return err
	}

	logger.Log.WithField("task_id", id.Hex()).Info("Daily task deleted")
	return nil
}

// DeleteTasksBefore removes every task dated strictly before the given
// calendar day. Dates use the yyyy-mm-dd layout, so lexicographic order
// matches chronological order.
func (r *TaskRepository) DeleteTasksBefore(ctx context.Context, date string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"date": bson.M{"$lt": date}})
	if err != nil {
		logger.Log.WithError(err).Error("Failed to sweep stale daily tasks")
		return 0, err
	}
	return result.DeletedCount, nil
}
