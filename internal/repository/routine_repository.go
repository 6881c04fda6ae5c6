package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raniahdez/trainup-backend/internal/models"
	"github.com/raniahdez/trainup-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RoutineRepository handles database operations on routine aggregates.
// There is at most one routine document per client.
type RoutineRepository struct {
	collection *mongo.Collection
}

// NewRoutineRepository creates a new instance of RoutineRepository.
func NewRoutineRepository(db *mongo.Database) *RoutineRepository {
	return &RoutineRepository{
		collection: db.Collection("routines"),
	}
}

// GetRoutine fetches the routine a trainer keeps for one client,
// returning (nil, nil) when no routine exists yet.
func (r *RoutineRepository) GetRoutine(ctx context.Context, trainerID, clientID primitive.ObjectID) (*models.WeeklyRoutine, error) {
	var routine models.WeeklyRoutine

	err := r.collection.FindOne(ctx, bson.M{"trainer_id": trainerID, "client_id": clientID}).Decode(&routine)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		logger.Log.WithError(err).WithField("client_id", clientID.Hex()).Error("Failed to fetch routine")
		return nil, fmt.Errorf("failed to fetch routine: %v", err)
	}

	return &routine, nil
}

// GetRoutineByClient fetches a client's routine regardless of trainer,
// returning (nil, nil) when absent. The publish gate is the service's job.
func (r *RoutineRepository) GetRoutineByClient(ctx context.Context, clientID primitive.ObjectID) (*models.WeeklyRoutine, error) {
	var routine models.WeeklyRoutine

	err := r.collection.FindOne(ctx, bson.M{"client_id": clientID}).Decode(&routine)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		logger.Log.WithError(err).WithField("client_id", clientID.Hex()).Error("Failed to fetch client routine")
		return nil, fmt.Errorf("failed to fetch routine: %v", err)
	}

	return &routine, nil
}

// SetRoutine writes the whole aggregate, creating the document on first
// save. There is no version check: the last writer wins.
func (r *RoutineRepository) SetRoutine(ctx context.Context, routine *models.WeeklyRoutine) error {
	routine.UpdatedAt = time.Now()
	if routine.CreatedAt.IsZero() {
		routine.CreatedAt = routine.UpdatedAt
	}

	filter := bson.M{"trainer_id": routine.TrainerID, "client_id": routine.ClientID}
	opts := options.Replace().SetUpsert(true)

	_, err := r.collection.ReplaceOne(ctx, filter, routine, opts)
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"trainer_id": routine.TrainerID.Hex(),
			"client_id":  routine.ClientID.Hex(),
		}).Error("Failed to set routine")
		return fmt.Errorf("failed to set routine: %v", err)
	}

	logger.Log.WithField("client_id", routine.ClientID.Hex()).Info("Routine written")
	return nil
}

// DeleteRoutine removes the routine document for a client.
func (r *RoutineRepository) DeleteRoutine(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"trainer_id": trainerID, "client_id": clientID})
	if err != nil {
		logger.Log.WithError(err).WithField("client_id", clientID.Hex()).Error("Failed to delete routine")
		return fmt.Errorf("failed to delete routine: %v", err)
	}

	logger.Log.WithField("client_id", clientID.Hex()).Info("Routine deleted")
	return nil
}

// WatchRoutine opens a change stream on one client's routine document.
// The stream keeps firing until the given context is cancelled; the caller
// owns closing it exactly once.
func (r *RoutineRepository) WatchRoutine(ctx context.Context, clientID primitive.ObjectID) (*mongo.ChangeStream, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"$or": []bson.M{
				{"fullDocument.client_id": clientID},
				{"operationType": "delete"},
			},
		}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := r.collection.Watch(ctx, pipeline, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("client_id", clientID.Hex()).Error("Failed to open routine change stream")
		return nil, fmt.Errorf("failed to watch routine: %v", err)
	}

	return stream, nil
}
