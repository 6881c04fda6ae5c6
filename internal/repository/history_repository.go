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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HistoryRepository handles the append-only training history collection.
// There are deliberately no update or delete operations here.
type HistoryRepository struct {
	collection *mongo.Collection
}

// NewHistoryRepository creates a new instance of HistoryRepository.
func NewHistoryRepository(db *mongo.Database) *HistoryRepository {
	return &HistoryRepository{
		collection: db.Collection("training_history"),
	}
}

// AppendEntry writes one finished session. Entries are immutable once written.
func (r *HistoryRepository) AppendEntry(ctx context.Context, entry *models.TrainingHistory) (*models.TrainingHistory, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to append history entry")
		return nil, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, errors.New("failed to cast inserted history ID")
	}
	entry.ID = insertedID

	logger.Log.WithField("history_id", entry.ID.Hex()).Info("History entry appended")
	return entry, nil
}

// GetHistoryByClient fetches a client's session history, newest first.
func (r *HistoryRepository) GetHistoryByClient(ctx context.Context, clientID primitive.ObjectID) ([]models.TrainingHistory, error) {
	var entries []models.TrainingHistory

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"client_id": clientID}, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("client_id", clientID.Hex()).Error("Failed to fetch history")
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var entry models.TrainingHistory
		if err := cursor.Decode(&entry); err != nil {
			logger.Log.WithError(err).Error("Failed to decode history entry")
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
