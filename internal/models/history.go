package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingHistory is one finished session. Entries are append-only: neither
// role can edit or delete them once written.
type TrainingHistory struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID          primitive.ObjectID `bson:"client_id" json:"client_id"`
	Date              string             `bson:"date" json:"date"`
	Title             string             `bson:"title" json:"title"`
	DurationMinutes   int                `bson:"duration_minutes" json:"duration_minutes"`
	DurationFormatted string             `bson:"duration_formatted" json:"duration_formatted"`
	Completed         bool               `bson:"completed" json:"completed"`
	Timestamp         time.Time          `bson:"timestamp" json:"timestamp"`
}
