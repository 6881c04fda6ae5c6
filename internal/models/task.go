package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskDateLayout is the calendar-day format daily tasks are keyed by.
// Tasks carry no time component.
const TaskDateLayout = "2006-01-02"

// DailyTask is written by the trainer for a client and shows up on the
// client's home screen for the task's calendar day. Completing a task
// deletes its document; unchecking writes completed=false back.
type DailyTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"client_id" json:"client_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Date        string             `bson:"date" json:"date"`
	Completed   bool               `bson:"completed" json:"completed"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
