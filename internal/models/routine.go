package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeeklyRoutine is the routine aggregate: one document per client, stored
// under the owning trainer. The whole aggregate is rewritten on every edit;
// the last writer wins. Unpublished routines are invisible to the client.
type WeeklyRoutine struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"client_id" json:"client_id"`
	TrainerID primitive.ObjectID `bson:"trainer_id" json:"trainer_id"`
	Days      []RoutineDay       `bson:"days" json:"days"`
	Published bool               `bson:"published" json:"published"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// RoutineDay is embedded in the aggregate, not a separate document.
// Key is a generated stable identifier; documents written by earlier
// revisions have no key and are matched by name instead.
type RoutineDay struct {
	Key          string     `bson:"key,omitempty" json:"key,omitempty"`
	Name         string     `bson:"name" json:"name"`
	MuscleGroup  string     `bson:"muscle_group" json:"muscle_group"`
	Comment      string     `bson:"comment,omitempty" json:"comment,omitempty"`
	NumExercises int        `bson:"num_exercises" json:"num_exercises"`
	NumSets      int        `bson:"num_sets" json:"num_sets"`
	Exercises    []Exercise `bson:"exercises" json:"exercises"`
}

// Exercise is embedded in a RoutineDay. Done mirrors the checkbox the client
// ticks during a session; it is never persisted.
type Exercise struct {
	Name        string   `bson:"name" json:"name"`
	Equipment   string   `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Series      int      `bson:"series" json:"series"`
	Repetitions int      `bson:"repetitions" json:"repetitions"`
	Rest        RestSpec `bson:"rest,omitempty" json:"rest,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Done        bool     `bson:"-" json:"done,omitempty"`
}

// RestSpec is the rest prescription between sets. It is free text, but old
// documents stored it as an integer number of seconds; the decoder accepts
// both encodings and renders legacy integers as "<n>s".
type RestSpec string

func (r *RestSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RestSpec(s)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*r = RestSpec(strconv.FormatInt(n, 10) + "s")
		return nil
	}
	return fmt.Errorf("rest must be a string or a number of seconds")
}

func (r *RestSpec) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeString:
		*r = RestSpec(raw.StringValue())
	case bson.TypeInt32:
		*r = RestSpec(strconv.FormatInt(int64(raw.Int32()), 10) + "s")
	case bson.TypeInt64:
		*r = RestSpec(strconv.FormatInt(raw.Int64(), 10) + "s")
	case bson.TypeDouble:
		*r = RestSpec(strconv.FormatInt(int64(raw.Double()), 10) + "s")
	case bson.TypeNull:
		*r = ""
	default:
		return fmt.Errorf("cannot decode %v into a rest spec", t)
	}
	return nil
}

// RecomputeTotals refreshes the derived exercise and set counters from the
// day's exercise list.
func (d *RoutineDay) RecomputeTotals() {
	d.NumExercises = len(d.Exercises)
	total := 0
	for _, ex := range d.Exercises {
		total += ex.Series
	}
	d.NumSets = total
}
