package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles form a closed enumeration; every stored user carries exactly one.
const (
	RoleClient  = "CLIENT"
	RoleTrainer = "TRAINER"
)

// User represents a TrainUp account. Clients and trainers share one
// collection, discriminated by Role; the role-specific fields are omitted
// from documents of the other role.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	Role           string             `bson:"role" json:"role"`

	// Client-only fields. A client has exactly one trainer. The "new" flag
	// marks clients the trainer has not opened yet; earlier revisions wrote
	// this field as "isNew", the canonical stored name is "new".
	Objective string             `bson:"objective,omitempty" json:"objective,omitempty"`
	TrainerID primitive.ObjectID `bson:"trainer_id,omitempty" json:"trainer_id,omitempty"`
	New       bool               `bson:"new,omitempty" json:"new,omitempty"`

	// Trainer-only fields.
	Specialty  string `bson:"specialty,omitempty" json:"specialty,omitempty"`
	MaxClients int    `bson:"max_clients,omitempty" json:"max_clients,omitempty"`

	LastActive time.Time `bson:"last_active,omitempty" json:"last_active,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// TrainerListing is the public view of a trainer shown on the client
// registration screen, including how many slots are taken.
type TrainerListing struct {
	ID             primitive.ObjectID `json:"id"`
	Name           string             `json:"name"`
	Specialty      string             `json:"specialty"`
	MaxClients     int                `json:"max_clients"`
	CurrentClients int                `json:"current_clients"`
	Full           bool               `json:"full"`
}
