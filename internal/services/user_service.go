package services

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-playground/validator/v10"
	"github.com/raniahdez/trainup-backend/internal/models"
	"github.com/raniahdez/trainup-backend/pkg/email"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// UserRepo is the slice of the user repository the user service depends on.
type UserRepo interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateUserFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	GetTrainers(ctx context.Context) ([]models.User, error)
	GetClientsByTrainer(ctx context.Context, trainerID primitive.ObjectID, onlyNew bool) ([]models.User, error)
	CountClientsByTrainer(ctx context.Context, trainerID primitive.ObjectID) (int64, error)
	UpdateLastActive(ctx context.Context, id primitive.ObjectID) error
}

// UserService encapsulates the business logic for accounts and sessions.
type UserService struct {
	repo UserRepo
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserRepo) *UserService {
	return &UserService{
		repo: repo,
	}
}

// RegisterTrainerInput is the payload for trainer registration.
type RegisterTrainerInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Specialty  string `json:"specialty" validate:"required"`
	MaxClients int    `json:"max_clients" validate:"required,gt=0"`
}

// RegisterClientInput is the payload for client registration.
type RegisterClientInput struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Objective string `json:"objective" validate:"required"`
	TrainerID string `json:"trainer_id" validate:"required"`
}

// RegisterTrainer registers a new trainer after hashing their password.
func (s *UserService) RegisterTrainer(ctx context.Context, input RegisterTrainerInput) (*models.User, error) {
	logrus.Info("Registering new trainer")

	if err := validate.Struct(input); err != nil {
		logrus.WithError(err).Warn("Invalid trainer registration payload")
		return nil, fmt.Errorf("invalid registration data: %v", err)
	}

	existing, _ := s.repo.GetUserByEmail(ctx, input.Email)
	if existing != nil {
		logrus.WithField("email", input.Email).Warn("Email already in use")
		return nil, fmt.Errorf("email already in use")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	trainer := &models.User{
		Name:           input.Name,
		Email:          input.Email,
		HashedPassword: string(hashedPwd),
		Role:           models.RoleTrainer,
		Specialty:      input.Specialty,
		MaxClients:     input.MaxClients,
	}

	created, err := s.repo.CreateUser(ctx, trainer)
	if err != nil {
		logrus.WithError(err).Error("Trainer registration failed")
		return nil, fmt.Errorf("failed to register trainer: %v", err)
	}

	logrus.WithField("userID", created.ID.Hex()).Info("Trainer registered successfully")
	return created, nil
}

// RegisterClient registers a new client under a trainer. The trainer's
// declared capacity is checked by a read-time comparison only: two
// registrations racing past the same count can both succeed.
func (s *UserService) RegisterClient(ctx context.Context, input RegisterClientInput) (*models.User, error) {
	logrus.Info("Registering new client")

	if err := validate.Struct(input); err != nil {
		logrus.WithError(err).Warn("Invalid client registration payload")
		return nil, fmt.Errorf("invalid registration data: %v", err)
	}

	trainerID, err := primitive.ObjectIDFromHex(input.TrainerID)
	if err != nil {
		return nil, fmt.Errorf("invalid trainer ID: %v", err)
	}

	trainer, err := s.repo.GetUserByID(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up trainer: %v", err)
	}
	if trainer == nil || trainer.Role != models.RoleTrainer {
		return nil, fmt.Errorf("trainer not found")
	}

	count, err := s.repo.CountClientsByTrainer(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count trainer clients: %v", err)
	}
	if count >= int64(trainer.MaxClients) {
		logrus.WithFields(logrus.Fields{
			"trainerID": trainerID.Hex(),
			"clients":   count,
			"max":       trainer.MaxClients,
		}).Warn("Trainer at full capacity")
		return nil, fmt.Errorf("trainer is at full capacity")
	}

	existing, _ := s.repo.GetUserByEmail(ctx, input.Email)
	if existing != nil {
		logrus.WithField("email", input.Email).Warn("Email already in use")
		return nil, fmt.Errorf("email already in use")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	client := &models.User{
		Name:           input.Name,
		Email:          input.Email,
		HashedPassword: string(hashedPwd),
		Role:           models.RoleClient,
		Objective:      input.Objective,
		TrainerID:      trainerID,
		New:            true,
	}

	created, err := s.repo.CreateUser(ctx, client)
	if err != nil {
		logrus.WithError(err).Error("Client registration failed")
		return nil, fmt.Errorf("failed to register client: %v", err)
	}

	// Best effort only; registration does not fail over a mail problem.
	body := fmt.Sprintf("%s just signed up as your client.\nObjective: %s", created.Name, created.Objective)
	if err := email.SendEmail(trainer.Email, "New TrainUp client", body); err != nil {
		logrus.WithError(err).Warn("Failed to notify trainer about new client")
	}

	logrus.WithFields(logrus.Fields{
		"userID":    created.ID.Hex(),
		"trainerID": trainerID.Hex(),
	}).Info("Client registered successfully")
	return created, nil
}

// Authenticate verifies email, password and the role the caller intends to
// sign in as. A correct password with the wrong role is still rejected.
func (s *UserService) Authenticate(ctx context.Context, userEmail, password, role string) (*models.User, error) {
	logrus.WithField("email", userEmail).Info("Authenticating user")

	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %v", err)
	}
	if user == nil {
		logrus.WithField("email", userEmail).Warn("User not found")
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", userEmail).Warn("Invalid credentials")
		return nil, fmt.Errorf("invalid credentials")
	}

	if user.Role != role {
		logrus.WithFields(logrus.Fields{
			"email":    userEmail,
			"role":     user.Role,
			"intended": role,
		}).Warn("Role mismatch during login")
		return nil, fmt.Errorf("invalid credentials or role")
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return user, nil
}

// ListTrainers returns the trainer directory shown during client
// registration, with each trainer's taken slots.
func (s *UserService) ListTrainers(ctx context.Context) ([]models.TrainerListing, error) {
	trainers, err := s.repo.GetTrainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trainers: %v", err)
	}

	listings := make([]models.TrainerListing, 0, len(trainers))
	for _, t := range trainers {
		count, err := s.repo.CountClientsByTrainer(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count clients for trainer %s: %v", t.ID.Hex(), err)
		}
		listings = append(listings, models.TrainerListing{
			ID:             t.ID,
			Name:           t.Name,
			Specialty:      t.Specialty,
			MaxClients:     t.MaxClients,
			CurrentClients: int(count),
			Full:           count >= int64(t.MaxClients),
		})
	}

	return listings, nil
}

// ListClients returns a trainer's clients, optionally only the new ones.
func (s *UserService) ListClients(ctx context.Context, trainerID string, onlyNew bool) ([]models.User, error) {
	objID, err := primitive.ObjectIDFromHex(trainerID)
	if err != nil {
		return nil, fmt.Errorf("invalid trainer ID: %v", err)
	}
	return s.repo.GetClientsByTrainer(ctx, objID, onlyNew)
}

// GetClientOfTrainer fetches a client and verifies it belongs to the trainer.
func (s *UserService) GetClientOfTrainer(ctx context.Context, trainerID, clientID string) (*models.User, error) {
	trainerObjID, err := primitive.ObjectIDFromHex(trainerID)
	if err != nil {
		return nil, fmt.Errorf("invalid trainer ID: %v", err)
	}
	clientObjID, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID: %v", err)
	}

	client, err := s.repo.GetUserByID(ctx, clientObjID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %v", err)
	}
	if client == nil || client.Role != models.RoleClient || client.TrainerID != trainerObjID {
		return nil, fmt.Errorf("client not found")
	}

	return client, nil
}

// MarkClientSeen clears a client's new flag, the first time the trainer
// opens the client's detail screen.
func (s *UserService) MarkClientSeen(ctx context.Context, trainerID, clientID string) error {
	client, err := s.GetClientOfTrainer(ctx, trainerID, clientID)
	if err != nil {
		return err
	}
	return s.repo.UpdateUserFields(ctx, client.ID, map[string]interface{}{"new": false})
}

// UpdateName changes the user's display name.
func (s *UserService) UpdateName(ctx context.Context, id, newName string) error {
	if newName == "" {
		return fmt.Errorf("name cannot be empty")
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid user ID: %v", err)
	}
	return s.repo.UpdateUserFields(ctx, objID, map[string]interface{}{"name": newName})
}

// ChangePassword re-authenticates with the current password before storing
// the new one.
func (s *UserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(currentPassword)); err != nil {
		logrus.WithField("userID", id).Warn("Reauthentication failed during password change")
		return fmt.Errorf("reauthentication failed")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	return s.repo.UpdateUserFields(ctx, user.ID, map[string]interface{}{"hashed_password": string(hashedPwd)})
}

// DeleteAccount re-authenticates, then deletes the user's top-level document.
// Goals, daily tasks and training history are left behind untouched.
func (s *UserService) DeleteAccount(ctx context.Context, id, currentPassword string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(currentPassword)); err != nil {
		logrus.WithField("userID", id).Warn("Reauthentication failed during account deletion")
		return fmt.Errorf("reauthentication failed")
	}

	if err := s.repo.DeleteUser(ctx, user.ID); err != nil {
		return err
	}

	logrus.WithField("userID", id).Info("Account deleted")
	return nil
}

// UpdateLastActive stamps the user's last activity time.
func (s *UserService) UpdateLastActive(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.UpdateLastActive(ctx, id)
}
