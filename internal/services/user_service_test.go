package services

import (
	"context"
	"testing"

	"github.com/raniahdez/trainup-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func registerTrainer(t *testing.T, svc *UserService, name, email string, maxClients int) *models.User {
	t.Helper()
	trainer, err := svc.RegisterTrainer(context.Background(), RegisterTrainerInput{
		Name:       name,
		Email:      email,
		Password:   "secret123",
		Specialty:  "Fuerza",
		MaxClients: maxClients,
	})
	require.NoError(t, err)
	return trainer
}

func registerClient(t *testing.T, svc *UserService, name, email, trainerID string) *models.User {
	t.Helper()
	client, err := svc.RegisterClient(context.Background(), RegisterClientInput{
		Name:      name,
		Email:     email,
		Password:  "secret123",
		Objective: "Perder peso",
		TrainerID: trainerID,
	})
	require.NoError(t, err)
	return client
}

func TestRegisterTrainerHashesPassword(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	trainer := registerTrainer(t, svc, "Ana", "ana@example.com", 5)

	assert.Equal(t, models.RoleTrainer, trainer.Role)
	assert.NotEqual(t, "secret123", trainer.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(trainer.HashedPassword), []byte("secret123")))
}

func TestRegisterTrainerRejectsInvalidInput(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.RegisterTrainer(context.Background(), RegisterTrainerInput{
		Name:       "Ana",
		Email:      "not-an-email",
		Password:   "secret123",
		Specialty:  "Fuerza",
		MaxClients: 5,
	})
	assert.Error(t, err)

	_, err = svc.RegisterTrainer(context.Background(), RegisterTrainerInput{
		Name:       "Ana",
		Email:      "ana@example.com",
		Password:   "short",
		Specialty:  "Fuerza",
		MaxClients: 5,
	})
	assert.Error(t, err)
}

func TestRegisterTrainerDuplicateEmail(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	registerTrainer(t, svc, "Ana", "ana@example.com", 5)

	_, err := svc.RegisterTrainer(context.Background(), RegisterTrainerInput{
		Name:       "Otra Ana",
		Email:      "ana@example.com",
		Password:   "secret123",
		Specialty:  "Cardio",
		MaxClients: 3,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email already in use")
}

func TestRegisterClientMarkedNew(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	trainer := registerTrainer(t, svc, "Ana", "ana@example.com", 5)

	client := registerClient(t, svc, "Leo", "leo@example.com", trainer.ID.Hex())

	assert.Equal(t, models.RoleClient, client.Role)
	assert.Equal(t, trainer.ID, client.TrainerID)
	assert.True(t, client.New)
}

func TestRegisterClientTrainerAtCapacity(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	trainer := registerTrainer(t, svc, "Ana", "ana@example.com", 2)

	registerClient(t, svc, "Leo", "leo@example.com", trainer.ID.Hex())
	registerClient(t, svc, "Mia", "mia@example.com", trainer.ID.Hex())

	_, err := svc.RegisterClient(context.Background(), RegisterClientInput{
		Name:      "Sam",
		Email:     "sam@example.com",
		Password:  "secret123",
		Objective: "Ganar masa",
		TrainerID: trainer.ID.Hex(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "full capacity")
}

func TestRegisterClientUnknownTrainer(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	trainer := registerTrainer(t, svc, "Ana", "ana@example.com", 5)
	client := registerClient(t, svc, "Leo", "leo@example.com", trainer.ID.Hex())

	// A client ID is a valid ObjectID but not a trainer.
	_, err := svc.RegisterClient(context.Background(), RegisterClientInput{
		Name:      "Sam",
		Email:     "sam@example.com",
		Password:  "secret123",
		Objective: "Ganar masa",
		TrainerID: client.ID.Hex(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trainer not found")
}

func TestAuthenticate(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	registerTrainer(t, svc, "Ana", "ana@example.com", 5)

	user, err := svc.Authenticate(context.Background(), "ana@example.com", "secret123", models.RoleTrainer)
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)

	_, err = svc.Authenticate(context.Background(), "ana@example.com", "wrong-password", models.RoleTrainer)
	assert.Error(t, err)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "secret123", models.RoleTrainer)
	assert.Error(t, err)
}

func TestAuthenticateRoleMismatch(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	registerTrainer(t, svc, "Ana", "ana@example.com", 5)

	// Correct password, wrong intended role.
	_, err := svc.Authenticate(context.Background(), "ana@example.com", "secret123", models.RoleClient)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role")
}

func TestListTrainersReportsCapacity(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	trainer := registerTrainer(t, svc, "Ana", "ana@example.com", 2)
	registerClient(t, svc, "Leo", "leo@example.com", trainer.ID.Hex())
	registerClient(t, svc, "Mia", "mia@example.com", trainer.ID.Hex())

	listings, err := svc.ListTrainers(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, 2, listings[0].CurrentClients)
	assert.True(t, listings[0].Full)
}

func TestMarkClientSeen(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	trainer := registerTrainer(t, svc, "Ana", "ana@example.com", 5)
	client := registerClient(t, svc, "Leo", "leo@example.com", trainer.ID.Hex())

	newOnes, err := svc.ListClients(context.Background(), trainer.ID.Hex(), true)
	require.NoError(t, err)
	require.Len(t, newOnes, 1)

	require.NoError(t, svc.MarkClientSeen(context.Background(), trainer.ID.Hex(), client.ID.Hex()))

	newOnes, err = svc.ListClients(context.Background(), trainer.ID.Hex(), true)
	require.NoError(t, err)
	assert.Empty(t, newOnes)

	all, err := svc.ListClients(context.Background(), trainer.ID.Hex(), false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetClientOfTrainerOwnership(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	ana := registerTrainer(t, svc, "Ana", "ana@example.com", 5)
	bob := registerTrainer(t, svc, "Bob", "bob@example.com", 5)
	client := registerClient(t, svc, "Leo", "leo@example.com", ana.ID.Hex())

	got, err := svc.GetClientOfTrainer(context.Background(), ana.ID.Hex(), client.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, client.ID, got.ID)

	_, err = svc.GetClientOfTrainer(context.Background(), bob.ID.Hex(), client.ID.Hex())
	assert.Error(t, err)
}

func TestChangePasswordRequiresReauth(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	trainer := registerTrainer(t, svc, "Ana", "ana@example.com", 5)

	err := svc.ChangePassword(context.Background(), trainer.ID.Hex(), "wrong-password", "newsecret")
	require.Error(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), trainer.ID.Hex(), "secret123", "newsecret"))

	_, err = svc.Authenticate(context.Background(), "ana@example.com", "newsecret", models.RoleTrainer)
	assert.NoError(t, err)
}

func TestDeleteAccountLeavesClientDataBehind(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo)
	goals := NewGoalService(newFakeGoalRepo())

	trainer := registerTrainer(t, svc, "Ana", "ana@example.com", 5)
	client := registerClient(t, svc, "Leo", "leo@example.com", trainer.ID.Hex())

	_, err := goals.CreateGoal(context.Background(), client.ID.Hex(), "Correr 5km")
	require.NoError(t, err)

	err = svc.DeleteAccount(context.Background(), client.ID.Hex(), "wrong-password")
	require.Error(t, err)

	require.NoError(t, svc.DeleteAccount(context.Background(), client.ID.Hex(), "secret123"))

	_, err = svc.GetUser(context.Background(), client.ID.Hex())
	assert.Error(t, err)

	// Only the account document goes away.
	remaining, err := goals.ListGoals(context.Background(), client.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
