package services

import (
	"context"
	"fmt"
	"time"

	"github.com/raniahdez/trainup-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (f *fakeUserRepo) UpdateUserFields(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "new":
			u.New = v.(bool)
		case "hashed_password":
			u.HashedPassword = v.(string)
		}
	}
	return nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetTrainers(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Role == models.RoleTrainer {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetClientsByTrainer(_ context.Context, trainerID primitive.ObjectID, onlyNew bool) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Role == models.RoleClient && u.TrainerID == trainerID {
			if onlyNew && !u.New {
				continue
			}
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CountClientsByTrainer(_ context.Context, trainerID primitive.ObjectID) (int64, error) {
	var count int64
	for _, u := range f.users {
		if u.Role == models.RoleClient && u.TrainerID == trainerID {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) UpdateLastActive(_ context.Context, id primitive.ObjectID) error {
	if u, ok := f.users[id]; ok {
		u.LastActive = time.Now()
	}
	return nil
}

type fakeGoalRepo struct {
	goals map[primitive.ObjectID]*models.Goal
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: make(map[primitive.ObjectID]*models.Goal)}
}

func (f *fakeGoalRepo) CreateGoal(_ context.Context, goal *models.Goal) (*models.Goal, error) {
	goal.ID = primitive.NewObjectID()
	f.goals[goal.ID] = goal
	return goal, nil
}

func (f *fakeGoalRepo) GetGoalByID(_ context.Context, id primitive.ObjectID) (*models.Goal, error) {
	g, ok := f.goals[id]
	if !ok {
		return nil, nil
	}
	copied := *g
	return &copied, nil
}

func (f *fakeGoalRepo) GetGoalsByClient(_ context.Context, clientID primitive.ObjectID) ([]models.Goal, error) {
	var out []models.Goal
	for _, g := range f.goals {
		if g.ClientID == clientID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) SetGoal(_ context.Context, goal *models.Goal) error {
	if _, ok := f.goals[goal.ID]; !ok {
		return fmt.Errorf("goal not found")
	}
	copied := *goal
	f.goals[goal.ID] = &copied
	return nil
}

func (f *fakeGoalRepo) DeleteGoal(_ context.Context, id primitive.ObjectID) error {
	delete(f.goals, id)
	return nil
}

type fakeTaskRepo struct {
	tasks map[primitive.ObjectID]*models.DailyTask
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[primitive.ObjectID]*models.DailyTask)}
}

func (f *fakeTaskRepo) CreateTask(_ context.Context, task *models.DailyTask) (*models.DailyTask, error) {
	task.ID = primitive.NewObjectID()
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeTaskRepo) GetTaskByID(_ context.Context, id primitive.ObjectID) (*models.DailyTask, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) GetTasksByDate(_ context.Context, clientID primitive.ObjectID, date string) ([]models.DailyTask, error) {
	var out []models.DailyTask
	for _, task := range f.tasks {
		if task.ClientID == clientID && task.Date == date {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) SetTask(_ context.Context, task *models.DailyTask) error {
	if _, ok := f.tasks[task.ID]; !ok {
		return fmt.Errorf("task not found")
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskRepo) DeleteTask(_ context.Context, id primitive.ObjectID) error {
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) DeleteTasksBefore(_ context.Context, date string) (int64, error) {
	var removed int64
	for id, task := range f.tasks {
		if task.Date < date {
			delete(f.tasks, id)
			removed++
		}
	}
	return removed, nil
}

type fakeRoutineRepo struct {
	routines map[primitive.ObjectID]*models.WeeklyRoutine
}

func newFakeRoutineRepo() *fakeRoutineRepo {
	return &fakeRoutineRepo{routines: make(map[primitive.ObjectID]*models.WeeklyRoutine)}
}

func (f *fakeRoutineRepo) GetRoutine(_ context.Context, trainerID, clientID primitive.ObjectID) (*models.WeeklyRoutine, error) {
	r, ok := f.routines[clientID]
	if !ok || r.TrainerID != trainerID {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRoutineRepo) GetRoutineByClient(_ context.Context, clientID primitive.ObjectID) (*models.WeeklyRoutine, error) {
	r, ok := f.routines[clientID]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRoutineRepo) SetRoutine(_ context.Context, routine *models.WeeklyRoutine) error {
	if routine.ID.IsZero() {
		routine.ID = primitive.NewObjectID()
	}
	copied := *routine
	f.routines[routine.ClientID] = &copied
	return nil
}

func (f *fakeRoutineRepo) DeleteRoutine(_ context.Context, trainerID, clientID primitive.ObjectID) error {
	if r, ok := f.routines[clientID]; ok && r.TrainerID == trainerID {
		delete(f.routines, clientID)
	}
	return nil
}

type fakeHistoryRepo struct {
	entries []models.TrainingHistory
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (f *fakeHistoryRepo) AppendEntry(_ context.Context, entry *models.TrainingHistory) (*models.TrainingHistory, error) {
	entry.ID = primitive.NewObjectID()
	f.entries = append(f.entries, *entry)
	return entry, nil
}

func (f *fakeHistoryRepo) GetHistoryByClient(_ context.Context, clientID primitive.ObjectID) ([]models.TrainingHistory, error) {
	var out []models.TrainingHistory
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].ClientID == clientID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}
