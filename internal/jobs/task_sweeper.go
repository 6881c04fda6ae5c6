package jobs

import (
	"context"
	"fmt"

	"github.com/raniahdez/trainup-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// TaskSweeper removes daily tasks whose day has passed. Tasks only live
// for their assigned date, so anything dated before today is stale.
type TaskSweeper struct {
	TaskService *services.TaskService
}

// NewTaskSweeper creates a new instance of TaskSweeper
func NewTaskSweeper(taskService *services.TaskService) *TaskSweeper {
	return &TaskSweeper{TaskService: taskService}
}

// RunDailySweep deletes every task dated before today.
func (t *TaskSweeper) RunDailySweep(ctx context.Context) error {
	removed, err := t.TaskService.SweepExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep tasks: %v", err)
	}

	logrus.WithField("removed", removed).Info("Daily task sweep completed")
	return nil
}
