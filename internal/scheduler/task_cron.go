package cron

import (
	"context"

	"github.com/raniahdez/trainup-backend/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartTaskCronJobs schedules the daily task sweep. Tasks for a new day
// start from a clean slate, so the sweep runs right after midnight and
// once at startup to catch anything missed while the server was down.
func StartTaskCronJobs(sweeper *jobs.TaskSweeper) *cron.Cron {
	c := cron.New()

	c.AddFunc("5 0 * * *", func() {
		if err := sweeper.RunDailySweep(context.Background()); err != nil {
			logrus.WithError(err).Error("RunDailySweep failed")
		}
	})

	c.Start()

	go func() {
		if err := sweeper.RunDailySweep(context.Background()); err != nil {
			logrus.WithError(err).Error("Startup task sweep failed")
		}
	}()

	return c
}
