package cron

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/stefanologica/firebear-importexport/core/log"
)

// StartCron schedules every registered job and starts the scheduler. Jobs run
// with ctx; cancel it and call Stop to shut down.
func StartCron(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()
	for _, j := range Jobs() {
		job := j
		_, err := c.AddFunc(job.Schedule, func() {
			log.Infof("cron: running %s", job.Name)
			if err := job.Run(ctx); err != nil {
				log.Error("cron: "+job.Name+" failed", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("register cron job %s: %w", job.Name, err)
		}
	}
	c.Start()
	return c, nil
}
