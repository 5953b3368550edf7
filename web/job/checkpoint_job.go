// Package job contains the scheduled maintenance jobs of the web server.
package job

import (
	"bookshelf/database"
	"bookshelf/logger"
	"bookshelf/util/common"
)

// CheckpointJob flushes the sqlite WAL into the main database file.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

// Run implements cron.Job.
func (j *CheckpointJob) Run() {
	defer common.Recover("checkpoint job")

	if err := database.Checkpoint(); err != nil {
		logger.Warning("checkpoint job err:", err)
	} else {
		logger.Debug("database checkpoint completed")
	}
}
