package jobs

import (
	"fmt"
)

// Job is a scheduled task owned by the JobManager.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []Job
	started []Job
}

// NewJobManager takes the jobs in start order. Nil jobs are skipped so
// disabled jobs can be passed through unchanged.
func NewJobManager(jobs ...Job) *JobManager {
	jm := &JobManager{}
	for _, job := range jobs {
		if job != nil {
			jm.jobs = append(jm.jobs, job)
		}
	}
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	for _, job := range jm.jobs {
		if err := job.Start(); err != nil {
			// Stop already started jobs if this one fails
			jm.StopAll()
			return fmt.Errorf("failed to start %T: %w", job, err)
		}
		jm.started = append(jm.started, job)
	}
	return nil
}

// StopAll stops the started jobs in reverse order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].Stop()
	}
	jm.started = nil
}
