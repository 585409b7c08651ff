package jobs

import (
	"fmt"
)

// Job is a scheduled background task.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []namedJob
	started int
}

type namedJob struct {
	name string
	job  Job
}

// NewJobManager wires the dispatch retry sweep and the mirror heartbeat.
func NewJobManager(assignment *DriverAssignmentJob, heartbeat *MirrorHeartbeatJob) *JobManager {
	jm := &JobManager{}
	jm.Add("driver assignment", assignment)
	jm.Add("mirror heartbeat", heartbeat)
	return jm
}

// Add registers a job. Nil jobs are ignored so optional jobs can be left out.
func (jm *JobManager) Add(name string, job Job) {
	if job == nil || isNilJob(job) {
		return
	}
	jm.jobs = append(jm.jobs, namedJob{name: name, job: job})
}

// StartAll starts jobs in registration order. If one fails, the ones already started are
// stopped and the error is returned.
func (jm *JobManager) StartAll() error {
	for i, nj := range jm.jobs {
		if err := nj.job.Start(); err != nil {
			for k := i - 1; k >= 0; k-- {
				jm.jobs[k].job.Stop()
			}
			jm.started = 0
			return fmt.Errorf("failed to start %s job: %w", nj.name, err)
		}
		jm.started = i + 1
	}
	return nil
}

// StopAll stops started jobs in reverse order, waiting for running ticks.
func (jm *JobManager) StopAll() {
	for k := jm.started - 1; k >= 0; k-- {
		jm.jobs[k].job.Stop()
	}
	jm.started = 0
}

func isNilJob(job Job) bool {
	switch j := job.(type) {
	case *DriverAssignmentJob:
		return j == nil
	case *MirrorHeartbeatJob:
		return j == nil
	}
	return false
}
