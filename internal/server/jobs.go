package server

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hsn0918/r3m/pkg/engine"
	"github.com/hsn0918/r3m/pkg/logger"
	"github.com/hsn0918/r3m/pkg/redis"
)

const jobTTL = 6 * time.Hour

// Job tracks one asynchronous processing request.
type Job struct {
	JobID       string                 `json:"job_id"`
	FileName    string                 `json:"file_name"`
	Completed   bool                   `json:"completed"`
	CreatedAt   time.Time              `json:"created_at"`
	CompletedAt time.Time              `json:"completed_at,omitempty"`
	Result      *engine.DocumentResult `json:"result,omitempty"`
}

// JobManager tracks async jobs in memory, mirroring them into the optional
// Redis store so results survive restarts.
type JobManager struct {
	mu    sync.Mutex
	jobs  map[string]Job
	store redis.Store
}

// NewJobManager returns a job manager; store may be nil for memory-only
// operation.
func NewJobManager(store redis.Store) *JobManager {
	return &JobManager{jobs: make(map[string]Job), store: store}
}

// newJobID returns a 32-character lowercase hex identifier.
func newJobID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Create registers a new pending job.
func (m *JobManager) Create(fileName string) Job {
	job := Job{
		JobID:     newJobID(),
		FileName:  fileName,
		CreatedAt: time.Now(),
	}
	m.mu.Lock()
	m.jobs[job.JobID] = job
	m.mu.Unlock()
	m.persist(job)
	return job
}

// Complete stores the result on the job.
func (m *JobManager) Complete(jobID string, result engine.DocumentResult) bool {
	m.mu.Lock()
	job, ok := m.jobs[jobID]
	if !ok {
		m.mu.Unlock()
		return false
	}
	job.Completed = true
	job.CompletedAt = time.Now()
	job.Result = &result
	m.jobs[jobID] = job
	m.mu.Unlock()
	m.persist(job)
	return true
}

// Get returns the job, consulting the Redis store for ids created before
// a restart.
func (m *JobManager) Get(jobID string) (Job, bool) {
	m.mu.Lock()
	job, ok := m.jobs[jobID]
	m.mu.Unlock()
	if ok {
		return job, true
	}
	if m.store == nil {
		return Job{}, false
	}
	var stored Job
	found, err := m.store.GetJSON(context.Background(), jobKey(jobID), &stored)
	if err != nil {
		logger.Get().Warn("job store lookup failed", "job_id", jobID, "error", err)
		return Job{}, false
	}
	return stored, found
}

// Remove deletes the job from memory and the store.
func (m *JobManager) Remove(jobID string) bool {
	m.mu.Lock()
	_, ok := m.jobs[jobID]
	delete(m.jobs, jobID)
	m.mu.Unlock()
	if m.store != nil {
		if err := m.store.Delete(context.Background(), jobKey(jobID)); err != nil {
			logger.Get().Warn("job store delete failed", "job_id", jobID, "error", err)
		}
	}
	return ok
}

func (m *JobManager) persist(job Job) {
	if m.store == nil {
		return
	}
	if err := m.store.SetJSON(context.Background(), jobKey(job.JobID), job, jobTTL); err != nil {
		logger.Get().Warn("job store persist failed", "job_id", job.JobID, "error", err)
	}
}

func jobKey(jobID string) string { return "job:" + jobID }
