package api

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/khanhnv2901/secdash/internal/domain/scan"
	"github.com/khanhnv2901/secdash/internal/render"
	"k8s.io/utils/clock"
)

// Job statuses
const (
	JobPending = "pending"
	JobRunning = "running"
	JobDone    = "done"
	JobError   = "error"
)

// Job tracks one background scan. Findings grow as stages become visible.
type Job struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Website    string         `json:"website"`
	Status     string         `json:"status"`
	Findings   []scan.Finding `json:"findings"`
	Report     *render.View   `json:"report,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Error      string         `json:"error,omitempty"`

	seq uint64
}

func (j *Job) clone() Job {
	c := *j
	c.Findings = append([]scan.Finding(nil), j.Findings...)
	return c
}

type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	subscribers map[chan Job]struct{}
	maxJobs     int // Maximum number of jobs to keep in memory
	clock       clock.PassiveClock
	created     uint64
}

// NewJobManager creates an empty manager; a nil clk uses the wall clock
func NewJobManager(clk clock.PassiveClock) *JobManager {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &JobManager{
		jobs:        make(map[string]*Job),
		subscribers: make(map[chan Job]struct{}),
		maxJobs:     1000,
		clock:       clk,
	}
}

func (m *JobManager) CreateJob(jobType, website string) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
	job := &Job{
		ID:        generateID(jobType),
		Type:      jobType,
		Website:   website,
		Status:    JobPending,
		Findings:  []scan.Finding{},
		CreatedAt: m.clock.Now(),
		seq:       m.created,
	}
	m.jobs[job.ID] = job
	m.prune()
	m.broadcast(job.clone())
	c := job.clone()
	return &c
}

func (m *JobManager) UpdateJob(id string, update func(*Job)) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil
	}
	update(job)
	m.broadcast(job.clone())
	c := job.clone()
	return &c
}

func (m *JobManager) GetJob(id string) *Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if job, ok := m.jobs[id]; ok {
		c := job.clone()
		return &c
	}
	return nil
}

// ListJobs returns up to limit jobs, most recently created first
func (m *JobManager) ListJobs(limit int) []Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.jobs) {
		limit = len(m.jobs)
	}
	jobs := make([]Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job.clone())
	}

	// creation order breaks ties between equal timestamps
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].seq > jobs[j].seq
	})

	return jobs[:limit]
}

func (m *JobManager) Subscribe() (chan Job, func()) {
	ch := make(chan Job, 16)
	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()
	return ch, func() {
		m.mu.Lock()
		if _, ok := m.subscribers[ch]; ok {
			delete(m.subscribers, ch)
			close(ch)
		}
		m.mu.Unlock()
	}
}

// broadcast must be called with m.mu held. Slow subscribers miss updates.
func (m *JobManager) broadcast(job Job) {
	for ch := range m.subscribers {
		select {
		case ch <- job:
		default:
		}
	}
}

// prune drops the oldest finished jobs once the manager holds more than maxJobs.
// Must be called with m.mu held.
func (m *JobManager) prune() {
	if len(m.jobs) <= m.maxJobs {
		return
	}

	type finished struct {
		id   string
		time time.Time
	}
	var done []finished
	for id, job := range m.jobs {
		if (job.Status == JobDone || job.Status == JobError) && job.FinishedAt != nil {
			done = append(done, finished{id: id, time: *job.FinishedAt})
		}
	}
	sort.Slice(done, func(i, j int) bool {
		return done[i].time.Before(done[j].time)
	})

	toRemove := min(len(m.jobs)-m.maxJobs, len(done))
	for i := 0; i < toRemove; i++ {
		delete(m.jobs, done[i].id)
	}
}

// SetMaxJobs configures the maximum number of jobs to retain in memory
func (m *JobManager) SetMaxJobs(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if max > 0 {
		m.maxJobs = max
	}
}

func generateID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}
