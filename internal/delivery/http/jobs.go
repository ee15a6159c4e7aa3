package http

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pncpbot/backend/internal/domain"
)

// Job statuses. Extraction statuses (done/error/captcha) come from the
// pipeline result; queued and running are registry-only states.
const (
	JobQueued  = "queued"
	JobRunning = "running"
)

// Progress is the last reported (current, total, label) tuple of a job
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Label   string `json:"label"`
}

// job is the mutable state of one extraction run
type job struct {
	ID         string
	Status     string
	Params     domain.ExtractionParams
	Results    []domain.Record
	Logs       []string
	Progress   *Progress
	finishedAt time.Time
}

// JobView is the read-only snapshot returned to API clients.
// Logs is capped to the most recent lines.
type JobView struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Progress     *Progress       `json:"progress"`
	Results      []domain.Record `json:"results"`
	Logs         []string        `json:"logs"`
	TotalResults int             `json:"total_results"`
}

const jobViewLogLines = 30

// JobStore is a thread-safe in-memory job registry. Finished jobs are
// evicted after a TTL by a background cleanup goroutine.
type JobStore struct {
	jobs  map[string]*job
	mutex sync.RWMutex
	ttl   time.Duration
}

// NewJobStore creates a job registry that keeps finished jobs for ttl
func NewJobStore(ttl time.Duration) *JobStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	store := &JobStore{
		jobs: make(map[string]*job),
		ttl:  ttl,
	}

	// Cleanup goroutine removes expired finished jobs every 10 minutes
	go store.cleanupExpired()

	return store
}

// Create registers a new queued job and returns its ID
func (s *JobStore) Create(params domain.ExtractionParams) string {
	id := uuid.NewString()[:8]

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.jobs[id] = &job{
		ID:      id,
		Status:  JobQueued,
		Params:  params,
		Results: []domain.Record{},
		Logs:    []string{},
	}
	return id
}

// SetRunning marks a job as running
func (s *JobStore) SetRunning(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if j, ok := s.jobs[id]; ok {
		j.Status = JobRunning
	}
}

// AppendLog appends one log line to a job
func (s *JobStore) AppendLog(id, msg string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if j, ok := s.jobs[id]; ok {
		j.Logs = append(j.Logs, msg)
	}
}

// SetProgress records the latest progress tuple of a job
func (s *JobStore) SetProgress(id string, current, total int, label string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if j, ok := s.jobs[id]; ok {
		j.Progress = &Progress{Current: current, Total: total, Label: label}
	}
}

// Complete stores the terminal status and results of a job
func (s *JobStore) Complete(id, status string, results []domain.Record) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if j, ok := s.jobs[id]; ok {
		j.Status = status
		j.Results = results
		j.finishedAt = time.Now()
	}
}

// Snapshot returns a read-only view of a job
func (s *JobStore) Snapshot(id string) (JobView, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return JobView{}, domain.ErrJobNotFound
	}

	logs := j.Logs
	if len(logs) > jobViewLogLines {
		logs = logs[len(logs)-jobViewLogLines:]
	}

	view := JobView{
		ID:           j.ID,
		Status:       j.Status,
		Results:      append([]domain.Record(nil), j.Results...),
		Logs:         append([]string(nil), logs...),
		TotalResults: len(j.Results),
	}
	if j.Progress != nil {
		p := *j.Progress
		view.Progress = &p
	}
	return view, nil
}

// Size returns the current number of jobs in the registry
func (s *JobStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.jobs)
}

// cleanupExpired removes finished jobs past their TTL periodically
func (s *JobStore) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := time.Now()
		for id, j := range s.jobs {
			if !j.finishedAt.IsZero() && now.Sub(j.finishedAt) > s.ttl {
				delete(s.jobs, id)
			}
		}
		s.mutex.Unlock()
	}
}
