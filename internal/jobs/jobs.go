// Package jobs provides in-memory queueing for asynchronous document
// conversion. One job is one document; jobs never share state, so any
// number may run concurrently. Jobs are lost on restart; persistence is
// the caller's problem if it ever needs one.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docneat/statement-converter/internal/models"
)

// Status is the lifecycle state of a conversion job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ConvertJob tracks one document through conversion.
type ConvertJob struct {
	ID        string         `json:"id"`
	FileName  string         `json:"fileName"`
	InputPath string         `json:"-"`
	// AnalyzeResponse holds a client-supplied detection response, set when
	// the upload attached one; the worker then skips the engine.
	AnalyzeResponse string `json:"-"`
	Status    Status         `json:"status"`
	Error     string         `json:"error,omitempty"`
	Result    *models.Result `json:"result,omitempty"`
	CSVName   string         `json:"csvName,omitempty"`
	XLSXName  string         `json:"xlsxName,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Store holds job records in memory, safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*ConvertJob
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]*ConvertJob)}
}

// Save inserts or updates a job record.
func (s *Store) Save(job *ConvertJob) error {
	if job.ID == "" {
		return fmt.Errorf("job ID is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

// Get returns a copy of the job with the given ID.
func (s *Store) Get(id string) (*ConvertJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job not found: %s", id)
	}
	cp := *job
	return &cp, nil
}

// Handler performs the actual conversion for one job, filling in its
// result fields.
type Handler func(ctx context.Context, job *ConvertJob) error

// Queue distributes jobs to worker goroutines over a channel.
type Queue struct {
	jobChan   chan *ConvertJob
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	store     *Store
	closed    bool
}

// NewQueue creates a queue; Publish blocks once bufferSize jobs are waiting.
func NewQueue(bufferSize int, store *Store) *Queue {
	return &Queue{
		jobChan:   make(chan *ConvertJob, bufferSize),
		closeChan: make(chan struct{}),
		store:     store,
	}
}

// Publish enqueues a job for asynchronous conversion, assigning an ID and
// pending status as needed.
func (q *Queue) Publish(ctx context.Context, job *ConvertJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return fmt.Errorf("queue is closed")
	}

	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = StatusPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	if err := q.store.Save(job); err != nil {
		return fmt.Errorf("save job: %w", err)
	}

	select {
	case q.jobChan <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.closeChan:
		return fmt.Errorf("queue is closed")
	}
}

// Start launches workers that run fn for each job until the context is
// cancelled or the queue is closed.
func (q *Queue) Start(ctx context.Context, workers int, fn Handler) {
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for {
				select {
				case job := <-q.jobChan:
					q.run(ctx, job, fn)
				case <-ctx.Done():
					return
				case <-q.closeChan:
					return
				}
			}
		}()
	}
}

func (q *Queue) run(ctx context.Context, job *ConvertJob, fn Handler) {
	now := time.Now()
	job.Status = StatusRunning
	job.StartedAt = &now
	q.store.Save(job)

	err := fn(ctx, job)

	done := time.Now()
	job.CompletedAt = &done
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
	} else {
		job.Status = StatusCompleted
	}
	q.store.Save(job)
}

// Close stops accepting jobs, waits for in-flight work to finish, and
// fails any jobs still buffered so pollers see a terminal status.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()
	q.wg.Wait()

	for {
		select {
		case job := <-q.jobChan:
			now := time.Now()
			job.Status = StatusFailed
			job.Error = "conversion queue shut down before the job started"
			job.CompletedAt = &now
			q.store.Save(job)
		default:
			return
		}
	}
}
