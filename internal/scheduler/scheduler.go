package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Handle cancels a task scheduled with AfterFunc. Cancel is idempotent and a
// no-op once the task has run.
type Handle interface {
	Cancel()
}

// Scheduler runs one-shot delayed tasks on a gocron scheduler.
type Scheduler struct {
	mu        sync.Mutex // gocron's builder chain is not safe for concurrent use
	scheduler *gocron.Scheduler
}

// New creates a new Scheduler.
func New() *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Start starts the underlying scheduler.
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop stops the scheduler and drops any pending tasks.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// AfterFunc runs fn once, d from now, on its own goroutine.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) (Handle, error) {
	if d <= 0 {
		return nil, fmt.Errorf("scheduler: delay must be positive, got %s", d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := &jobHandle{scheduler: s}
	job, err := s.scheduler.Every(d).WaitForSchedule().LimitRunsTo(1).Do(func() {
		if h.claim() {
			fn()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	h.job = job
	return h, nil
}

func (s *Scheduler) remove(job *gocron.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduler.RemoveByReference(job)
}

type jobHandle struct {
	scheduler *Scheduler
	job       *gocron.Job

	mu   sync.Mutex
	done bool
}

// claim marks the task as run; it reports false if the task was cancelled first.
func (h *jobHandle) claim() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return false
	}
	h.done = true
	return true
}

func (h *jobHandle) Cancel() {
	h.mu.Lock()
	alreadyDone := h.done
	h.done = true
	h.mu.Unlock()

	if alreadyDone {
		return
	}
	if h.job != nil {
		h.scheduler.remove(h.job)
	}
	log.Printf("DEBUG: scheduler: task cancelled")
}
