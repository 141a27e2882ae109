package utils

import (
	"sync"
	"time"
)

// WorkerPool runs submitted jobs on at most maxWorkers goroutines, optionally
// spacing job starts by a minimum interval.
type WorkerPool struct {
	maxWorkers  int
	minInterval time.Duration
	semaphore   chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	lastStart   time.Time
	errMu       sync.Mutex
	errs        []error
}

// NewWorkerPool creates a WorkerPool. A zero interval disables spacing.
func NewWorkerPool(maxWorkers int, minInterval time.Duration) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		maxWorkers:  maxWorkers,
		minInterval: minInterval,
		semaphore:   make(chan struct{}, maxWorkers),
	}
}

// Submit enqueues a job. A non-nil error returned by the job is kept for Wait.
func (wp *WorkerPool) Submit(job func() error) {
	wp.wg.Add(1)
	wp.semaphore <- struct{}{}

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()

		wp.space()
		if err := job(); err != nil {
			wp.errMu.Lock()
			wp.errs = append(wp.errs, err)
			wp.errMu.Unlock()
		}
	}()
}

// Wait blocks until all submitted jobs have completed and returns their errors.
func (wp *WorkerPool) Wait() []error {
	wp.wg.Wait()
	wp.errMu.Lock()
	defer wp.errMu.Unlock()
	errs := wp.errs
	wp.errs = nil
	return errs
}

func (wp *WorkerPool) space() {
	if wp.minInterval <= 0 {
		return
	}
	wp.mu.Lock()
	defer wp.mu.Unlock()

	elapsed := time.Since(wp.lastStart)
	if elapsed < wp.minInterval {
		time.Sleep(wp.minInterval - elapsed)
	}
	wp.lastStart = time.Now()
}

// KeySet is a thread-safe set of string keys.
type KeySet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewKeySet creates an empty KeySet holding keys.
func NewKeySet(keys ...string) *KeySet {
	s := &KeySet{seen: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		s.seen[k] = struct{}{}
	}
	return s
}

// Add returns true if the key was newly added, false if already present.
func (s *KeySet) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Contains returns true if the key is in the set.
func (s *KeySet) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[key]
	return exists
}

// Size returns the number of unique keys tracked.
func (s *KeySet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
