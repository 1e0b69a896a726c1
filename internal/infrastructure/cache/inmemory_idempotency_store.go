package cache

import (
	"context"
	"sync"
	"time"

	"github.com/colony/backend/internal/domain/shared"
)

const defaultSweepInterval = 5 * time.Minute

// InMemoryIdempotencyStore implements shared.IdempotencyStore with a map.
// Keys are only shared within one process, so it backs single-instance
// deployments and tests.
type InMemoryIdempotencyStore struct {
	mu        sync.Mutex
	expiry    map[string]time.Time
	clock     shared.Clock
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// InMemoryOption configures an InMemoryIdempotencyStore
type InMemoryOption func(*inMemoryOptions)

type inMemoryOptions struct {
	clock         shared.Clock
	sweepInterval time.Duration
}

// WithClock sets the time source used for expiry
func WithClock(clock shared.Clock) InMemoryOption {
	return func(o *inMemoryOptions) { o.clock = clock }
}

// WithSweepInterval sets how often expired keys are dropped
func WithSweepInterval(d time.Duration) InMemoryOption {
	return func(o *inMemoryOptions) { o.sweepInterval = d }
}

// NewInMemoryIdempotencyStore creates the store and starts its sweeper
func NewInMemoryIdempotencyStore(opts ...InMemoryOption) *InMemoryIdempotencyStore {
	o := inMemoryOptions{clock: shared.SystemClock{}, sweepInterval: defaultSweepInterval}
	for _, opt := range opts {
		opt(&o)
	}

	s := &InMemoryIdempotencyStore{
		expiry:   make(map[string]time.Time),
		clock:    o.clock,
		stopChan: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop(o.sweepInterval)
	return s
}

// MarkProcessed claims key for ttl. An expired claim can be taken again.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if exp, ok := s.expiry[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.expiry[key] = now.Add(ttl)
	return true, nil
}

// IsProcessed reports whether key holds an unexpired claim
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expiry[key]
	return ok && s.clock.Now().Before(exp), nil
}

// Release drops the claim on key
func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.expiry, key)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of stored claims, expired ones included until swept
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expiry)
}

func (s *InMemoryIdempotencyStore) sweepLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for key, exp := range s.expiry {
		if !now.Before(exp) {
			delete(s.expiry, key)
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
