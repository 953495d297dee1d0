package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/aretw0/gobarber/pkg/adapters/memory"
	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/aretw0/gobarber/pkg/ports"
)

var errStoreDown = errors.New("store down")

// stubAPI answers CreateSession with a canned response.
type stubAPI struct {
	resp    domain.SessionResponse
	err     error
	release chan struct{} // when set, calls block until it is closed
	calls   atomic.Int32
}

func (s *stubAPI) CreateSession(ctx context.Context, creds domain.Credentials) (domain.SessionResponse, error) {
	s.calls.Add(1)
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return domain.SessionResponse{}, ctx.Err()
		}
	}
	return s.resp, s.err
}

func aliceResponse() domain.SessionResponse {
	return domain.SessionResponse{
		Token: "t1",
		User:  &domain.UserProfile{ID: "u1", Name: "Alice"},
	}
}

// spyStore wraps a memory store, counts writes and can inject failures.
type spyStore struct {
	*memory.Store

	mu          sync.Mutex
	writes      int
	failGet     error
	failSet     error
	failRemove  error
	beforeSet   func()
	afterRemove func()
	removeCalls int
}

func newSpyStore() *spyStore {
	return &spyStore{Store: memory.NewStore()}
}

func (s *spyStore) MultiGet(ctx context.Context, keys []string) ([]ports.Entry, error) {
	if s.failGet != nil {
		return nil, s.failGet
	}
	return s.Store.MultiGet(ctx, keys)
}

func (s *spyStore) MultiSet(ctx context.Context, pairs []ports.KeyValue) error {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	if s.beforeSet != nil {
		s.beforeSet()
	}
	if s.failSet != nil {
		return s.failSet
	}
	return s.Store.MultiSet(ctx, pairs)
}

func (s *spyStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return s.Store.Set(ctx, key, value)
}

func (s *spyStore) MultiRemove(ctx context.Context, keys []string) error {
	s.mu.Lock()
	s.removeCalls++
	s.mu.Unlock()
	if s.failRemove != nil {
		return s.failRemove
	}
	err := s.Store.MultiRemove(ctx, keys)
	if s.afterRemove != nil {
		s.afterRemove()
	}
	return err
}

func (s *spyStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *spyStore) RemoveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeCalls
}
