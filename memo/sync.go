package memo

import (
	"context"
	"sync"
)

// Synchronized serializes access to a Memo with one mutex held for the whole
// lookup, computation, eviction and insertion.
//
// The lock is not re-entrant: a computation must not call back into the
// Synchronized that wraps it. Recursive memoized functions should use Memo
// directly.
type Synchronized[R any] struct {
	mu   sync.Mutex
	memo *Memo[R]
}

// NewSynchronized creates a Memo and wraps it.
func NewSynchronized[R any](cfg Config, fn Func[R]) (*Synchronized[R], error) {
	m, err := New(cfg, fn)
	if err != nil {
		return nil, err
	}
	return Synchronize(m), nil
}

// Synchronize wraps an existing Memo. The caller must stop using m directly.
func Synchronize[R any](m *Memo[R]) *Synchronized[R] {
	return &Synchronized[R]{memo: m}
}

// Invoke is Memo.Invoke under the lock.
func (s *Synchronized[R]) Invoke(ctx context.Context, args Args) (R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memo.Invoke(ctx, args)
}

// Call is Memo.Call under the lock.
func (s *Synchronized[R]) Call(ctx context.Context, positional ...any) (R, error) {
	return s.Invoke(ctx, NewArgs(positional...))
}

// Len is Memo.Len under the lock.
func (s *Synchronized[R]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memo.Len()
}

// Capacity returns the maximum number of entries.
func (s *Synchronized[R]) Capacity() int {
	return s.memo.Capacity()
}

// Keys is Memo.Keys under the lock.
func (s *Synchronized[R]) Keys() []Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memo.Keys()
}

// Contains is Memo.Contains under the lock.
func (s *Synchronized[R]) Contains(args Args) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memo.Contains(args)
}

// Stats is Memo.Stats under the lock.
func (s *Synchronized[R]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memo.Stats()
}
