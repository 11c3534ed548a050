package memo

import "context"

// Func is a computation that can be memoized. It must be deterministic and
// free of observable side effects; Memo relies on that but cannot check it.
type Func[R any] func(ctx context.Context, args Args) (R, error)

// Memo is a bounded FIFO memoization cache around a single Func.
//
// Contract:
// - Concurrency: not safe for concurrent use; see Synchronized.
// - Eviction: first-in first-out over insertions. Hits do not reorder.
// - Errors: computation errors are returned unchanged and never cached.
type Memo[R any] struct {
	name     string
	capacity int
	fn       Func[R]
	observer Observer
	clone    func(R) R

	entries map[Key]R
	queue   evictionQueue

	hits      uint64
	misses    uint64
	evictions uint64
	failures  uint64
}

// New creates a Memo around fn. It fails with ErrInvalidConfiguration if
// cfg does not validate or fn is nil.
func New[R any](cfg Config, fn Func[R]) (*Memo[R], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, ErrNilFunc
	}
	return &Memo[R]{
		name:     cfg.Name,
		capacity: cfg.Capacity,
		fn:       fn,
		observer: cfg.Observer,
		entries:  make(map[Key]R),
	}, nil
}

// WithClone makes the memo copy results on their way in and out, so callers
// never share a stored value. It returns m.
func (m *Memo[R]) WithClone(clone func(R) R) *Memo[R] {
	m.clone = clone
	return m
}

// Invoke returns the stored result for args, or runs the computation, stores
// its result and returns it. When the memo is full, the oldest inserted
// entry is evicted before the new one is stored.
func (m *Memo[R]) Invoke(ctx context.Context, args Args) (R, error) {
	var zero R

	key, err := BuildKey(args)
	if err != nil {
		return zero, err
	}

	if cached, ok := m.entries[key]; ok {
		m.hits++
		m.emit(ctx, Event{Kind: EventHit, Key: key, Value: cached})
		return m.copyOf(cached), nil
	}

	m.misses++
	m.emit(ctx, Event{Kind: EventMiss, Key: key})

	result, err := m.fn(ctx, args)
	if err != nil {
		m.failures++
		m.emit(ctx, Event{Kind: EventFailure, Key: key, Err: err})
		return zero, err
	}

	// A recursive call with the same args may have stored the key already.
	if _, ok := m.entries[key]; ok {
		return result, nil
	}

	if len(m.entries) >= m.capacity {
		m.evictOldest(ctx)
	}
	stored := m.copyOf(result)
	m.entries[key] = stored
	m.queue.push(key)
	m.emit(ctx, Event{Kind: EventStore, Key: key, Value: stored})

	return result, nil
}

// Call is Invoke with positional arguments only.
func (m *Memo[R]) Call(ctx context.Context, positional ...any) (R, error) {
	return m.Invoke(ctx, NewArgs(positional...))
}

func (m *Memo[R]) evictOldest(ctx context.Context) {
	old, ok := m.queue.pop()
	if !ok {
		return
	}
	delete(m.entries, old)
	m.evictions++
	m.emit(ctx, Event{Kind: EventEvict, Key: old})
}

func (m *Memo[R]) copyOf(v R) R {
	if m.clone == nil {
		return v
	}
	return m.clone(v)
}

func (m *Memo[R]) emit(ctx context.Context, ev Event) {
	if m.observer == nil {
		return
	}
	ev.Memo = m.name
	ev.Len = len(m.entries)
	ev.Capacity = m.capacity
	m.observer.Observe(ctx, ev)
}

// Name returns the configured name.
func (m *Memo[R]) Name() string {
	return m.name
}

// Capacity returns the maximum number of entries.
func (m *Memo[R]) Capacity() int {
	return m.capacity
}

// Len returns the number of stored entries.
func (m *Memo[R]) Len() int {
	return len(m.entries)
}

// Keys returns the stored keys in eviction order, oldest first.
func (m *Memo[R]) Keys() []Key {
	return m.queue.snapshot()
}

// Contains reports whether a result for args is stored. It does not count
// as a lookup.
func (m *Memo[R]) Contains(args Args) (bool, error) {
	key, err := BuildKey(args)
	if err != nil {
		return false, err
	}
	_, ok := m.entries[key]
	return ok, nil
}

// Stats returns a snapshot of the counters.
func (m *Memo[R]) Stats() Stats {
	return Stats{
		Hits:      m.hits,
		Misses:    m.misses,
		Evictions: m.evictions,
		Failures:  m.failures,
		Len:       len(m.entries),
		Capacity:  m.capacity,
	}
}
