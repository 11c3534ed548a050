package memo

import "context"

// EventKind identifies what happened during Invoke.
type EventKind int

const (
	// EventHit reports a lookup answered from the cache.
	EventHit EventKind = iota
	// EventMiss reports a lookup that will run the computation.
	EventMiss
	// EventStore reports a freshly computed result being inserted.
	EventStore
	// EventEvict reports the oldest entry being dropped to make room.
	EventEvict
	// EventFailure reports a computation error. Nothing is stored.
	EventFailure
)

// String returns the lower-case name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventHit:
		return "hit"
	case EventMiss:
		return "miss"
	case EventStore:
		return "store"
	case EventEvict:
		return "evict"
	case EventFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Event is a diagnostic notification. Value is set for hits and stores,
// Err for failures. Len and Capacity describe the memo after the event.
type Event struct {
	Kind     EventKind
	Memo     string
	Key      Key
	Value    any
	Err      error
	Len      int
	Capacity int
}

// Observer receives diagnostic events from a Memo.
//
// Contract:
// - Observers must not call back into the Memo that emitted the event.
// - Observers must not mutate Event.Value.
// - Dropping every event must not change cache behavior.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(ctx context.Context, ev Event)

// Observe calls f(ctx, ev).
func (f ObserverFunc) Observe(ctx context.Context, ev Event) {
	f(ctx, ev)
}

// MultiObserver fans events out to every non-nil observer in order.
func MultiObserver(observers ...Observer) Observer {
	list := make([]Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return multiObserver(list)
}

type multiObserver []Observer

func (m multiObserver) Observe(ctx context.Context, ev Event) {
	for _, o := range m {
		o.Observe(ctx, ev)
	}
}

// Stats is a snapshot of a memo's counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Failures  uint64
	Len       int
	Capacity  int
}

// Lookups returns Hits + Misses.
func (s Stats) Lookups() uint64 {
	return s.Hits + s.Misses
}

// HitRatio returns Hits / Lookups, or 0 before the first lookup.
func (s Stats) HitRatio() float64 {
	if s.Lookups() == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Lookups())
}

// FailureRatio returns Failures / Misses, or 0 before the first miss.
func (s Stats) FailureRatio() float64 {
	if s.Misses == 0 {
		return 0
	}
	return float64(s.Failures) / float64(s.Misses)
}
