// Package memo provides bounded memoization for deterministic computations.
//
// A Memo wraps a pure function, stores results keyed by a structural
// encoding of the call arguments, and evicts the oldest inserted entry once
// its fixed capacity is reached. Eviction is strictly first-in first-out:
// a cache hit never changes which entry goes next.
//
// Memo is not safe for concurrent use. Wrap it with Synchronized when
// callers share it across goroutines.
package memo
