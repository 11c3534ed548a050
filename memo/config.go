package memo

import "fmt"

// DefaultCapacity is the number of entries kept when no capacity is chosen.
const DefaultCapacity = 10

// Config configures a Memo. It is read once by New and never again.
type Config struct {
	// Name identifies the memo in diagnostics. Optional.
	Name string

	// Capacity is the maximum number of entries held at once. Must be >= 1.
	Capacity int

	// Observer receives hit, miss, store, eviction and failure events.
	// If nil, events are dropped.
	Observer Observer
}

// DefaultConfig returns a Config with DefaultCapacity and no observer.
func DefaultConfig() Config {
	return Config{Capacity: DefaultCapacity}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, c.Capacity)
	}
	return nil
}
