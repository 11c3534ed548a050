package memo

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	// ErrInvalidConfiguration is the parent of every construction error.
	ErrInvalidConfiguration = errors.New("memo: invalid configuration")

	// ErrInvalidCapacity indicates Config.Capacity is less than 1.
	ErrInvalidCapacity = fmt.Errorf("%w: capacity must be at least 1", ErrInvalidConfiguration)

	// ErrNilFunc indicates a nil computation was supplied.
	ErrNilFunc = fmt.Errorf("%w: function is nil", ErrInvalidConfiguration)
)

// Runtime errors.
var (
	// ErrUnhashableArguments indicates the arguments cannot be turned into a
	// stable Key because some value lacks structural equality.
	ErrUnhashableArguments = errors.New("memo: arguments are unhashable or incomparable")

	// ErrArgumentMismatch indicates a typed memo received arguments that do
	// not fit its signature. Nothing is computed or stored.
	ErrArgumentMismatch = errors.New("memo: arguments do not match the typed signature")
)
