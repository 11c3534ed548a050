package health

import "errors"

var (
	// ErrCheckFailed indicates a health check failed.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrNilSource indicates a checker was built without a stats source.
	ErrNilSource = errors.New("health: stats source is nil")
)
