package health

import "errors"

var (
	// ErrCheckFailed marks an unhealthy check result.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckerNotFound is returned when checking an unregistered name.
	ErrCheckerNotFound = errors.New("health: checker not found")
)
