package respcache

import "errors"

// Sentinel errors for cache operations.
var (
	ErrEmptyPatientID = errors.New("respcache: patient id is empty")
	ErrEmptyTask      = errors.New("respcache: task is empty")
)
