package gateway

import "errors"

var (
	// ErrNilConfig is returned by New when no configuration is supplied.
	ErrNilConfig = errors.New("gateway: config must not be nil")

	// ErrNilProvider is returned by New when no primary provider is supplied.
	ErrNilProvider = errors.New("gateway: provider must not be nil")

	// ErrNilStore is returned by New when no store is supplied.
	ErrNilStore = errors.New("gateway: store must not be nil")
)
