package goSession

import "errors"

var (
	// ErrInvalidCredentials is an exported constant or variable used by the session store.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrProviderUnavailable is an exported constant or variable used by the session store.
	ErrProviderUnavailable = errors.New("identity service unavailable")
	// ErrStoreClosed is an exported constant or variable used by the session store.
	ErrStoreClosed = errors.New("session store closed")
	// ErrBootstrapStarted is returned when Bootstrap is called more than once.
	ErrBootstrapStarted = errors.New("bootstrap already started")
	// ErrNilProvider is an exported constant or variable used by the session store.
	ErrNilProvider = errors.New("identity provider is required")
	// ErrNilStorage is an exported constant or variable used by the session store.
	ErrNilStorage = errors.New("storage backend is required")
	// ErrBuilderReused is returned when Build is called twice on the same Builder.
	ErrBuilderReused = errors.New("builder already built")
	// ErrStorageKeyEmpty is an exported constant or variable used by the session store.
	ErrStorageKeyEmpty = errors.New("storage key must not be empty")
	// ErrNegativeTimeout is an exported constant or variable used by the session store.
	ErrNegativeTimeout = errors.New("bootstrap fetch timeout must not be negative")
)
