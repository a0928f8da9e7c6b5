package goSession

import "time"

// Config defines a public type used by goSession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Storage   StorageConfig
	Bootstrap BootstrapConfig
	SignOut   SignOutConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageConfig defines a public type used by goSession APIs.
//
// StorageConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StorageConfig struct {
	// Key is the single well-known storage key holding the persisted
	// session record. There is no versioning or migration scheme.
	Key string
}

/*
====================================
BOOTSTRAP CONFIG
====================================
*/

// BootstrapConfig defines a public type used by goSession APIs.
//
// BootstrapConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type BootstrapConfig struct {
	// FetchTimeout bounds the authoritative session fetch during bootstrap.
	// Zero keeps the historical behavior: no timeout, a hung fetch leaves
	// Loading=true until the provider returns.
	FetchTimeout time.Duration
}

/*
====================================
SIGN-OUT CONFIG
====================================
*/

// SignOutConfig defines a public type used by goSession APIs.
//
// SignOutConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SignOutConfig struct {
	// ClearLocalOnFailure clears the in-memory session and the persisted
	// record even when the remote sign-out call fails. Off by default:
	// sign-out is remote-confirmed and failures leave local state intact.
	ClearLocalOnFailure bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goSession APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goSession APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultStorageKey is the well-known key used when Config.Storage.Key is
// left empty.
const DefaultStorageKey = "gosession.auth.session"

func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Key: DefaultStorageKey,
		},
		Bootstrap: BootstrapConfig{
			FetchTimeout: 0,
		},
		SignOut: SignOutConfig{
			ClearLocalOnFailure: false,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// No reference types in the tree today; a value copy is a deep copy.
	return cfg
}

func normalizeConfig(cfg Config) Config {
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = DefaultStorageKey
	}
	if cfg.Audit.BufferSize <= 0 {
		cfg.Audit.BufferSize = 1024
	}
	return cfg
}

func validateConfig(cfg Config) error {
	if cfg.Storage.Key == "" {
		return ErrStorageKeyEmpty
	}
	if cfg.Bootstrap.FetchTimeout < 0 {
		return ErrNegativeTimeout
	}
	return nil
}
