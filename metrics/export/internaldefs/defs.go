package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// CounterDef defines a public type used by goSession APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goSession APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session store.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricSignInSuccess, Name: "gosession_signin_success_total", Help: "Successful sign-in operations."},
	{ID: goSession.MetricSignInFailure, Name: "gosession_signin_failure_total", Help: "Failed sign-in operations."},
	{ID: goSession.MetricSignUpSuccess, Name: "gosession_signup_success_total", Help: "Successful sign-up operations."},
	{ID: goSession.MetricSignUpFailure, Name: "gosession_signup_failure_total", Help: "Failed sign-up operations."},
	{ID: goSession.MetricSignOutSuccess, Name: "gosession_signout_success_total", Help: "Successful sign-out operations."},
	{ID: goSession.MetricSignOutFailure, Name: "gosession_signout_failure_total", Help: "Failed sign-out operations."},
	{ID: goSession.MetricPasswordResetRequest, Name: "gosession_password_reset_request_total", Help: "Password reset requests."},
	{ID: goSession.MetricPasswordResetFailure, Name: "gosession_password_reset_failure_total", Help: "Failed password reset requests."},
	{ID: goSession.MetricBootstrapCacheHit, Name: "gosession_bootstrap_cache_hit_total", Help: "Bootstraps that found a usable persisted record."},
	{ID: goSession.MetricBootstrapCacheMiss, Name: "gosession_bootstrap_cache_miss_total", Help: "Bootstraps that found no persisted record."},
	{ID: goSession.MetricBootstrapCacheCorrupt, Name: "gosession_bootstrap_cache_corrupt_total", Help: "Bootstraps that found an undecodable persisted record."},
	{ID: goSession.MetricBootstrapFetchSuccess, Name: "gosession_bootstrap_fetch_success_total", Help: "Successful authoritative session fetches."},
	{ID: goSession.MetricBootstrapFetchFailure, Name: "gosession_bootstrap_fetch_failure_total", Help: "Failed authoritative session fetches."},
	{ID: goSession.MetricNotificationApplied, Name: "gosession_notification_applied_total", Help: "Applied backend session notifications."},
	{ID: goSession.MetricStaleResultDiscarded, Name: "gosession_stale_result_discarded_total", Help: "Results discarded because the store was closed."},
	{ID: goSession.MetricSubscribeFailure, Name: "gosession_subscribe_failure_total", Help: "Failed backend subscription attempts."},
	{ID: goSession.MetricStorageReadFailure, Name: "gosession_storage_read_failure_total", Help: "Failed persisted record reads."},
	{ID: goSession.MetricStorageWriteFailure, Name: "gosession_storage_write_failure_total", Help: "Failed persisted record writes."},
}

// HistogramDefs is an exported constant or variable used by the session store.
var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricBootstrapLatency, Name: "gosession_bootstrap_latency_seconds", Help: "Bootstrap latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session store.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session store.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
