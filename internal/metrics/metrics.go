// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth events
	IncLoginSuccess()
	IncLoginFailure()
	IncRegistration()
	IncLogout()
	IncTokenVerification(status string) // status: "valid" or "invalid"

	// Blacklist lookups
	IncBlacklistCacheHit()
	IncBlacklistCacheMiss()

	// Catalog events
	IncMovieQuery()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
