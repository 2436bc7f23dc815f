package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	LoginSuccesses      uint64
	LoginFailures       uint64
	Registrations       uint64
	Logouts             uint64
	TokensValid         uint64
	TokensInvalid       uint64
	BlacklistCacheHits  uint64
	BlacklistCacheMisses uint64
	MovieQueries        uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	loginSuccesses       uint64
	loginFailures        uint64
	registrations        uint64
	logouts              uint64
	tokensValid          uint64
	tokensInvalid        uint64
	blacklistCacheHits   uint64
	blacklistCacheMisses uint64
	movieQueries         uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		LoginSuccesses:       atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:        atomic.LoadUint64(&m.loginFailures),
		Registrations:        atomic.LoadUint64(&m.registrations),
		Logouts:              atomic.LoadUint64(&m.logouts),
		TokensValid:          atomic.LoadUint64(&m.tokensValid),
		TokensInvalid:        atomic.LoadUint64(&m.tokensInvalid),
		BlacklistCacheHits:   atomic.LoadUint64(&m.blacklistCacheHits),
		BlacklistCacheMisses: atomic.LoadUint64(&m.blacklistCacheMisses),
		MovieQueries:         atomic.LoadUint64(&m.movieQueries),
	}
}

// IncLoginSuccess increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSuccess() { atomic.AddUint64(&m.loginSuccesses, 1) }

// IncLoginFailure increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailure() { atomic.AddUint64(&m.loginFailures, 1) }

// IncRegistration increments the registration counter.
func (m *InMemoryRecorder) IncRegistration() { atomic.AddUint64(&m.registrations, 1) }

// IncLogout increments the logout counter.
func (m *InMemoryRecorder) IncLogout() { atomic.AddUint64(&m.logouts, 1) }

// IncTokenVerification increments the token verification counter by status.
func (m *InMemoryRecorder) IncTokenVerification(status string) {
	if status == "valid" {
		atomic.AddUint64(&m.tokensValid, 1)
		return
	}
	atomic.AddUint64(&m.tokensInvalid, 1)
}

// IncBlacklistCacheHit increments the blacklist cache hit counter.
func (m *InMemoryRecorder) IncBlacklistCacheHit() { atomic.AddUint64(&m.blacklistCacheHits, 1) }

// IncBlacklistCacheMiss increments the blacklist cache miss counter.
func (m *InMemoryRecorder) IncBlacklistCacheMiss() { atomic.AddUint64(&m.blacklistCacheMisses, 1) }

// IncMovieQuery increments the catalog query counter.
func (m *InMemoryRecorder) IncMovieQuery() { atomic.AddUint64(&m.movieQueries, 1) }
