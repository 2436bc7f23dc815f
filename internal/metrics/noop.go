package metrics

// NoopRecorder discards all metric events.
type NoopRecorder struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

func (NoopRecorder) IncLoginSuccess()                 {}
func (NoopRecorder) IncLoginFailure()                 {}
func (NoopRecorder) IncRegistration()                 {}
func (NoopRecorder) IncLogout()                       {}
func (NoopRecorder) IncTokenVerification(string)      {}
func (NoopRecorder) IncBlacklistCacheHit()            {}
func (NoopRecorder) IncBlacklistCacheMiss()           {}
func (NoopRecorder) IncMovieQuery()                   {}
