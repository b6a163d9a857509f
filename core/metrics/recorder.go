package metrics

import "time"

// Recorder receives request and span observations from the middleware
// pipeline. Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveRequest(method string, status int, d time.Duration)
	ObserveSpan(name string, d time.Duration)
	IncFault(kind string)
	SetReloadClients(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRequest(string, int, time.Duration) {}
func (NoopRecorder) ObserveSpan(string, time.Duration)         {}
func (NoopRecorder) IncFault(string)                           {}
func (NoopRecorder) SetReloadClients(int)                      {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
