package health

import (
	"net/http"
	"sync/atomic"
	"time"
)

var (
	ready    atomic.Bool
	lastScan atomic.Int64 // unix ms of last completed scan, 0 = never
)

// SetReady marks readiness state
func SetReady(v bool) { ready.Store(v) }

// Ready returns current readiness
func Ready() bool { return ready.Load() }

// MarkScan records the completion time of a scan for staleness reporting
func MarkScan(t time.Time) { lastScan.Store(t.UnixMilli()) }

// LastScan returns the last scan completion time, zero if none yet
func LastScan() time.Time {
	ms := lastScan.Load()
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Healthz is a simple liveness probe
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz reflects application readiness state and reports when the last
// scan completed, if any has.
func Readyz(w http.ResponseWriter, r *http.Request) {
	if !Ready() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	if ls := LastScan(); !ls.IsZero() {
		_, _ = w.Write([]byte("ready, last scan " + ls.UTC().Format(time.RFC3339)))
		return
	}
	_, _ = w.Write([]byte("ready"))
}
