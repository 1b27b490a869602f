// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/varghesereji/VOPlanner/internal/httputil"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

// Healthz returns 200 "ok\n" unconditionally.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// Readiness runs named checks for /readyz.
type Readiness struct {
	checks  map[string]Check
	timeout time.Duration
}

// NewReadiness creates a Readiness with the given checks.
func NewReadiness(checks map[string]Check) *Readiness {
	return &Readiness{checks: checks, timeout: 2 * time.Second}
}

// ServeHTTP answers 200 when every check passes, 503 otherwise, with a
// JSON body naming each check's status.
func (rd *Readiness) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), rd.timeout)
	defer cancel()

	names := make([]string, 0, len(rd.checks))
	for name := range rd.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := rd.checks[name](ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	ready := status == http.StatusOK
	httputil.WriteJSON(w, status, map[string]any{"ready": ready, "checks": results})
}
