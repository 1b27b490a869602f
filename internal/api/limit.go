package api

import (
	"net/http"
	"sync"

	"github.com/varghesereji/VOPlanner/internal/httputil"
)

// Default concurrency caps for endpoints that reach the remote resolver.
const (
	DefaultMaxInFlightPerIP = 2
	DefaultMaxInFlight      = 32
)

// inflightLimiter tracks concurrent requests per client IP and globally.
type inflightLimiter struct {
	mu       sync.Mutex
	byIP     map[string]int
	total    int
	maxPerIP int
	maxTotal int
}

func newInflightLimiter(maxPerIP, maxTotal int) *inflightLimiter {
	if maxPerIP <= 0 {
		maxPerIP = DefaultMaxInFlightPerIP
	}
	if maxTotal <= 0 {
		maxTotal = DefaultMaxInFlight
	}
	return &inflightLimiter{
		byIP:     make(map[string]int),
		maxPerIP: maxPerIP,
		maxTotal: maxTotal,
	}
}

// acquire reserves a slot for ip. Returns false if either cap is reached.
func (l *inflightLimiter) acquire(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.total >= l.maxTotal || l.byIP[ip] >= l.maxPerIP {
		return false
	}
	l.byIP[ip]++
	l.total++
	return true
}

func (l *inflightLimiter) release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.byIP[ip]--
	l.total--
	if l.byIP[ip] <= 0 {
		delete(l.byIP, ip)
	}
}

// wrap answers 429 when the caller already has too many requests running.
func (l *inflightLimiter) wrap(trustProxy bool, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := httputil.ClientIP(r, trustProxy)
		if !l.acquire(ip) {
			w.Header().Set("Retry-After", "1")
			httputil.WriteError(w, http.StatusTooManyRequests, "too many concurrent requests", map[string]any{"max_in_flight_per_ip": l.maxPerIP})
			return
		}
		defer l.release(ip)
		next(w, r)
	}
}
