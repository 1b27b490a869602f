package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		// Known exact routes.
		{"/healthz", "/healthz"},
		{"/readyz", "/readyz"},
		{"/metrics", "/metrics"},
		{"/", "/"},
		{"/api/v1/sites", "/api/v1/sites"},
		{"/api/v1/parse", "/api/v1/parse"},
		{"/api/v1/plan", "/api/v1/plan"},

		// Target names collapse to one label.
		{"/api/v1/resolve/M31", "/api/v1/resolve/{name}"},
		{"/api/v1/resolve/NGC%20224", "/api/v1/resolve/{name}"},
		{"/api/v1/resolve/", "other"},

		// Unknown/bot paths collapse to "other".
		{"/wp-admin", "other"},
		{"/robots.txt", "other"},
		{"/.env", "other"},
		{"/api/v2/something", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := normalizeRoute(tt.path)
			if got != tt.want {
				t.Errorf("normalizeRoute(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// TestMetricsCardinality verifies that 100 unique target names produce
// exactly 1 distinct path label, not 100.
func TestMetricsCardinality(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		label := normalizeRoute("/api/v1/resolve/HD" + string(rune('0'+i%10)) + string(rune('0'+i/10)))
		seen[label] = true
	}
	if len(seen) != 1 {
		t.Errorf("expected 1 unique label for parameterized paths, got %d: %v", len(seen), seen)
	}
}

func TestMiddlewareCountsRequests(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/v1/plan", "POST", "418"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/v1/plan", "POST", "418"))

	if after-before != 1 {
		t.Errorf("counter delta = %v, want 1", after-before)
	}
}

func TestRecordTargetAndTextfile(t *testing.T) {
	before := testutil.ToFloat64(targetsTotal.WithLabelValues("remote"))
	RecordTarget("remote")
	RecordLookup("resolved", 120*time.Millisecond)
	RecordPlan(2*time.Second, 13)
	if got := testutil.ToFloat64(targetsTotal.WithLabelValues("remote")) - before; got != 1 {
		t.Errorf("targets delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(gridSamples); got != 13 {
		t.Errorf("grid samples = %v, want 13", got)
	}

	path := filepath.Join(t.TempDir(), "voplanner.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "voplanner_targets_total") {
		t.Error("textfile missing voplanner_targets_total")
	}
}
