package resolver

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func tapServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSimbadResolve(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("QUERY")
		if r.URL.Query().Get("FORMAT") != "json" || r.URL.Query().Get("LANG") != "ADQL" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"metadata":[{"name":"ra"},{"name":"dec"}],"data":[[10.684708333,41.26875]]}`))
	}))
	defer server.Close()

	s := NewSimbad(Config{BaseURL: server.URL}, testLogger)
	res := s.Resolve(context.Background(), "M31")

	pos, ok := res.Position()
	if !ok {
		t.Fatalf("expected resolved, got reason %q", res.Reason())
	}
	if math.Abs(pos.RADeg()-10.684708333) > 1e-9 || math.Abs(pos.DecDeg()-41.26875) > 1e-9 {
		t.Errorf("position = (%v, %v)", pos.RADeg(), pos.DecDeg())
	}
	if pos.Source() != "remote" {
		t.Errorf("source = %s, want remote", pos.Source())
	}
	if !strings.Contains(gotQuery, "ident.id = 'M31'") {
		t.Errorf("query %q does not select the identifier", gotQuery)
	}
}

func TestSimbadColumnOrderFromMetadata(t *testing.T) {
	server := tapServer(t, http.StatusOK, `{"metadata":[{"name":"dec"},{"name":"ra"}],"data":[[-5.5,150.25]]}`)
	res := NewSimbad(Config{BaseURL: server.URL}, testLogger).Resolve(context.Background(), "X")
	pos, ok := res.Position()
	if !ok {
		t.Fatalf("expected resolved, got %q", res.Reason())
	}
	if math.Abs(pos.RADeg()-150.25) > 1e-9 {
		t.Errorf("ra = %v, want 150.25", pos.RADeg())
	}
	if math.Abs(pos.DecDeg()+5.5) > 1e-9 {
		t.Errorf("dec = %v, want -5.5", pos.DecDeg())
	}
}

func TestSimbadUnresolved(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Reason
	}{
		{"empty data", http.StatusOK, `{"metadata":[{"name":"ra"},{"name":"dec"}],"data":[]}`, ReasonNotFound},
		{"masked ra", http.StatusOK, `{"metadata":[{"name":"ra"},{"name":"dec"}],"data":[[null,12.0]]}`, ReasonMasked},
		{"masked dec", http.StatusOK, `{"metadata":[{"name":"ra"},{"name":"dec"}],"data":[[12.0,null]]}`, ReasonMasked},
		{"short row", http.StatusOK, `{"metadata":[{"name":"ra"},{"name":"dec"}],"data":[[12.0]]}`, ReasonNotFound},
		{"dec out of range", http.StatusOK, `{"metadata":[{"name":"ra"},{"name":"dec"}],"data":[[12.0,123.0]]}`, ReasonInvalid},
		{"malformed json", http.StatusOK, `<VOTABLE/>`, ReasonQueryFailed},
		{"server error", http.StatusInternalServerError, ``, ReasonQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := tapServer(t, tt.status, tt.body)
			res := NewSimbad(Config{BaseURL: server.URL}, testLogger).Resolve(context.Background(), "NGC 1")
			if res.OK() {
				t.Fatal("expected unresolved")
			}
			if res.Reason() != tt.want {
				t.Errorf("reason = %q, want %q", res.Reason(), tt.want)
			}
			if _, ok := res.Position(); ok {
				t.Error("Position() ok = true for unresolved result")
			}
		})
	}
}

func TestSimbadTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	res := NewSimbad(Config{BaseURL: url, Timeout: time.Second}, testLogger).Resolve(context.Background(), "M31")
	if res.Reason() != ReasonQueryFailed {
		t.Errorf("reason = %q, want %q", res.Reason(), ReasonQueryFailed)
	}
}

// TestSimbadBodyLimit verifies that oversized responses are rejected
// instead of consuming unbounded memory.
func TestSimbadBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		chunk := strings.Repeat("A", 64*1024)
		for i := 0; i < 20; i++ {
			if _, err := w.Write([]byte(chunk)); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	s := NewSimbad(Config{BaseURL: server.URL}, testLogger)
	_, err := s.query(context.Background(), "M31")
	if err == nil {
		t.Fatal("expected error for oversized response, got nil")
	}
	if !strings.Contains(err.Error(), "byte limit") {
		t.Errorf("expected body limit error, got: %v", err)
	}
}

func TestSimbadBlankName(t *testing.T) {
	res := NewSimbad(Config{BaseURL: "http://127.0.0.1:0"}, testLogger).Resolve(context.Background(), "   ")
	if res.Reason() != ReasonNotFound {
		t.Errorf("reason = %q, want %q", res.Reason(), ReasonNotFound)
	}
}

func TestADQLQueryEscapesQuotes(t *testing.T) {
	q := adqlQuery("Barnard's Star")
	if !strings.Contains(q, "'Barnard''s Star'") {
		t.Errorf("query %q does not escape quote", q)
	}
}

func TestDisabled(t *testing.T) {
	res := Disabled{}.Resolve(context.Background(), "M31")
	if res.Reason() != ReasonDisabled || res.Target != "M31" {
		t.Errorf("result = %+v", res)
	}
}
