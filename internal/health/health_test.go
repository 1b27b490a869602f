package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	Healthz(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok\n" {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}

func TestReadiness(t *testing.T) {
	pass := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("no sites") }

	tests := []struct {
		name   string
		checks map[string]Check
		want   int
	}{
		{name: "no checks", checks: nil, want: http.StatusOK},
		{name: "all pass", checks: map[string]Check{"sites": pass, "planner": pass}, want: http.StatusOK},
		{name: "one fails", checks: map[string]Check{"sites": fail, "planner": pass}, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewReadiness(tt.checks).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			var body struct {
				Ready  bool              `json:"ready"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Ready != (tt.want == http.StatusOK) {
				t.Errorf("ready = %v", body.Ready)
			}
			if len(body.Checks) != len(tt.checks) {
				t.Errorf("checks = %v", body.Checks)
			}
			if msg, ok := body.Checks["sites"]; ok && tt.want != http.StatusOK && msg != "no sites" {
				t.Errorf("sites check = %q", msg)
			}
		})
	}
}
