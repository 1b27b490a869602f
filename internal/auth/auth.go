// Package auth guards the planning endpoints with a static bearer token.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/varghesereji/VOPlanner/internal/httputil"
)

// Config holds authentication configuration. Auth is enabled whenever a
// token is set.
type Config struct {
	Token string
}

// Enabled reports whether requests must carry the token.
func (c Config) Enabled() bool { return c.Token != "" }

// publicPaths never require a token.
var publicPaths = map[string]bool{
	"/healthz":      true,
	"/readyz":       true,
	"/metrics":      true,
	"/api/v1/sites": true,
}

// IsPublic reports whether path is served without authentication.
func IsPublic(path string) bool {
	return publicPaths[path]
}

// Middleware rejects requests to non-public paths that lack
// "Authorization: Bearer <token>" when auth is enabled.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled() || IsPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Token)) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="voplanner"`)
				httputil.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
