package auth

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"
)

// unguarded paths: probes and metrics scrapes carry no credentials.
var open = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

func Middleware(next http.Handler) http.Handler {
	token := os.Getenv("CAPQ_API_TOKEN")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if open[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		// Expect: Authorization: Bearer <token>
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			http.Error(w, "missing API token", http.StatusUnauthorized)
			return
		}

		got := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			http.Error(w, "invalid API token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
