// Package api implements the board REST API using chi.
package api

import (
	"net/http"
)

// DefaultMaxBody is the request body limit used when none is configured.
const DefaultMaxBody = 1 << 20

// BodyLimit caps request bodies at n bytes. Oversized bodies fail to
// decode and are answered with 400.
func BodyLimit(n int64) func(http.Handler) http.Handler {
	if n <= 0 {
		n = DefaultMaxBody
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
