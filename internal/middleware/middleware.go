// Package middleware holds the request transformers that run before
// routing: security headers, query sanitization and duplicate
// parameter collapsing. They rewrite the request in place and never
// short-circuit.
package middleware

import (
	"net/http"

	"github.com/tourvana/tour-booking-api/internal/sanitize"
)

func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")

		next.ServeHTTP(w, r)
	})
}

// SanitizeQuery narrows the query string before any handler reads it.
// Operator-style keys are dropped and values are escaped.
func SanitizeQuery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		sanitize.Values(query)
		r.URL.RawQuery = query.Encode()

		next.ServeHTTP(w, r)
	})
}

// CollapseQueryParams keeps only the last value of any repeated query
// parameter, except for the whitelisted keys where repetition is a
// legitimate filter (e.g. ?difficulty=easy&difficulty=medium).
func CollapseQueryParams(whitelist ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(whitelist))
	for _, key := range whitelist {
		allowed[key] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()

			for key, vals := range query {
				if len(vals) > 1 && !allowed[key] {
					query[key] = vals[len(vals)-1:]
				}
			}

			r.URL.RawQuery = query.Encode()

			next.ServeHTTP(w, r)
		})
	}
}
