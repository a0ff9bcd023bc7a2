package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureQuery(query *url.Values) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*query = r.URL.Query()
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecureHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)

	SecureHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(w, r)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "deny", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
}

func TestSanitizeQuery(t *testing.T) {
	var got url.Values

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tours?difficulty=easy&%24where=1&name=%3Cb%3E", nil)

	SanitizeQuery(captureQuery(&got)).ServeHTTP(w, r)

	assert.Equal(t, "easy", got.Get("difficulty"))
	assert.Empty(t, got.Get("$where"), "operator keys must not reach the handler")
	assert.Equal(t, "&lt;b&gt;", got.Get("name"))
}

func TestCollapseQueryParams(t *testing.T) {
	var got url.Values

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tours?sort=price&sort=-duration&difficulty=easy&difficulty=medium", nil)

	mw := CollapseQueryParams("difficulty", "price")
	mw(captureQuery(&got)).ServeHTTP(w, r)

	assert.Equal(t, []string{"-duration"}, got["sort"], "non-whitelisted duplicates collapse to the last value")
	assert.Equal(t, []string{"easy", "medium"}, got["difficulty"], "whitelisted duplicates are preserved")
}
