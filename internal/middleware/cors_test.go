package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/middleware"
)

const adminOrigin = "http://localhost:5173"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func corsRequest(method, path, origin string, headers map[string]string) *httptest.ResponseRecorder {
	h := middleware.NewCORSHandler([]string{adminOrigin})(okHandler)
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Origin", origin)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORSHandler_AllowedOrigin(t *testing.T) {
	rec := corsRequest(http.MethodGet, "/api/bookings/export?format=csv", adminOrigin, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, adminOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestCORSHandler_DisallowedOrigin(t *testing.T) {
	rec := corsRequest(http.MethodGet, "/api/trending-destinations/active", "http://evil.example.com", nil)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSHandler_Preflight(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			// Browsers send requested header names in lowercase.
			rec := corsRequest(http.MethodOptions, "/api/explore-destinations/reorder", adminOrigin, map[string]string{
				"Access-Control-Request-Method":  method,
				"Access-Control-Request-Headers": "content-type,authorization",
			})

			assert.Less(t, rec.Code, 300)
			assert.Equal(t, adminOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), method)
			assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
		})
	}
}
