package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shiv060600/Tuttle-Tools/internal/services"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRouter_Health(t *testing.T) {
	env := setupTestHandler(t)

	w := env.do("GET", "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.Contains(t, w.Body.String(), "timestamp")
}

func TestRouter_Metrics(t *testing.T) {
	env := setupTestHandler(t)
	env.do("GET", "/api/mappings/original", nil)

	w := env.do("GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tuttle_api_requests_total")
}

func TestCORSMiddleware(t *testing.T) {
	t.Run("Development echoes any origin", func(t *testing.T) {
		env := setupTestHandler(t)
		req, _ := http.NewRequest("OPTIONS", "/api/mappings/original", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		env.r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("Production allow list", func(t *testing.T) {
		env := setupTestHandler(t)
		env.h.cfg.AppEnv = "production"
		env.h.cfg.AllowedOrigins = "https://tools.tuttle.example"
		r := env.h.SetupRouter(nil, NewSessionStore(env.h.cfg))

		req, _ := http.NewRequest("GET", "/api/health", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

		req.Header.Set("Origin", "https://tools.tuttle.example")
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "https://tools.tuttle.example", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	env := setupTestHandler(t)
	limiter := services.NewIPRateLimiter(rate.Every(time.Hour), 2, slog.Default())
	env.r = env.h.SetupRouter(limiter, NewSessionStore(env.h.cfg))

	body := map[string]string{"username": "admin", "password": "wrong"}
	assert.Equal(t, http.StatusUnauthorized, env.do("POST", "/api/auth/login", body).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do("POST", "/api/auth/login", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, env.do("POST", "/api/auth/login", body).Code)

	// other routes are not limited
	assert.Equal(t, http.StatusOK, env.do("GET", "/api/auth/check", nil).Code)
}
