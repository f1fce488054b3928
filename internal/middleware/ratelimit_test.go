package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func rateLimitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(rl.Middleware())
	router.POST("/login", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	return router
}

func postFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/login", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_AllowsBurst(t *testing.T) {
	rl := NewRateLimiter(10, 3)
	defer rl.Stop()
	router := rateLimitedRouter(rl)

	for i := 0; i < 3; i++ {
		if w := postFrom(router, "192.168.1.1:12345"); w.Code != http.StatusOK {
			t.Errorf("request %d: expected %d, got %d", i, http.StatusOK, w.Code)
		}
	}
}

func TestRateLimit_BlocksExcessiveRequests(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Stop()
	router := rateLimitedRouter(rl)

	var last *httptest.ResponseRecorder
	for i := 0; i < 5; i++ {
		last = postFrom(router, "10.0.0.1:12345")
	}

	if last.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d after burst exceeded, got %d", http.StatusTooManyRequests, last.Code)
	}
	if body := parseBody(t, last); body["error"] == "" {
		t.Errorf("expected error message, got %s", last.Body.String())
	}
}

func TestRateLimit_IndependentPerIP(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()
	router := rateLimitedRouter(rl)

	if w := postFrom(router, "10.0.0.1:12345"); w.Code != http.StatusOK {
		t.Errorf("IP1 first request: expected %d, got %d", http.StatusOK, w.Code)
	}
	if w := postFrom(router, "10.0.0.2:12345"); w.Code != http.StatusOK {
		t.Errorf("IP2 first request: expected %d, got %d", http.StatusOK, w.Code)
	}
	if w := postFrom(router, "10.0.0.1:12345"); w.Code != http.StatusTooManyRequests {
		t.Errorf("IP1 second request: expected %d, got %d", http.StatusTooManyRequests, w.Code)
	}
}

func TestRateLimit_StopEndsSweep(t *testing.T) {
	rl := NewRateLimiter(10, 3)
	rl.Stop()
	rl.Stop()

	select {
	case <-rl.stopped:
	case <-time.After(time.Second):
		t.Fatal("sweep goroutine still running after Stop")
	}
}
