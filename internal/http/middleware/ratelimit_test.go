package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestKeyByClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")

	if got := KeyByClientIP()(c); got != "ip:203.0.113.9" {
		t.Fatalf("key = %q", got)
	}
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(2, 0, nil)
	if rl.burst != 1 {
		t.Fatalf("burst = %d; want 1", rl.burst)
	}
	if rl.keyFn == nil {
		t.Fatal("keyFn should default")
	}
	if a, b := rl.limiterFor("k"), rl.limiterFor("k"); a != b {
		t.Fatal("limiter not reused for the same key")
	}
}

func TestRateLimiter_EvictsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	rl.ttl = time.Nanosecond

	rl.mu.Lock()
	rl.visitors["old"] = &visitor{limiter: rate.NewLimiter(1, 1), lastSeen: time.Now().Add(-time.Hour)}
	rl.sweepN = 4999
	rl.mu.Unlock()

	_ = rl.limiterFor("new")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["old"]; ok {
		t.Fatal("idle bucket survived the sweep")
	}
	if _, ok := rl.visitors["new"]; !ok {
		t.Fatal("new bucket missing")
	}
}

func TestRateLimiter_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(0.001, 1, func(*gin.Context) string { return "fixed" })

	r := gin.New()
	r.Use(RequestID())
	r.GET("/bypass", func(c *gin.Context) { c.Set(ctxKeyRateBypass, true); c.Next() }, rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/x", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request -> %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request -> %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "1" {
		t.Fatalf("Retry-After = %q", w.Header().Get("Retry-After"))
	}
	if env := decodeEnvelope(t, w.Body.Bytes()); env["code"] != "rate_limited" || env["request_id"] == "" {
		t.Fatalf("envelope = %v", env)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bypass", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("bypassed request -> %d", w.Code)
	}
}
