package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"task-manager.com/task-manager/internal/services"
)

func TestRateLimiterPerIP(t *testing.T) {
	e := echo.New()
	e.Use(RateLimiter(2, time.Minute))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := call("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := call("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after the burst, got %d", code)
	}
	if code := call("10.0.0.2"); code != http.StatusOK {
		t.Errorf("expected other clients unaffected, got %d", code)
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	v := newVisitors(2, time.Minute)
	start := time.Date(2026, 5, 20, 9, 30, 0, 0, time.UTC)

	v.allow("10.0.0.1", start)
	v.allow("10.0.0.1", start)
	v.allow("10.0.0.2", start.Add(30*time.Second))
	if v.allow("10.0.0.1", start.Add(time.Second)) {
		t.Fatal("expected 10.0.0.1 to be limited within the window")
	}
	if got := v.size(); got != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", got)
	}

	// 10.0.0.1 has been idle a full window; 10.0.0.2 has not.
	if !v.allow("10.0.0.3", start.Add(61*time.Second)) {
		t.Error("expected a new client to be allowed")
	}
	if got := v.size(); got != 2 {
		t.Errorf("expected the idle client evicted, got %d tracked", got)
	}
	if !v.allow("10.0.0.1", start.Add(62*time.Second)) {
		t.Error("expected an evicted client to start with a full bucket")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	e := echo.New()
	e.Use(RateLimiter(0, time.Minute))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}
}

func TestCurrentUser(t *testing.T) {
	e := echo.New()
	e.Use(CurrentUser())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, services.ActorFrom(c.Request().Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, " u-42 ")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Body.String() != "u-42" {
		t.Errorf("expected actor u-42, got %q", rec.Body.String())
	}
}
