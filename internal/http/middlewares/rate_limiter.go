package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter allows limit requests per window for each client IP, with
// bursts up to limit. A non-positive limit disables limiting.
func RateLimiter(limit int, window time.Duration) echo.MiddlewareFunc {
	if limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	visitors := newVisitors(limit, window)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !visitors.allow(c.RealIP(), time.Now()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors holds one limiter per client. A client idle for a whole window
// is back to a full bucket, so its limiter is dropped on the next sweep.
type visitors struct {
	mu        sync.Mutex
	clients   map[string]*visitor
	every     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
}

func newVisitors(limit int, window time.Duration) *visitors {
	return &visitors{
		clients: make(map[string]*visitor),
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		idle:    window,
	}
}

func (v *visitors) allow(key string, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if now.Sub(v.lastSweep) >= v.idle {
		v.sweep(now)
	}

	c, ok := v.clients[key]
	if !ok {
		c = &visitor{limiter: rate.NewLimiter(v.every, v.burst)}
		v.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (v *visitors) sweep(now time.Time) {
	for key, c := range v.clients {
		if now.Sub(c.lastSeen) >= v.idle {
			delete(v.clients, key)
		}
	}
	v.lastSweep = now
}

func (v *visitors) size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.clients)
}
