package github

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/KOFI-GYIMAH/repo-scorer/pkg/logger"
)

// * RateLimitTracker records the quota headers GitHub sends back. It only
// * observes: requests are never delayed or replayed.
type RateLimitTracker struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	lowWarn   int
}

func NewRateLimitTracker() *RateLimitTracker {
	return &RateLimitTracker{
		remaining: -1,
		lowWarn:   5,
	}
}

// * Snapshot returns the last seen quota; remaining is -1 before any response
func (r *RateLimitTracker) Snapshot() (int, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining, r.reset
}

func (r *RateLimitTracker) updateFromHeaders(headers http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	remaining := headers.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return
	}
	val, err := strconv.Atoi(remaining)
	if err != nil {
		return
	}
	r.remaining = val

	if reset := headers.Get("X-RateLimit-Reset"); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.reset = time.Unix(val, 0)
		}
	}

	if r.remaining < r.lowWarn {
		logger.Warn("[RateLimiter] Low rate limit: %d remaining. Resets at %s", r.remaining, r.reset.Format(time.RFC1123))
	}
}

func (r *RateLimitTracker) Middleware(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := next.RoundTrip(req)
		if err != nil {
			logger.Error("Network error in RoundTrip: %v", err)
			return nil, err
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden {
			logger.Warn("[RateLimiter] GitHub answered %d for %s", resp.StatusCode, req.URL.Path)
		}

		r.updateFromHeaders(resp.Header)
		return resp, nil
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
