package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docket-cli/internal/logger"
)

// Quota defaults. Until the first response arrives the limiter assumes the
// anonymous REST quota, which is the smaller of the two.
const (
	AnonymousRateLimit     = 60
	AuthenticatedRateLimit = 5000

	// ProactiveRate is the default request rate in requests per second.
	ProactiveRate = 1.2

	// reserveDivisor keeps 1/50th of the hourly quota in reserve.
	reserveDivisor = 50
)

// Response headers carrying quota state.
const (
	HeaderRateLimit     = "X-RateLimit-Limit"
	HeaderRateRemaining = "X-RateLimit-Remaining"
	HeaderRateReset     = "X-RateLimit-Reset"
	HeaderRetryAfter    = "Retry-After"
)

// quota is the last quota state reported by the API.
type quota struct {
	limit     int
	remaining int
	reset     time.Time
}

// reserve is how many requests are held back before pausing until reset.
func (q quota) reserve() int {
	return max(1, q.limit/reserveDivisor)
}

// exhausted reports whether callers should pause until q.reset.
func (q quota) exhausted(now time.Time) bool {
	return q.remaining < q.reserve() && now.Before(q.reset)
}

// RateLimiter paces requests to the GitHub API. A token bucket spaces out
// calls and the X-RateLimit headers of each response pause callers once the
// hourly quota nears its reserve.
type RateLimiter struct {
	mu     sync.Mutex
	quota  quota
	bucket *rate.Limiter
}

// NewRateLimiter creates a rate limiter pacing at ProactiveRate.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithRate(rate.Limit(ProactiveRate))
}

// NewRateLimiterWithRate creates a rate limiter allowing perSecond requests
// per second. rate.Inf disables pacing; quota pauses still apply.
func NewRateLimiterWithRate(perSecond rate.Limit) *RateLimiter {
	return &RateLimiter{
		quota:  quota{limit: AnonymousRateLimit, remaining: AnonymousRateLimit},
		bucket: rate.NewLimiter(perSecond, 1),
	}
}

// Wait blocks until a request may be sent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	q := r.snapshot()
	if !q.exhausted(time.Now()) {
		return nil
	}

	pause := time.Until(q.reset)
	logger.Warn("github quota low (%d/%d left), pausing %s until reset",
		q.remaining, q.limit, pause.Round(time.Second))

	timer := time.NewTimer(pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// UpdateFromResponse records the quota headers of resp. Missing or
// malformed headers leave the previous value in place.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if n, ok := headerInt(resp.Header, HeaderRateRemaining); ok {
		r.quota.remaining = n
	}
	if n, ok := headerInt(resp.Header, HeaderRateLimit); ok {
		r.quota.limit = n
	}
	if n, ok := headerInt(resp.Header, HeaderRateReset); ok {
		r.quota.reset = time.Unix(int64(n), 0)
	}
	logger.Debug("github quota: %d/%d left", r.quota.remaining, r.quota.limit)
}

// CheckRateLimit records the quota headers of resp and returns a
// *RateLimitError when the response was refused for exceeding it: a 429, or
// a 403 sent once the quota is spent.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil {
		return nil
	}
	r.UpdateFromResponse(resp)

	q := r.snapshot()
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
	case resp.StatusCode == http.StatusForbidden && q.remaining == 0:
	default:
		return nil
	}

	resetAt := q.reset
	if seconds, ok := headerInt(resp.Header, HeaderRetryAfter); ok {
		resetAt = time.Now().Add(time.Duration(seconds) * time.Second)
	}
	return &RateLimitError{ResetAt: resetAt, Remaining: q.remaining, Limit: q.limit}
}

// Remaining returns the requests left in the current window.
func (r *RateLimiter) Remaining() int { return r.snapshot().remaining }

// Limit returns the hourly quota.
func (r *RateLimiter) Limit() int { return r.snapshot().limit }

// ResetTime returns when the current window ends.
func (r *RateLimiter) ResetTime() time.Time { return r.snapshot().reset }

func (r *RateLimiter) snapshot() quota {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quota
}

func headerInt(h http.Header, name string) (int, bool) {
	v := h.Get(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
