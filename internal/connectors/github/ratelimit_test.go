package github

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
)

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	r := NewRateLimiter()
	reset := time.Now().Add(time.Hour).Truncate(time.Second)

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "42")
	resp.Header.Set(HeaderRateLimit, "60")
	resp.Header.Set(HeaderRateReset, strconv.FormatInt(reset.Unix(), 10))
	r.UpdateFromResponse(resp)

	assert.Equal(t, 42, r.Remaining())
	assert.Equal(t, 60, r.Limit())
	assert.True(t, reset.Equal(r.ResetTime()))
}

func TestRateLimiter_CheckRateLimit(t *testing.T) {
	r := NewRateLimiterWithRate(rate.Inf)

	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}}
	resp.Header.Set(HeaderRetryAfter, "30")
	err := r.CheckRateLimit(resp)

	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.True(t, errors.Is(err, domain.ErrRateLimited))

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), rlErr.ResetAt, 5*time.Second)

	assert.NoError(t, r.CheckRateLimit(&http.Response{StatusCode: http.StatusOK, Header: http.Header{}}))
	assert.NoError(t, r.CheckRateLimit(nil))
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	r := NewRateLimiterWithRate(rate.Inf)
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "0")
	resp.Header.Set(HeaderRateReset, strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
	r.UpdateFromResponse(resp)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_StartsWithAnonymousQuota(t *testing.T) {
	r := NewRateLimiter()

	assert.Equal(t, AnonymousRateLimit, r.Limit())
	assert.Equal(t, AnonymousRateLimit, r.Remaining())
	assert.True(t, r.ResetTime().IsZero())
}

func TestQuota_Exhausted(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Minute)

	tests := []struct {
		name string
		q    quota
		want bool
	}{
		{"authenticated above reserve", quota{limit: AuthenticatedRateLimit, remaining: 100, reset: later}, false},
		{"authenticated below reserve", quota{limit: AuthenticatedRateLimit, remaining: 99, reset: later}, true},
		{"anonymous keeps one", quota{limit: AnonymousRateLimit, remaining: 1, reset: later}, false},
		{"anonymous spent", quota{limit: AnonymousRateLimit, remaining: 0, reset: later}, true},
		{"window already reset", quota{limit: AnonymousRateLimit, remaining: 0, reset: now.Add(-time.Second)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.exhausted(now))
		})
	}
}

func TestRateLimiter_CheckRateLimit_ForbiddenOnlyWhenSpent(t *testing.T) {
	r := NewRateLimiterWithRate(rate.Inf)

	resp := &http.Response{StatusCode: http.StatusForbidden, Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "10")
	assert.NoError(t, r.CheckRateLimit(resp))

	resp.Header.Set(HeaderRateRemaining, "0")
	assert.True(t, IsRateLimited(r.CheckRateLimit(resp)))
}
