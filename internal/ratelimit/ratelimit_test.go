// File: internal/ratelimit/ratelimit_test.go
package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		WindowSize:    100 * time.Millisecond,
		MaxAttempts:   3,
		CleanupPeriod: time.Hour,
		BanDuration:   150 * time.Millisecond,
	}
}

func TestAllowWithinLimit(t *testing.T) {
	rl := NewMemoryRateLimiter(testConfig())
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		ok, info := rl.Allow("client-1")
		require.True(t, ok)
		require.Equal(t, 2-i, info.Remaining)
	}
}

func TestBanAfterExceedingLimit(t *testing.T) {
	rl := NewMemoryRateLimiter(testConfig())
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("client-1")
		require.True(t, ok)
	}

	ok, info := rl.Allow("client-1")
	require.False(t, ok)
	require.True(t, info.Banned)
	require.Greater(t, info.RetryAfter, time.Duration(0))

	// Other clients are unaffected.
	ok, _ = rl.Allow("client-2")
	require.True(t, ok)
}

func TestBanExpires(t *testing.T) {
	rl := NewMemoryRateLimiter(testConfig())
	defer rl.Stop()

	for i := 0; i < 4; i++ {
		rl.Allow("client-1")
	}
	ok, _ := rl.Allow("client-1")
	require.False(t, ok)

	time.Sleep(200 * time.Millisecond)
	ok, _ = rl.Allow("client-1")
	require.True(t, ok)
}

func TestWindowRollsOver(t *testing.T) {
	rl := NewMemoryRateLimiter(testConfig())
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		rl.Allow("client-1")
	}
	time.Sleep(120 * time.Millisecond)

	ok, info := rl.Allow("client-1")
	require.True(t, ok)
	require.Equal(t, 2, info.Remaining)
}

func TestGetClientIPHonorsForwardedFor(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	require.Equal(t, "10.0.0.1", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	require.Equal(t, "203.0.113.7", GetClientIP(r))
}
