// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	WindowSize    time.Duration // Time window for rate limiting
	MaxAttempts   int           // Maximum attempts per window
	CleanupPeriod time.Duration // How often to clean up old entries
	BanDuration   time.Duration // How long to ban after exceeding limit
}

// DefaultAuthConfig returns sensible defaults for auth endpoints.
func DefaultAuthConfig() *Config {
	return &Config{
		WindowSize:    15 * time.Minute,
		MaxAttempts:   5,
		CleanupPeriod: 30 * time.Minute,
		BanDuration:   30 * time.Minute,
	}
}

// SummaryConfig returns limits for the summary-generation endpoint,
// which fans out to the paid generative-language API.
func SummaryConfig() *Config {
	return &Config{
		WindowSize:    5 * time.Minute,
		MaxAttempts:   10,
		CleanupPeriod: 30 * time.Minute,
		BanDuration:   10 * time.Minute,
	}
}

// RateLimitInfo describes the outcome of an Allow check.
type RateLimitInfo struct {
	Allowed    bool
	Remaining  int
	ResetTime  time.Time
	Banned     bool
	RetryAfter time.Duration
}

type attemptRecord struct {
	Count     int
	FirstSeen time.Time
	BannedAt  *time.Time
}

// MemoryRateLimiter implements in-memory sliding-window rate limiting.
type MemoryRateLimiter struct {
	config   *Config
	attempts map[string]*attemptRecord
	mu       sync.Mutex
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	limiter := &MemoryRateLimiter{
		config:   config,
		attempts: make(map[string]*attemptRecord),
		stopCh:   make(chan struct{}),
	}
	go limiter.cleanupLoop()
	return limiter
}

// Allow checks whether a request from the identifier should proceed.
func (rl *MemoryRateLimiter) Allow(identifier string) (bool, *RateLimitInfo) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	record, exists := rl.attempts[identifier]

	if !exists {
		rl.attempts[identifier] = &attemptRecord{Count: 1, FirstSeen: now}
		return true, &RateLimitInfo{
			Allowed:   true,
			Remaining: rl.config.MaxAttempts - 1,
			ResetTime: now.Add(rl.config.WindowSize),
		}
	}

	// Still banned?
	if record.BannedAt != nil {
		banEnd := record.BannedAt.Add(rl.config.BanDuration)
		if now.Before(banEnd) {
			return false, &RateLimitInfo{
				Banned:     true,
				ResetTime:  banEnd,
				RetryAfter: banEnd.Sub(now),
			}
		}
		// Ban expired: start a fresh window.
		record.BannedAt = nil
		record.Count = 0
		record.FirstSeen = now
	}

	// Window rolled over
	if now.Sub(record.FirstSeen) > rl.config.WindowSize {
		record.Count = 0
		record.FirstSeen = now
	}

	record.Count++
	if record.Count > rl.config.MaxAttempts {
		bannedAt := now
		record.BannedAt = &bannedAt
		banEnd := bannedAt.Add(rl.config.BanDuration)
		return false, &RateLimitInfo{
			Banned:     true,
			ResetTime:  banEnd,
			RetryAfter: banEnd.Sub(now),
		}
	}

	return true, &RateLimitInfo{
		Allowed:   true,
		Remaining: rl.config.MaxAttempts - record.Count,
		ResetTime: record.FirstSeen.Add(rl.config.WindowSize),
	}
}

// Stop terminates the cleanup goroutine.
func (rl *MemoryRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *MemoryRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for id, record := range rl.attempts {
		stale := now.Sub(record.FirstSeen) > rl.config.WindowSize
		if record.BannedAt != nil {
			stale = now.After(record.BannedAt.Add(rl.config.BanDuration))
		}
		if stale {
			delete(rl.attempts, id)
		}
	}
}

// GetClientIP extracts the originating client address, honoring
// X-Forwarded-For when present.
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
