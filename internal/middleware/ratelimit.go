// File: internal/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/Kenaine/healthcare-translation/internal/ratelimit"
)

// RateLimitMiddleware applies an IP-keyed rate limiter to a route group.
func RateLimitMiddleware(limiter *ratelimit.MemoryRateLimiter, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := ratelimit.GetClientIP(r)

			allowed, info := limiter.Allow(clientIP)

			limit := info.Remaining
			if info.Allowed {
				limit++
			}
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))

			if !allowed {
				statusMsg := "RATE LIMITED"
				if info.Banned {
					statusMsg = "BANNED"
				}
				log.Printf("[RateLimit] Blocked %s request from %s - %s", name, clientIP, statusMsg)

				if info.RetryAfter > 0 {
					w.Header().Set("Retry-After", fmt.Sprintf("%.0f", info.RetryAfter.Seconds()))
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"error": "Too many attempts. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
