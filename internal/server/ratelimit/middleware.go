package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/resume-builder/internal/logger"
)

// ClientID identifies the caller by remote IP. Forwarded headers are ignored
// because they are client controlled.
func ClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// Middleware rejects requests over the limit with 429 and sets X-RateLimit-* headers.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := l.Allow(ClientID(r), r.URL.Path, r.Method)
		setHeaders(w, info)
		if allowed {
			next.ServeHTTP(w, r)
			return
		}

		logger.Ctx(r.Context()).Warn().
			Str("path", r.URL.Path).
			Int("limit", info.Limit).
			Dur("retry_after", info.RetryAfter).
			Msg("rate limit exceeded")

		body := map[string]any{
			"error":   "rate_limit_exceeded",
			"message": "Rate limit exceeded. Please try again later.",
			"limit":   info.Limit,
		}
		if !info.ResetTime.IsZero() {
			body["reset_at"] = info.ResetTime.UTC().Format(time.RFC3339)
		}
		if info.RetryAfter > 0 {
			seconds := int(info.RetryAfter.Seconds()) + 1
			body["retry_after"] = seconds
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(body)
	})
}

func setHeaders(w http.ResponseWriter, info Info) {
	if info.Limit <= 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
}
