package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/api/responses"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
)

// WindowLimiter counts hits per scope in a fixed window.
type WindowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitPolicy throttles one auth surface per client IP and, optionally,
// per submitted email.
type RateLimitPolicy struct {
	Name       string
	Window     time.Duration
	IPLimit    int
	EmailLimit int
}

func (p RateLimitPolicy) enabled() bool {
	return p.Window > 0 && (p.IPLimit > 0 || p.EmailLimit > 0)
}

func (p RateLimitPolicy) scope(kind, value string) string {
	name := strings.ToLower(strings.TrimSpace(p.Name))
	if name == "" {
		name = "auth"
	}
	return name + ":" + kind + ":" + value
}

// AuthRateLimit rejects requests over the policy with RATE_LIMIT_EXCEEDED.
// A nil limiter disables it, which is how the server runs without redis.
func AuthRateLimit(policy RateLimitPolicy, limiter WindowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.IPLimit > 0 {
				if ip := clientIP(r); ip != "" {
					if !check(ctx, w, logg, limiter, policy, "ip", ip, policy.IPLimit) {
						return
					}
				}
			}

			if policy.EmailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
				if email := extractEmail(body); email != "" {
					if !check(ctx, w, logg, limiter, policy, "email", hashValue(email), policy.EmailLimit) {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// check reports whether the request may continue, writing the rejection
// when it may not.
func check(ctx context.Context, w http.ResponseWriter, logg *logger.Logger, limiter WindowLimiter, policy RateLimitPolicy, kind, value string, limit int) bool {
	allowed, count, err := limiter.FixedWindowAllow(ctx, policy.scope(kind, value), int64(limit), policy.Window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return false
	}
	if allowed {
		return true
	}
	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"scope":          kind,
			"policy":         policy.Name,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.Window.Seconds()),
		}), "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "Too many attempts. Please try again later."))
	return false
}

func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
