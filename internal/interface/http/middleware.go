package http

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mstolarz/astro-advisor/internal/infra/config"
)

// errorHandlingMiddleware serializes the last recorded error through
// asHTTPError. Gateway-class failures (weather provider down, generation
// quota) log as warnings; only server faults log as errors.
func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := asHTTPError(c.Errors.Last().Err)
		message := httpErr.Message
		if message == "" {
			message = httpErr.Error()
		}

		attrs := []any{
			"code", httpErr.Code,
			"status", httpErr.Status,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", httpErr.Err,
		}
		if httpErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", attrs...)
		} else {
			logger.Warn("request failed", attrs...)
		}

		c.JSON(httpErr.Status, gin.H{
			"error": gin.H{
				"code":    httpErr.Code,
				"message": message,
			},
		})
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}

// rateLimitMiddleware throttles per client IP. Report generation burns real
// LLM and weather quota, so the limiter guards the whole API surface with a
// small burst allowance.
func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newClientLimiter(cfg)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if limiter.allow(ip, time.Now()) {
			c.Next()
			return
		}
		logger.Warn("rate limit exceeded", "ip", ip, "path", c.Request.URL.Path)
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests", nil))
	}
}

// clientLimiter is a token bucket per client IP. Buckets refill continuously
// at the configured per-minute rate, capped at the burst size.
type clientLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	perSecond  float64
	burst      float64
	staleAfter time.Duration
	lastSweep  time.Time
}

type bucket struct {
	tokens   float64
	refilled time.Time
}

func newClientLimiter(cfg config.RateLimitConfig) *clientLimiter {
	return &clientLimiter{
		buckets:    make(map[string]*bucket),
		perSecond:  float64(cfg.RequestsPerMinute) / 60,
		burst:      float64(cfg.Burst),
		staleAfter: 5 * time.Minute,
	}
}

func (l *clientLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{tokens: l.burst, refilled: now}
		l.buckets[ip] = b
	} else {
		b.tokens += now.Sub(b.refilled).Seconds() * l.perSecond
		if b.tokens > l.burst {
			b.tokens = l.burst
		}
		b.refilled = now
	}

	if now.Sub(l.lastSweep) > l.staleAfter {
		l.sweepLocked(now)
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (l *clientLimiter) sweepLocked(now time.Time) {
	for ip, b := range l.buckets {
		if now.Sub(b.refilled) > l.staleAfter {
			delete(l.buckets, ip)
		}
	}
	l.lastSweep = now
}
