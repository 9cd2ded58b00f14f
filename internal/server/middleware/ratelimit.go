package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"movie-booking-admin/backend/internal/metrics"
	"movie-booking-admin/backend/internal/platform/response"
)

// MsgRateLimited is returned when a client exceeds its request budget.
const MsgRateLimited = "Too many requests. Please try again later."

const (
	maxTrackedClients = 10000
	// limiterTTL bounds how long a client's limiter is kept.
	limiterTTL = 10 * time.Minute
)

// IPRateLimiter hands out a token bucket per client IP.
type IPRateLimiter struct {
	limit    rate.Limit
	burst    int
	limiters *expirable.LRU[string, *rate.Limiter]
}

// NewIPRateLimiter allows perMinute requests per client with a burst of the same size.
// perMinute <= 0 disables limiting.
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	if perMinute <= 0 {
		return &IPRateLimiter{limit: rate.Inf}
	}
	return &IPRateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
		limiters: expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, limiterTTL),
	}
}

// Allow reports whether ip may make another request now.
func (l *IPRateLimiter) Allow(ip string) bool {
	if l.limit == rate.Inf {
		return true
	}
	lim, ok := l.limiters.Get(ip)
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters.Add(ip, lim)
	}
	return lim.Allow()
}

// RateLimit rejects requests from clients over budget with a 4000 envelope.
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			metrics.RateLimitedTotal.WithLabelValues(route(c)).Inc()
			c.Header("Retry-After", "60")
			response.Abort(c, http.StatusOK, response.Failure(response.CodeClientError, MsgRateLimited))
			return
		}
		c.Next()
	}
}
