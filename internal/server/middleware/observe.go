package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"movie-booking-admin/backend/internal/metrics"
	"movie-booking-admin/backend/internal/platform/response"
)

// MsgInternal is the envelope message for unexpected failures.
const MsgInternal = "An Error Occurred."

// DefaultBodyLimit caps request bodies.
const DefaultBodyLimit int64 = 512 << 10

const unmatchedRoute = "unmatched"

// RequestLogger logs one line per request with the envelope status code.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route(c)),
			zap.Int("http_status", c.Writer.Status()),
			zap.Int("status_code", c.GetInt(response.CodeKey)),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if code := c.GetInt(response.CodeKey); code >= response.CodeServerError || c.Writer.Status() >= http.StatusInternalServerError {
			log.Warn("request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

// Metrics records request counts by envelope code and request latency.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		r := route(c)
		code := c.GetInt(response.CodeKey)
		label := strconv.Itoa(code)
		if code == 0 {
			label = strconv.Itoa(c.Writer.Status())
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, r, label).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(c.Request.Method, r).Observe(time.Since(start).Seconds())
	}
}

// Recovery turns a panic into a 5000 envelope.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", zap.Any("panic", recovered), zap.String("route", route(c)), zap.Stack("stack"))
		response.Abort(c, http.StatusOK, response.Failure(response.CodeServerError, MsgInternal))
	})
}

// BodyLimit caps the request body at n bytes; reads past it fail.
func BodyLimit(n int64) gin.HandlerFunc {
	if n <= 0 {
		n = DefaultBodyLimit
	}
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

func route(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return unmatchedRoute
}
