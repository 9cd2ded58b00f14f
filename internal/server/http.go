// Package server assembles the gin router and the HTTP server around it.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"movie-booking-admin/backend/internal/audit"
	audithandler "movie-booking-admin/backend/internal/audit/handler"
	healthhandler "movie-booking-admin/backend/internal/health/handler"
	identityhandler "movie-booking-admin/backend/internal/identity/handler"
	moviehandler "movie-booking-admin/backend/internal/movie/handler"
	"movie-booking-admin/backend/internal/platform/response"
	"movie-booking-admin/backend/internal/server/middleware"
	theaterhandler "movie-booking-admin/backend/internal/theater/handler"
)

// MsgRouteNotFound is returned for unknown paths.
const MsgRouteNotFound = "Requested resource not found."

// Deps holds everything NewRouter mounts. Nil handlers leave their routes unregistered;
// a nil Audit disables auditing.
type Deps struct {
	ServiceName string
	Log         *zap.Logger

	Tokens      middleware.TokenValidator
	Revocations middleware.RevocationChecker
	Header      middleware.HeaderConfig
	Audit       audit.AuditLogger
	ResolveUser middleware.UserResolver
	Limiter     *middleware.IPRateLimiter
	BodyLimit   int64

	Health    *healthhandler.Handler
	Auth      *identityhandler.AuthHandler
	AuditLogs *audithandler.AuditHandler
	Movies    *moviehandler.MovieHandler
	Theaters  *theaterhandler.TheaterHandler
}

// NewRouter wires middleware and routes:
//
//	GET  /health, GET /metrics
//	/auth/*      signup, login and refresh are public; the rest need a token
//	/audit/logs  token required
//	/movies/*    token required
//	/theaters/*  token required
func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	if d.Limiter == nil {
		d.Limiter = middleware.NewIPRateLimiter(0)
	}

	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics())
	if d.ServiceName != "" {
		r.Use(otelgin.Middleware(d.ServiceName))
	}
	r.Use(middleware.BodyLimit(d.BodyLimit))

	r.NoRoute(func(c *gin.Context) {
		response.Write(c, response.Failure(response.CodeClientError, MsgRouteNotFound))
	})

	if d.Health != nil {
		r.GET("/health", d.Health.Health)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.Auth(d.Tokens, d.Revocations, d.Header, log)
	audited := middleware.Audit(d.Audit, d.ResolveUser)

	if d.Auth != nil {
		d.Auth.Register(
			r.Group("/auth", audited),
			r.Group("/auth", requireAuth, audited),
			middleware.RateLimit(d.Limiter),
		)
	}
	if d.AuditLogs != nil {
		d.AuditLogs.Register(r.Group("/audit", requireAuth))
	}
	if d.Movies != nil {
		d.Movies.Register(r.Group("/movies", requireAuth, audited))
	}
	if d.Theaters != nil {
		d.Theaters.Register(r.Group("/theaters", requireAuth, audited))
	}
	return r
}

// NewHTTPServer wraps h in CORS handling. Empty origins allow any origin. Tokens travel in a
// header, so credentialed requests are not enabled.
func NewHTTPServer(addr string, h http.Handler, origins []string, tokenHeader string) *http.Server {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	if tokenHeader == "" {
		tokenHeader = "Authorization"
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", tokenHeader},
	})
	return &http.Server{
		Addr:              addr,
		Handler:           c.Handler(h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
