package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"movie-booking-admin/backend/internal/audit"
	audithandler "movie-booking-admin/backend/internal/audit/handler"
	auditrepo "movie-booking-admin/backend/internal/audit/repository"
	"movie-booking-admin/backend/internal/config"
	"movie-booking-admin/backend/internal/db"
	healthhandler "movie-booking-admin/backend/internal/health/handler"
	identityhandler "movie-booking-admin/backend/internal/identity/handler"
	identityservice "movie-booking-admin/backend/internal/identity/service"
	"movie-booking-admin/backend/internal/logger"
	moviehandler "movie-booking-admin/backend/internal/movie/handler"
	movierepo "movie-booking-admin/backend/internal/movie/repository"
	"movie-booking-admin/backend/internal/security"
	"movie-booking-admin/backend/internal/server"
	"movie-booking-admin/backend/internal/server/middleware"
	sessionrepo "movie-booking-admin/backend/internal/session/repository"
	"movie-booking-admin/backend/internal/telemetry"
	oteltelemetry "movie-booking-admin/backend/internal/telemetry/otel"
	"movie-booking-admin/backend/internal/telemetry/producer"
	theaterhandler "movie-booking-admin/backend/internal/theater/handler"
	theaterrepo "movie-booking-admin/backend/internal/theater/repository"
	userrepo "movie-booking-admin/backend/internal/user/repository"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newDB,
			newSessionKV,
			sessionrepo.NewCache,
			newTokenProvider,
			newHasher,
			newEmitter,
			newAuthService,
			newAuditRepository,
			newAuditLogger,
			newRouter,
			newHTTPServer,
		),
		fx.Invoke(startHTTPServer),
	)
	app.Run()
}

func newConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("config: DATABASE_URL must be set")
	}
	if !cfg.SigningConfigured() {
		return nil, errors.New("config: set JWT_SECRET, or JWT_PRIVATE_KEY and JWT_PUBLIC_KEY")
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(logger.Options{
		Development: cfg.IsDevelopment(),
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	return log, nil
}

func newTelemetry(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*oteltelemetry.Providers, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	providers, err := oteltelemetry.NewProviders(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.OTLPInsecure, log)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}
	providers.SetGlobal()

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return providers.Shutdown(stopCtx)
		},
	})
	return providers, nil
}

func newDB(lc fx.Lifecycle, cfg *config.Config) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return conn.Close() },
	})
	return conn, nil
}

// newSessionKV picks Redis when REDIS_URL is set and the in-process cache otherwise.
func newSessionKV(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (sessionrepo.KV, error) {
	var kv sessionrepo.KV
	if cfg.RedisURL == "" {
		log.Info("session cache: in-process")
		kv = sessionrepo.NewMemoryKV(sessionrepo.DefaultMemorySize, cfg.SessionTTL()+cfg.AccessTTL())
	} else {
		redisKV, err := sessionrepo.NewRedisKV(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("session cache: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		if err := redisKV.Ping(ctx); err != nil {
			_ = redisKV.Close()
			return nil, fmt.Errorf("session cache ping: %w", err)
		}
		log.Info("session cache: redis")
		kv = redisKV
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return kv.Close() },
	})
	return kv, nil
}

func newTokenProvider(cfg *config.Config) (*security.TokenProvider, error) {
	return security.NewProvider(security.SigningSettings{
		Secret:        cfg.JWTSecret,
		PrivateKeyPEM: cfg.JWTPrivateKey,
		PublicKeyPEM:  cfg.JWTPublicKey,
		Issuer:        cfg.JWTIssuer,
		Audience:      cfg.JWTAudience,
		AccessTTL:     cfg.AccessTTL(),
		RefreshTTL:    cfg.RefreshTTL(),
	})
}

func newHasher(cfg *config.Config) *security.Hasher {
	return security.NewHasher(cfg.BcryptCost)
}

// newEmitter fans auth events out to OTel logs and, when brokers are configured, Kafka.
func newEmitter(lc fx.Lifecycle, cfg *config.Config, providers *oteltelemetry.Providers, log *zap.Logger) (telemetry.EventEmitter, error) {
	fanout := telemetry.Fanout{oteltelemetry.NewEventEmitter(providers.LoggerProvider)}

	kp, err := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.EventsKafkaTopic, log)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	if kp != nil {
		log.Info("auth events: kafka enabled", zap.String("topic", cfg.EventsKafkaTopic))
		fanout = append(fanout, kp)
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return kp.Close() },
		})
	}
	return fanout, nil
}

func newAuthService(
	conn *sqlx.DB,
	cache *sessionrepo.Cache,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	emitter telemetry.EventEmitter,
	log *zap.Logger,
	cfg *config.Config,
) *identityservice.AuthService {
	return identityservice.NewAuthService(
		userrepo.NewPostgresRepository(conn),
		cache,
		hasher,
		tokens,
		emitter,
		log.Named("auth"),
		cfg.SessionTTL(),
	)
}

func newAuditRepository(conn *sqlx.DB) auditrepo.Repository {
	return auditrepo.NewPostgresRepository(conn)
}

func newAuditLogger(repo auditrepo.Repository, log *zap.Logger) audit.AuditLogger {
	return audit.NewLogger(repo, log.Named("audit"))
}

// userResolver attributes requests to the user behind the token's cached session.
func userResolver(cache *sessionrepo.Cache) middleware.UserResolver {
	return func(ctx context.Context, sessionKey string) string {
		id, err := cache.GetIdentity(ctx, sessionKey)
		if err != nil || id == nil {
			return ""
		}
		return id.ID
	}
}

func newRouter(
	cfg *config.Config,
	log *zap.Logger,
	conn *sqlx.DB,
	cache *sessionrepo.Cache,
	tokens *security.TokenProvider,
	auth *identityservice.AuthService,
	auditRepo auditrepo.Repository,
	auditLogger audit.AuditLogger,
) *gin.Engine {
	resolve := userResolver(cache)
	return server.NewRouter(server.Deps{
		ServiceName: cfg.ServiceName,
		Log:         log,
		Tokens:      tokens,
		Revocations: cache,
		Header:      middleware.HeaderConfig{Name: cfg.JWTHeaderName, Type: cfg.JWTHeaderType},
		Audit:       auditLogger,
		ResolveUser: resolve,
		Limiter:     middleware.NewIPRateLimiter(cfg.LoginRatePerMin),
		Health: healthhandler.NewHandler(log,
			healthhandler.Check{Name: "postgres", Ping: conn.PingContext},
			healthhandler.Check{Name: "session_cache", Ping: cache.Ping},
		),
		Auth:      identityhandler.NewAuthHandler(auth, log.Named("auth")),
		AuditLogs: audithandler.NewAuditHandler(auditRepo, resolve, log.Named("audit")),
		Movies:    moviehandler.NewMovieHandler(movierepo.NewPostgresRepository(conn), log.Named("movies")),
		Theaters:  theaterhandler.NewTheaterHandler(theaterrepo.NewPostgresRepository(conn), log.Named("theaters")),
	})
}

func newHTTPServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return server.NewHTTPServer(cfg.HTTPAddr, engine, cfg.CORSOrigins(), cfg.JWTHeaderName)
}

// startHTTPServer serves until fx stops the app, then waits for in-flight event emits
// before the emitters and telemetry providers are shut down.
func startHTTPServer(lc fx.Lifecycle, srv *http.Server, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down http server")
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			select {
			case <-time.After(telemetry.ShutdownDrainDuration):
			case <-ctx.Done():
			}
			return nil
		},
	})
}
