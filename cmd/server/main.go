package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/config"
	"github.com/divyansh01440/nirvana-agency/internal/database"
	"github.com/divyansh01440/nirvana-agency/internal/handler"
	"github.com/divyansh01440/nirvana-agency/internal/logger"
	"github.com/divyansh01440/nirvana-agency/internal/middleware"
	"github.com/divyansh01440/nirvana-agency/internal/queue"
	"github.com/divyansh01440/nirvana-agency/internal/repository"
	"github.com/divyansh01440/nirvana-agency/internal/repository/memstore"
	"github.com/divyansh01440/nirvana-agency/internal/router"
	"github.com/divyansh01440/nirvana-agency/internal/service"
)

// stores is the persistence backend selected by STORE_DRIVER.
type stores struct {
	users     service.UserStore
	tokens    service.TokenStore
	bookings  service.BookingStore
	queries   service.QueryStore
	reviews   service.ReviewStore
	projects  service.ProjectStore
	analytics service.AnalyticsStore
	ping      func(context.Context) error
	close     func() error
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if cfg.StoreDriver == config.DriverMemory {
		st := memstore.New()
		return stores{
			users: st.Users(), tokens: st.Tokens(), bookings: st.Bookings(), queries: st.Queries(),
			reviews: st.Reviews(), projects: st.Projects(), analytics: st.Analytics(),
			close: func() error { return nil },
		}, nil
	}
	db, err := database.Open(database.Settings{User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName})
	if err != nil {
		return stores{}, fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return stores{}, fmt.Errorf("migrate: %w", err)
	}
	return stores{
		users:     repository.NewUserRepo(db),
		tokens:    repository.NewTokenRepo(db),
		bookings:  repository.NewBookingRepo(db),
		queries:   repository.NewQueryRepo(db),
		reviews:   repository.NewReviewRepo(db),
		projects:  repository.NewProjectRepo(db),
		analytics: repository.NewAnalyticsRepo(db),
		ping:      pinger(db),
		close:     db.Close,
	}, nil
}

func pinger(db *sql.DB) func(context.Context) error {
	return func(ctx context.Context) error { return db.PingContext(ctx) }
}

func main() {
	_ = godotenv.Load() // .env is optional; the real environment wins

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.New(logger.ForEnv(cfg.Env, cfg.LogLevel))
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal("storage unavailable", zap.Error(err))
	}
	defer st.close()

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		log.Warn("redis unavailable: caching and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	var pub service.Publisher = queue.Discard{}
	if cfg.EventsEnabled {
		pub = queue.NewPublisher(cfg.AMQPURL, log)
		go func() {
			if err := queue.NewConsumer(cfg.AMQPURL, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("events consumer stopped", zap.Error(err))
			}
		}()
	}

	clock := service.SystemClock{}
	gw := service.NewGateway(st.users)
	authCfg := service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	}
	h := router.Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(authCfg, st.users, st.tokens, gw, clock, pub, log), log),
		Recovery:  handler.NewRecoveryHandler(service.NewRecoveryService(st.users, st.tokens, clock, cfg.BcryptCost, pub, log), log),
		Bookings:  handler.NewBookingHandler(service.NewBookingService(gw, st.bookings, st.users, pub, log), log),
		Queries:   handler.NewQueryHandler(service.NewQueryService(gw, st.queries, pub, log), log),
		Reviews:   handler.NewReviewHandler(service.NewReviewService(gw, st.reviews, st.bookings, st.users, pub, log), log),
		Projects:  handler.NewProjectHandler(service.NewProjectService(gw, st.projects), log),
		Analytics: handler.NewAnalyticsHandler(service.NewAnalyticsService(gw, st.analytics, clock), log),
		Admin:     handler.NewAdminHandler(service.NewDirectoryService(gw, st.users, log), log),
		Ready:     handler.Ready(st.ping),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  strings.Split(cfg.CORSOrigins, ","),
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		ExposeHeaders: []string{handler.HeaderAccessDenied},
	}))
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log))

	router.Register(e, h, router.Options{
		JWTSecret:         cfg.JWTSecret,
		Redis:             rdb,
		Cache:             config.LoadCacheConfig(),
		RecoveryRateLimit: config.LoadRecoveryRateLimitConfig(),
		Log:               log,
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("store", cfg.StoreDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
