package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cityplay/activity-booking-api/database"
	"github.com/cityplay/activity-booking-api/internal/adapters/httpapi"
	memactivityrepo "github.com/cityplay/activity-booking-api/internal/adapters/memory/activityrepo"
	membookingrepo "github.com/cityplay/activity-booking-api/internal/adapters/memory/bookingrepo"
	memidempotency "github.com/cityplay/activity-booking-api/internal/adapters/memory/idempotency"
	memuserrepo "github.com/cityplay/activity-booking-api/internal/adapters/memory/userrepo"
	"github.com/cityplay/activity-booking-api/internal/adapters/postgres"
	pgactivityrepo "github.com/cityplay/activity-booking-api/internal/adapters/postgres/activityrepo"
	pgbookingrepo "github.com/cityplay/activity-booking-api/internal/adapters/postgres/bookingrepo"
	pgidempotency "github.com/cityplay/activity-booking-api/internal/adapters/postgres/idempotency"
	pguserrepo "github.com/cityplay/activity-booking-api/internal/adapters/postgres/userrepo"
	"github.com/cityplay/activity-booking-api/internal/app/activities"
	"github.com/cityplay/activity-booking-api/internal/app/auth"
	"github.com/cityplay/activity-booking-api/internal/app/bookings"
	platformclock "github.com/cityplay/activity-booking-api/internal/platform/clock"
	"github.com/cityplay/activity-booking-api/internal/platform/config"
	"github.com/cityplay/activity-booking-api/internal/platform/health"
	"github.com/cityplay/activity-booking-api/internal/platform/logger"
	"github.com/cityplay/activity-booking-api/internal/platform/token"
	activityrepoport "github.com/cityplay/activity-booking-api/internal/ports/out/activityrepo"
	bookingrepoport "github.com/cityplay/activity-booking-api/internal/ports/out/bookingrepo"
	idempotencyport "github.com/cityplay/activity-booking-api/internal/ports/out/idempotency"
	userrepoport "github.com/cityplay/activity-booking-api/internal/ports/out/userrepo"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		logger.New(0).Fatal("failed to load config", "error", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := platformclock.NewSystemClock()

	var (
		userRepo     userrepoport.Repository
		activityRepo activityrepoport.Repository
		bookingRepo  bookingrepoport.Repository
		idemStore    idempotencyport.Store
		connected    func() bool
		cleanup      func()
	)

	switch cfg.StorageBackend {
	case "postgres":
		pool, ok, err := postgres.Connect(ctx, cfg.Database.DSN, postgres.PoolOptions{
			ConnectTimeout: cfg.Database.ConnectTimeout,
			ConnectRetries: cfg.Database.ConnectRetries,
			RetryDelay:     cfg.Database.RetryDelay,
		}, log)
		if err != nil {
			log.Fatal("failed to open store", "error", err)
		}
		cleanup = pool.Close

		if ok {
			if err := database.Migrate(ctx, cfg.Database.DSN); err != nil {
				log.Fatal("failed to run migrations", "error", err)
			}
		}

		monitor := health.NewMonitor(pool, log, cfg.Database.PingInterval)
		monitor.SetConnected(ok)
		go monitor.Run(ctx)
		connected = monitor.Connected

		userRepo = pguserrepo.NewRepo(pool)
		activityRepo = pgactivityrepo.NewRepo(pool)
		bookingRepo = pgbookingrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	default:
		connected = func() bool { return true }

		userRepo = memuserrepo.NewRepo()
		activityRepo = memactivityrepo.NewRepo()
		bookingRepo = membookingrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	}

	if cleanup != nil {
		defer cleanup()
	}

	tokens := token.New(cfg.JWT.Secret, cfg.JWT.TTL, clk)

	authSvc := auth.NewService(userRepo, tokens, clk)
	activitySvc := activities.NewService(activityRepo, clk)
	bookingSvc := bookings.NewService(bookingRepo, activityRepo, clk)

	handler := httpapi.NewRouter(httpapi.RouterOptions{
		Auth:           authSvc,
		Activities:     activitySvc,
		Bookings:       bookingSvc,
		Connected:      connected,
		Idempotency:    idemStore,
		Clock:          clk,
		Logger:         log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("api listening", "port", cfg.Port, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown did not complete cleanly", "error", err)
	}
}
