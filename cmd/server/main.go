package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"passreg/internal/activity"
	adminhandler "passreg/internal/admin/handler"
	adminservice "passreg/internal/admin/service"
	adminstore "passreg/internal/admin/store"
	"passreg/internal/assets"
	"passreg/internal/expiry"
	grouphandler "passreg/internal/group/handler"
	groupservice "passreg/internal/group/service"
	groupstore "passreg/internal/group/store"
	"passreg/internal/identity"
	passporthandler "passreg/internal/passport/handler"
	passportmetrics "passreg/internal/passport/metrics"
	"passreg/internal/passport/publiccache"
	passportservice "passreg/internal/passport/service"
	passportstore "passreg/internal/passport/store"
	"passreg/internal/platform/config"
	"passreg/internal/platform/httpserver"
	"passreg/internal/platform/logger"
	"passreg/internal/platform/middleware"
	"passreg/internal/platform/postgres"
	"passreg/internal/platform/redis"
)

// peopleStore is what main wires for passports: the lifecycle store plus the
// group-membership counter the group module consults before deletion.
type peopleStore interface {
	passportservice.Store
	groupservice.PersonCounter
}

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal services; postgres and redis are optional, with
// in-memory fallbacks for development.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var (
		adminStore    adminservice.Store
		groupStore    groupservice.Store
		people        peopleStore
		activityStore activity.Store
	)
	if db != nil {
		adminStore = adminstore.NewPostgres(db)
		groupStore = groupstore.NewPostgres(db)
		people = passportstore.NewPostgres(db)
		activityStore = activity.NewPostgresStore(db)
		log.Info("using postgres stores")
	} else {
		adminStore = adminstore.NewInMemory()
		groupStore = groupstore.NewInMemory()
		people = passportstore.NewInMemory()
		activityStore = activity.NewInMemoryStore()
		log.Warn("postgres not configured; using in-memory stores")
	}

	blobStore, err := assets.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Error("failed to prepare upload directory", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}
	pipeline := assets.NewPipeline(blobStore, log)

	publisher := activity.NewPublisher(activityStore, log)
	adminSvc := adminservice.New(adminStore, publisher)
	activitySvc := activity.NewService(activityStore, adminSvc, log)
	groupSvc := groupservice.New(groupStore, people, publisher)
	passportSvc := passportservice.New(
		people,
		groupSvc,
		pipeline,
		publiccache.New(redisClient, cfg.PublicCacheTTL, log),
		publisher,
		passportmetrics.New(),
		log,
		cfg.PublicBaseURL,
	)

	resolver := identity.NewJWTResolver(cfg.JWTSigningKey, adminSvc)

	passportHandler := passporthandler.New(passportSvc, log)

	router := chi.NewRouter()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.RequestTime,
		middleware.Logger(log),
	)

	// Public surface: passport pages by public id, assets, health, metrics.
	passportHandler.RegisterPublic(router)
	router.Route("/uploads", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		}))
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(blobStore.Root())))
		r.Handle("/*", fs)
	})
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.Handler())

	// Authenticated surface.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(resolver, log))
		grouphandler.New(groupSvc, log).Register(r)
		passportHandler.Register(r)
		activity.NewHandler(activitySvc, log).Register(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireMainAdmin(log))
			adminhandler.New(adminSvc, log).Register(r)
		})
	})

	scheduler := expiry.New(passportSvc, cfg.ExpiryCronSpec, expiry.NewMetrics(), log)
	if err := scheduler.Start(ctx); err != nil {
		log.Error("failed to start expiration scheduler", "cron", cfg.ExpiryCronSpec, "error", err)
		os.Exit(1)
	}

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting passreg server", "addr", cfg.Addr, "public_base_url", cfg.PublicBaseURL)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		scheduler.Stop(shutdownCtx)
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server terminated", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
