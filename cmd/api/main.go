package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace-platform/internal/audit"
	"marketplace-platform/internal/auth"
	"marketplace-platform/internal/catalog"
	"marketplace-platform/internal/config"
	"marketplace-platform/internal/httpapi"
	"marketplace-platform/internal/rbac"
	"marketplace-platform/internal/seed"
	"marketplace-platform/internal/storage"
	"marketplace-platform/internal/tenant"
	"marketplace-platform/pkg/logger"
	"marketplace-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	identityRepo := auth.NewPostgresRepo(db)
	tenantRepo := tenant.NewPostgresRepo(db)
	productRepo := catalog.NewPostgresRepo(db)
	auditSvc := audit.NewService(audit.NewPostgresRepo(db))

	limiter, err := auth.NewRedisLoginLimiter(rdb, cfg.Auth.LoginAttemptLimit, cfg.Auth.LoginAttemptWindow)
	if err != nil {
		log.Error("login limiter init failed", "err", err)
		os.Exit(1)
	}

	authSvc, err := auth.NewService(identityRepo, tenantRepo, tokens, limiter, auth.ServiceOptions{
		DefaultRoles:      []string{string(rbac.RoleCustomer)},
		MinPasswordLength: cfg.Auth.MinPasswordLength,
		RoleValid:         rbac.IsValidRole,
	})
	if err != nil {
		log.Error("auth service init failed", "err", err)
		os.Exit(1)
	}

	var store storage.ObjectStore
	if cfg.S3.Bucket != "" {
		s3, err := storage.NewS3Store(cfg.S3)
		if err != nil {
			log.Error("s3 init failed", "err", err)
			os.Exit(1)
		}
		store = s3
	} else {
		// Local runs without object storage keep uploads in memory.
		store = storage.NewMemoryStore()
		log.Warn("S3 not configured; uploads are not durable")
	}

	cache, err := catalog.NewListingCache(rdb, 30*time.Second)
	if err != nil {
		log.Error("listing cache init failed", "err", err)
		os.Exit(1)
	}
	catalogSvc := catalog.NewService(productRepo, store, auditSvc, cache)

	if cfg.App.Env == "local" || cfg.App.Env == "dev" {
		if err := seed.Demo(rootCtx, log, tenantRepo, authSvc, catalogSvc); err != nil {
			log.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(auth.Authenticate(tokens, publicPaths...))

	registerRoutes(r, httpapi.Handlers{
		Auth:    authSvc,
		Catalog: catalogSvc,
		Audit:   auditSvc,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
