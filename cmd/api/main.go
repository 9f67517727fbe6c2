package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Prathams-org/AI-in-Edutech-sub000/api/swagger"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/handler"
	internalmiddleware "github.com/Prathams-org/AI-in-Edutech-sub000/internal/middleware"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/repository"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/service"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/cache"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/config"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/database"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/jobs"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/logger"
	corsmiddleware "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/middleware/requestid"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/storage"
)

// @title Edutech Classrooms API
// @version 1.0.0
// @description Classroom, membership and teacher collaboration service
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close() //nolint:errcheck

	documents := repository.NewDocumentRepository(db)
	identityRepo := repository.NewIdentityRepository(db)
	sessions := repository.NewSessionRepository(redisClient)
	limiter := repository.NewSignInLimiter(redisClient, cfg.Auth.MaxSignInAttempts, cfg.Auth.SignInWindow)
	cacheRepo := repository.NewCacheRepository(redisClient)

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.ClassroomTTL, logr, cfg.Cache.Enabled)
	identity := service.NewIdentityService(identityRepo, sessions, limiter, logr, service.IdentityConfig{
		TokenSecret: cfg.JWT.Secret,
		Issuer:      cfg.JWT.Issuer,
		TokenTTL:    cfg.JWT.Expiration,
	})
	accounts := service.NewAccountService(documents, identity, metrics, logr)
	classrooms := service.NewClassroomService(documents, cacheSvc, cfg.Classrooms.SlugAttempts, logr)
	membership := service.NewMembershipService(documents, cacheSvc, metrics, logr)
	collaboration := service.NewCollaborationService(documents, metrics, logr)

	handlers := handler.Handlers{
		Auth:          handler.NewAuthHandler(accounts),
		Classrooms:    handler.NewClassroomHandler(classrooms, collaboration),
		Membership:    handler.NewMembershipHandler(membership),
		Collaboration: handler.NewCollaborationHandler(collaboration),
	}

	var exportQueue *jobs.Queue
	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Fatal("failed to prepare export storage", zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		worker := service.NewRosterExportWorker(documents, membership, files, signer, metrics, logr)
		exportQueue = jobs.NewQueue("roster-exports", worker.Handle, jobs.QueueConfig{
			Workers:     cfg.Exports.WorkerConcurrency,
			MaxRetries:  cfg.Exports.WorkerRetries,
			OnExhausted: worker.MarkFailed,
			Logger:      logr,
		})
		exportQueue.Start(ctx)

		exports := service.NewRosterExportService(documents, files, signer, exportQueue, metrics, logr, service.RosterExportConfig{
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
		})
		exports.RecoverPendingJobs(ctx)
		exports.StartCleanup(ctx)
		handlers.Exports = handler.NewExportHandler(exports, cfg.APIPrefix+"/exports/download")
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	ops := handler.NewMetricsHandler(metrics, map[string]handler.Pinger{
		"postgres": handler.PingFunc(db.PingContext),
		"redis":    cacheRepo,
	})
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handlers, identity, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	if exportQueue != nil {
		exportQueue.Stop()
	}
}
