package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/coachdesk/coachdesk-api/api/swagger"
	"github.com/coachdesk/coachdesk-api/internal/handler"
	"github.com/coachdesk/coachdesk-api/internal/middleware"
	"github.com/coachdesk/coachdesk-api/internal/service"
	"github.com/coachdesk/coachdesk-api/internal/store"
	"github.com/coachdesk/coachdesk-api/pkg/config"
	"github.com/coachdesk/coachdesk-api/pkg/logger"
	corsmiddleware "github.com/coachdesk/coachdesk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/coachdesk/coachdesk-api/pkg/middleware/requestid"
	"github.com/coachdesk/coachdesk-api/pkg/storage"
)

// @title CoachDesk API
// @version 0.1.0
// @description Coaching institute management: enrollment intake, payments, students, ledger
// @BasePath /
// @schemes http

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

	metrics := service.NewMetricsService()

	stores, err := store.Open(cfg.Store.DataDir, store.Options{
		Logger:  logr,
		Metrics: metrics,
		Watch:   cfg.Store.Watch,
	})
	if err != nil {
		logr.Sugar().Fatalw("failed to open stores", "error", err)
	}
	defer stores.Close() //nolint:errcheck

	validate := validator.New()

	enrollmentSvc := service.NewEnrollmentService(stores.Enrollments, validate, logr)
	conversionSvc := service.NewConversionService(stores.Enrollments, stores.Students, cfg.Intake.DefaultStudentPassword, logr)
	studentSvc := service.NewStudentService(stores.Students, validate, logr)
	ledgerSvc := service.NewLedgerService(stores.Enrollments, stores.Students, metrics, logr)
	authSvc := service.NewAuthService(stores.Students, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	files, err := storage.NewLocalStorage(cfg.Receipts.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init receipt storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Receipts.SignedURLSecret, cfg.Receipts.SignedURLTTL)
	receiptSvc := service.NewReceiptService(stores.Students, ledgerSvc, files, signer, service.ReceiptServiceConfig{
		Currency:   cfg.Intake.CurrencyLabel,
		Workers:    cfg.Receipts.WorkerConcurrency,
		MaxRetries: cfg.Receipts.WorkerRetries,
		Logger:     logr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	receiptSvc.Start(ctx)
	defer receiptSvc.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics, stores)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc, conversionSvc),
		Students:    handler.NewStudentHandler(studentSvc, receiptSvc),
		Ledger:      handler.NewLedgerHandler(ledgerSvc, receiptSvc),
		Metrics:     metricsHandler,
		Stores:      stores,
		AuthService: authSvc,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "data_dir", cfg.Store.DataDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
