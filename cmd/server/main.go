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

	"pickle-admin/config"
	"pickle-admin/internal/api"
	"pickle-admin/internal/broker"
	"pickle-admin/internal/service"
	"pickle-admin/internal/store"
	"pickle-admin/internal/util"
	"pickle-admin/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting pickle-admin")

	tp, err := util.InitTracer("pickle-admin", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	kv, err := newKV(cfg)
	if err != nil {
		log.Fatalf("Failed to connect storage backend: %v", err)
	}
	st := store.New(kv, cfg.Storage.KeyPrefix)
	defer st.Close()
	log.Printf("Storage connected: backend=%s", cfg.Storage.Backend)

	var eventPublisher *broker.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		eventPublisher = broker.NewEventPublisher(producer)
		log.Println("Kafka producer initialized")
	}

	statsService := service.NewStatsService(st, eventPublisher)
	orderService := service.NewOrderService(st, statsService, eventPublisher, cfg.Business.TaxRate)
	analyticsService := service.NewAnalyticsService(st, cfg.Business.LowStockThreshold)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	reconciler := worker.NewReconciler(statsService, cfg.Business.ReconcileInterval)
	go func() {
		if err := reconciler.Start(workerCtx); err != nil && err != context.Canceled {
			log.Printf("Reconciler error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(st, orderService, statsService, analyticsService)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()

	log.Println("Server exited")
}

func newKV(cfg *config.Config) (store.KV, error) {
	switch cfg.Storage.Backend {
	case "postgres":
		return store.NewPostgresKV(cfg.Storage.DatabaseURL)
	case "redis":
		return store.NewRedisKV(cfg.Storage.RedisAddr, cfg.Storage.RedisPassword, cfg.Storage.RedisDB)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
