package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"binduty-service/internal/api"
	"binduty-service/internal/auth"
	"binduty-service/internal/config"
	"binduty-service/internal/db"
	"binduty-service/internal/kafka"
	"binduty-service/internal/logging"
	"binduty-service/internal/models"
	"binduty-service/internal/notification"
	"binduty-service/internal/providers"
	"binduty-service/internal/repo"
	"binduty-service/internal/seed"
	"binduty-service/internal/services"
	"binduty-service/internal/store"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the document store
	st, err := store.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Errorf("Failed to connect to redis: %v", err)
		log.Fatalf("Redis connection failed: %v", err)
	}
	defer st.Close()

	if cfg.Seed.File != "" {
		f, err := seed.Load(cfg.Seed.File)
		if err != nil {
			log.Fatalf("Seed load failed: %v", err)
		}
		if err := seed.Apply(ctx, st, f, logger); err != nil {
			log.Fatalf("Seed apply failed: %v", err)
		}
	}

	// Optional delivery archive
	var archive notification.Archive
	var deliveries api.DeliveryLister
	if cfg.DB.DSN != "" {
		dbConn, err := db.New(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Errorf("Failed to connect to database: %v", err)
			log.Fatalf("Database connection failed: %v", err)
		}
		defer dbConn.Close()
		if err := dbConn.EnsureSchema(ctx); err != nil {
			log.Fatalf("Database schema failed: %v", err)
		}
		archive = dbConn
		deliveries = dbConn
		logger.Info("Delivery archive enabled")
	}

	// Channel providers
	set := providers.New(cfg, logger)
	senders := set.ByChannel()
	if set.Telegram.Enabled() {
		senders[models.ChannelTelegram] = set.Telegram
	}
	dispatcher := notification.New(senders, repo.NewHistory(st, time.Now), archive, logger, cfg.Notification.SendTimeout)

	// Initialize reminder service
	svc := services.New(services.Deps{
		Store:      st,
		Dispatcher: dispatcher,
		Tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Logger:     logger,
		Config:     cfg,
	})
	var wg sync.WaitGroup
	svc.Start(&wg)

	// Initialize Kafka consumer
	var consumer *kafka.Consumer
	if cfg.Kafka.Broker != "" {
		consumer, err = kafka.NewConsumer(kafka.Config{
			Broker:  cfg.Kafka.Broker,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}, svc, logger)
		if err != nil {
			log.Fatalf("Kafka consumer failed: %v", err)
		}
		consumer.Start(ctx, &wg)
	}

	// Start API server
	handler := api.NewHandler(svc, deliveries, logger, cfg)
	srv := &http.Server{
		Addr:    cfg.API.Port,
		Handler: api.NewRouter(handler, logger, cfg),
	}
	go func() {
		logger.Infof("Starting API server on %s", cfg.API.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("API server failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("API shutdown failed: %v", err)
	}
	cancel()
	if consumer != nil {
		consumer.Close()
	}
	svc.Stop()
	wg.Wait()
	logger.Info("Service stopped")
}
