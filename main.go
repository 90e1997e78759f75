package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/preppal-app/coaching-service/internal/coach"
	"github.com/preppal-app/coaching-service/internal/config"
	"github.com/preppal-app/coaching-service/internal/events"
	"github.com/preppal-app/coaching-service/internal/handlers"
	"github.com/preppal-app/coaching-service/internal/repositories/redisstore"
	"github.com/preppal-app/coaching-service/internal/services"
	"github.com/preppal-app/coaching-service/internal/utils"
	"github.com/preppal-app/coaching-service/internal/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize the key-value store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := redisstore.NewStore(redisClient, cfg.KeyPrefix, slogLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := store.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to store: %v", err)
	}
	cancel()

	// Initialize the coaching client
	backend := coach.NewGeminiBackend(cfg.Gemini)
	generator := coach.NewClient(backend, slogLogger)

	// Initialize the event publisher
	var publisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventTopic, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize kafka publisher: %v", err)
		}
	} else {
		publisher = events.NewGoChannelPublisher(cfg.EventTopic, slogLogger)
	}

	// Initialize validator and services
	v := validator.New()
	serviceManager := services.NewServiceManager(store, generator, publisher, slogLogger, v)

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := serviceManager.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	if err := store.Close(); err != nil {
		log.Printf("Failed to close store: %v", err)
	}

	logger.Info("Server exited")
}
