package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flytaxi/service-booking/internal/application"
	"github.com/flytaxi/service-booking/internal/cache"
	"github.com/flytaxi/service-booking/internal/config"
	"github.com/flytaxi/service-booking/internal/database"
	bookingDomain "github.com/flytaxi/service-booking/internal/domain/booking"
	bookingEvents "github.com/flytaxi/service-booking/internal/events"
	"github.com/flytaxi/service-booking/internal/handler"
	"github.com/flytaxi/service-booking/internal/logger"
	"github.com/flytaxi/service-booking/internal/messaging"
	"github.com/flytaxi/service-booking/internal/middleware"
	"github.com/flytaxi/service-booking/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "service-booking"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(&repository.BookingModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DB.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Connect to Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	// Initialize Kafka producer
	kafkaProducer := messaging.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories and stores
	bookingRepo := repository.NewGormBookingRepository(db)
	bookingCache := cache.NewBookingCache(redisClient, cfg.Booking.CacheTTL)
	draftStore := cache.NewRouteDraftStore(redisClient, cfg.Booking.DraftTTL)

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		bookingDomain.NewLinearPricingStrategy(),
		kafkaProducer,
		bookingCache,
		cfg.Booking.Currency,
		log,
	)
	draftService := application.NewRouteDraftService(draftStore, bookingService, log)

	// Initialize and start fleet event consumer in a goroutine
	groupID := cfg.Kafka.GroupPrefix + "booking-service"
	fleetConsumer := bookingEvents.NewFleetEventConsumer(
		cfg.Kafka.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = fleetConsumer.Close() }()

	go func() {
		log.Info("starting fleet event consumer")
		if err := fleetConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("fleet event consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := handler.NewHealthHandler(serviceName, map[string]handler.Checker{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})
	healthHandler.RegisterRoutes(router)

	// Register routes
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup)
	handler.NewDraftHandler(draftService).RegisterRoutes(&router.RouterGroup)
	handler.NewAdminBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
