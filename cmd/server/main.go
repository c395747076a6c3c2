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

	"gotransit/internal/config"
	"gotransit/internal/handlers"
	"gotransit/internal/jobs"
	"gotransit/internal/repositories/mongodb"
	"gotransit/internal/services"
	"gotransit/pkg/cache"
	"gotransit/pkg/database"
	"gotransit/pkg/logger"
	"gotransit/pkg/sms"
	"gotransit/pkg/storage"
	"gotransit/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongodb.EnsureIndexes(indexCtx, db.Database); err != nil {
		cancel()
		log.WithError(err).Fatal("Failed to ensure indexes")
	}
	cancel()

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	s3Storage, err := storage.NewAWSS3Storage(cfg.Storage.Region, cfg.Storage.Bucket, cfg.Storage.CDNDomain)
	if err != nil {
		log.WithError(err).Fatal("Failed to init S3 storage")
	}

	// Repositories
	userRepo := mongodb.NewUserRepository(db.Database)
	driverRepo := mongodb.NewDriverRepository(db.Database)
	busRepo := mongodb.NewBusRepository(db.Database)
	routeRepo := mongodb.NewRouteRepository(db.Database)
	rideRepo := mongodb.NewRideRepository(db.Database, redisCache)

	// Services
	emailService := services.NewEmailService(cfg.SMTP, log)
	smsProvider := sms.NewTwilioProvider(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.FromNumber)
	smsService := services.NewSMSService(smsProvider, log)
	storageService := services.NewStorageService(s3Storage, cfg.Storage)

	authService := services.NewAuthService(userRepo, redisCache, emailService, smsService, cfg.Security, cfg.SMS.Enabled, log)
	userService := services.NewUserService(userRepo, storageService, log)
	driverService := services.NewDriverService(driverRepo, busRepo, userRepo, db, log)
	busService := services.NewBusService(busRepo, routeRepo, driverRepo, log)
	routeService := services.NewRouteService(routeRepo, busRepo, log)
	rideService := services.NewRideService(rideRepo, busRepo, routeRepo, userRepo, cfg.Fare, cfg.Security.RideVerifyWindow, log)
	cleanupService := services.NewCleanupService(userRepo, rideRepo, cfg.Security.MaxOTPAttempts, cfg.Security.MaxOTPResends, cfg.Security.RideVerifyWindow, log)

	// Handlers
	h := &routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService, cfg.Security, cfg.App.Debug, log),
		User:   handlers.NewUserHandler(userService, cfg.App.Debug, log),
		Driver: handlers.NewDriverHandler(driverService, cfg.App.Debug, log),
		Bus:    handlers.NewBusHandler(busService, cfg.App.Debug, log),
		Route:  handlers.NewRouteHandler(routeService, cfg.App.Debug, log),
		Ride:   handlers.NewRideHandler(rideService, cfg.App.Debug, log),
	}

	router := routes.Setup(cfg, log, userRepo, h)

	scheduler := jobs.NewScheduler(cleanupService, cfg.Jobs, log)
	if err := scheduler.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start cleanup scheduler")
	}
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
}
