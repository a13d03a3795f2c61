package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/medtrack/bp-monitor/internal/auth"
	"github.com/medtrack/bp-monitor/internal/config"
	"github.com/medtrack/bp-monitor/internal/database"
	"github.com/medtrack/bp-monitor/internal/httpapi"
	"github.com/medtrack/bp-monitor/internal/logger"
	"github.com/medtrack/bp-monitor/internal/services"
	"github.com/medtrack/bp-monitor/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	logger.Info("Starting blood pressure monitor")

	db, err := database.New(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()
	logger.Info("Database connection established and migrations completed", "driver", cfg.DB.Driver)

	var sessions session.Store
	if cfg.Session.Backend == "redis" {
		redisStore, err := session.NewRedisManager(cfg.Session.RedisAddr, time.Duration(cfg.Session.TTLMinutes)*time.Minute)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisStore.Close()
		sessions = redisStore
	} else {
		sessions = session.NewManager()
	}

	// Initialize services
	patientService := services.NewPatientService(db)
	caregiverService := services.NewCaregiverService(db)
	measurementService := services.NewMeasurementService(db)
	authService := services.NewAuthService(caregiverService, auth.NewSource(cfg.AdminsFile), sessions)
	logger.Info("Services initialized successfully")

	server := httpapi.NewServer(patientService, caregiverService, measurementService, authService)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.Router(),
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
}
