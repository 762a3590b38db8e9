package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/Dan9191/card-entry-service/internal/binlookup"
	"github.com/Dan9191/card-entry-service/internal/config"
	"github.com/Dan9191/card-entry-service/internal/handler"
	"github.com/Dan9191/card-entry-service/internal/middleware"
	"github.com/Dan9191/card-entry-service/internal/repository"
	"github.com/Dan9191/card-entry-service/internal/service"
	"github.com/Dan9191/card-entry-service/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	directory := binlookup.NewDirectoryClient(cfg, logger)
	verifier := binlookup.NewCachedVerifier(repo, directory, logger)
	alerts := email.NewSender(cfg, logger)
	svc := service.NewService(repo, verifier, alerts, logger, cfg)
	h := handler.NewHandler(svc)

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/sessions", h.CreateSession).Methods("POST")
	authRouter.HandleFunc("/sessions/{id}", h.GetSession).Methods("GET")
	authRouter.HandleFunc("/sessions/{id}", h.DeleteSession).Methods("DELETE")
	authRouter.HandleFunc("/sessions/{id}/input", h.FrontInput).Methods("POST")
	authRouter.HandleFunc("/sessions/{id}/keypad/digits", h.KeypadDigit).Methods("POST")
	authRouter.HandleFunc("/sessions/{id}/keypad/delete", h.KeypadDelete).Methods("POST")
	authRouter.HandleFunc("/sessions/{id}/keypad/toggle", h.ToggleKeypad).Methods("POST")
	authRouter.HandleFunc("/sessions/{id}/segment", h.SetActiveSegment).Methods("POST")

	// Background jobs
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 5m", func() {
		svc.SweepIdleSessions(cfg.SessionTTL)
	}); err != nil {
		logger.Fatalf("Failed to schedule session sweep: %v", err)
	}
	if _, err := scheduler.AddFunc("@daily", func() {
		n, err := repo.PruneBINCache(30 * 24 * time.Hour)
		if err != nil {
			logger.Errorf("BIN cache prune failed: %v", err)
			return
		}
		logger.Infof("Pruned %d BIN cache entries", n)
	}); err != nil {
		logger.Fatalf("Failed to schedule BIN cache prune: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
