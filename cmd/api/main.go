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

	"github.com/Dan9191/fincalc/internal/config"
	"github.com/Dan9191/fincalc/internal/handler"
	"github.com/Dan9191/fincalc/internal/integrations/cbr"
	"github.com/Dan9191/fincalc/internal/middleware"
	"github.com/Dan9191/fincalc/internal/repository"
	"github.com/Dan9191/fincalc/internal/scheduler"
	"github.com/Dan9191/fincalc/internal/service"
	"github.com/Dan9191/fincalc/internal/utils/email"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Key rate feed
	store := repository.NewRateStore()
	var refresher *scheduler.RateRefresher
	if cfg.KeyRateEnabled {
		refresher, err = scheduler.NewRateRefresher(cfg.KeyRateSchedule, cbr.NewClient(cfg, logger), store, logger)
		if err != nil {
			logger.Fatalf("Failed to create key rate scheduler: %v", err)
		}
		refresher.Start()
	} else {
		logger.Info("Key rate feed disabled")
	}

	// Initialize layers
	mailer := email.NewSender(cfg, logger)
	if !mailer.Enabled() {
		logger.Info("SMTP not configured, plan emails disabled")
	}
	svc := service.NewService(logger, store)
	h := handler.NewHandler(svc, mailer, logger)

	// Setup router
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	middleware.Instrument(r)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	defer limiter.Stop()

	var root http.Handler = r
	root = middleware.RateLimit(limiter)(root)
	root = middleware.CORS(cfg.AllowedOrigins())(root)
	root = middleware.Logging(logger)(root)
	root = middleware.RequestID(root)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      root,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
	if refresher != nil {
		refresher.Stop(shutdownCtx)
	}
	logger.Info("Server stopped")
}
