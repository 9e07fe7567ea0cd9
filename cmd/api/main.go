package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/engine/internal/api"
	"github.com/taskhive/engine/internal/api/handlers"
	"github.com/taskhive/engine/internal/notify"
	"github.com/taskhive/engine/internal/queue/tasks"
	"github.com/taskhive/engine/internal/repository"
	"github.com/taskhive/engine/internal/services"
	"github.com/taskhive/engine/pkg/config"
	"github.com/taskhive/engine/pkg/database"
	"github.com/taskhive/engine/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("starting taskhive engine",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
		zap.Bool("auth_enabled", cfg.AuthEnabled),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.AppEnv == "development")
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	log.Info("database connected")

	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := services.NewAuthService(userRepo, taskRepo, []byte(cfg.JWTSecret), cfg.TokenTTL)
	// due dates are mandatory only in the account-scoped variant
	taskSvc := services.NewTaskService(taskRepo, cfg.AuthEnabled)
	suggestSvc := services.NewSuggestionService(taskRepo)

	reminderLog := notify.NewLog(cfg.NotifyLogSize)
	reminder := tasks.NewReminderTaskHandler(taskRepo, reminderLog, cfg.NotifyHorizon)
	go reminder.RunPeriodicScan(ctx, cfg.ReminderInterval)

	router := api.NewRouter(api.Dependencies{
		AuthEnabled:          cfg.AuthEnabled,
		Verifier:             authSvc,
		AuthHandler:          handlers.NewAuthHandler(authSvc),
		TasksHandler:         handlers.NewTasksHandler(taskSvc, suggestSvc, cfg.NotifyHorizon),
		NotificationsHandler: handlers.NewNotificationsHandler(reminderLog),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
