package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskhive/engine/internal/queue/tasks"
	"github.com/taskhive/engine/internal/repository"
	"github.com/taskhive/engine/pkg/config"
	"github.com/taskhive/engine/pkg/database"
	"github.com/taskhive/engine/pkg/logger"
)

// zapSink delivers worker reminders to the structured log; operators tail it
// or ship it instead of holding an in-process history.
type zapSink struct{}

func (zapSink) Append(owner uuid.UUID, kind, message string) {
	logger.L().Info("reminder",
		zap.String("owner_id", owner.String()),
		zap.String("kind", kind),
		zap.String("message", message),
	)
}

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}

	db, err := database.Open(context.Background(), cfg.DatabaseURL, cfg.AppEnv == "development")
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	taskRepo := repository.NewTaskRepository(db)
	handler := tasks.NewReminderTaskHandler(taskRepo, zapSink{}, cfg.NotifyHorizon)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.AsynqConcurrency,
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReminderScan, handler.HandleScan)

	scheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := scheduler.Register(fmt.Sprintf("@every %s", cfg.ReminderInterval), tasks.NewReminderScanTask()); err != nil {
		log.Fatal("register reminder schedule failed", zap.Error(err))
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("asynq worker starting", zap.Int("concurrency", cfg.AsynqConcurrency))
		if err := srv.Run(mux); err != nil {
			errCh <- err
		}
	}()
	go func() {
		log.Info("reminder scheduler starting", zap.Duration("interval", cfg.ReminderInterval))
		if err := scheduler.Run(); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("worker stopped with error", zap.Error(err))
	}

	scheduler.Shutdown()
	srv.Shutdown()
}
