package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/taskhive/engine/internal/notify"
	"github.com/taskhive/engine/internal/repository"
	"github.com/taskhive/engine/pkg/logger"
)

// TypeReminderScan is the queue type for the periodic due-date scan.
const TypeReminderScan = "reminder:scan"

// NewReminderScanTask builds the task enqueued by the scheduler. The scan
// carries no payload; it always runs against the current clock.
func NewReminderScanTask() *asynq.Task {
	return asynq.NewTask(TypeReminderScan, nil)
}

// Sink receives rendered reminders, keyed by the owner of the task that
// raised them. The API process feeds its bounded notification log; the
// worker feeds the structured log.
type Sink interface {
	Append(owner uuid.UUID, kind, message string)
}

// ReminderTaskHandler scans the due-date window and emits one reminder per
// classified task. The scan is a repeated call to a stateless query; the
// task core itself schedules nothing.
type ReminderTaskHandler struct {
	repo    repository.TaskRepository
	sink    Sink
	horizon time.Duration
}

func NewReminderTaskHandler(repo repository.TaskRepository, sink Sink, horizon time.Duration) *ReminderTaskHandler {
	if horizon <= 0 {
		horizon = notify.DefaultHorizon
	}
	return &ReminderTaskHandler{repo: repo, sink: sink, horizon: horizon}
}

func (h *ReminderTaskHandler) HandleScan(ctx context.Context, t *asynq.Task) error {
	return h.Scan(ctx)
}

// Scan classifies every pending task due between one horizon in the past
// and one in the future, covering fresh overdues alongside upcoming ones.
func (h *ReminderTaskHandler) Scan(ctx context.Context) error {
	now := time.Now()
	pending, err := h.repo.ListPendingDueBetween(ctx, repository.Scope{}, now.Add(-h.horizon), now.Add(h.horizon))
	if err != nil {
		logger.L().Error("reminder scan failed", zap.Error(err))
		return err
	}

	emitted := 0
	for _, task := range pending {
		band := notify.Classify(task, now, h.horizon)
		if band == notify.BandNone {
			continue
		}
		h.sink.Append(task.OwnerID, band.String(), notify.Message(task, now, h.horizon))
		emitted++
	}

	logger.L().Debug("reminder scan complete", zap.Int("pending", len(pending)), zap.Int("emitted", emitted))
	return nil
}

// RunPeriodicScan drives Scan on a fixed interval until the context is
// canceled. The API process uses this to feed its notification log without
// a queue round trip.
func (h *ReminderTaskHandler) RunPeriodicScan(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = h.Scan(ctx)
		}
	}
}
