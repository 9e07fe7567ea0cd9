package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive/engine/internal/models"
	"github.com/taskhive/engine/internal/notify"
	"github.com/taskhive/engine/internal/repository"
	appErr "github.com/taskhive/engine/pkg/errors"
	"github.com/taskhive/engine/pkg/logger"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// Service interface and related DTOs
type TaskService interface {
	List(ctx context.Context, scope repository.Scope, filters *TaskFilters, sort *TaskSort) ([]models.Task, error)
	Get(ctx context.Context, scope repository.Scope, id uuid.UUID) (*models.Task, error)
	Create(ctx context.Context, scope repository.Scope, input *CreateTaskInput) (*models.Task, error)
	Update(ctx context.Context, scope repository.Scope, id uuid.UUID, input *UpdateTaskInput) (*models.Task, error)
	Delete(ctx context.Context, scope repository.Scope, id uuid.UUID) error

	// Derived time-window queries
	Upcoming(ctx context.Context, scope repository.Scope, now time.Time, horizon time.Duration) ([]models.Task, error)
	Next(ctx context.Context, scope repository.Scope, now time.Time) (*models.Task, error)
}

// TaskFilters narrows List results; nil fields impose no constraint.
type TaskFilters struct {
	Completed *bool
	Priority  *models.Priority
}

// TaskSort orders List results; the zero value means newest first.
type TaskSort struct {
	Field string
	Desc  bool
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

// UpdateTaskInput is a partial update: nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *string
	Completed   *bool
	DueDate     *time.Time
}

type taskService struct {
	repo           repository.TaskRepository
	requireDueDate bool
}

// NewTaskService builds the task service. requireDueDate matches the
// account-scoped product variant, where every task carries a due date.
func NewTaskService(repo repository.TaskRepository, requireDueDate bool) TaskService {
	return &taskService{repo: repo, requireDueDate: requireDueDate}
}

var _ TaskService = (*taskService)(nil)

func (s *taskService) List(ctx context.Context, scope repository.Scope, filters *TaskFilters, sort *TaskSort) ([]models.Task, error) {
	var rf repository.TaskFilter
	if filters != nil {
		rf.Completed = filters.Completed
		rf.Priority = filters.Priority
	}
	rs := repository.TaskSort{Field: "created_at", Desc: true}
	if sort != nil && sort.Field != "" {
		if !repository.SortableField(sort.Field) {
			return nil, appErr.Invalid("task listing failed", []string{fmt.Sprintf("cannot sort by %q", sort.Field)})
		}
		rs = repository.TaskSort{Field: sort.Field, Desc: sort.Desc}
	}
	return s.repo.List(ctx, scope, rf, rs)
}

func (s *taskService) Get(ctx context.Context, scope repository.Scope, id uuid.UUID) (*models.Task, error) {
	var t models.Task
	if err := s.repo.Get(ctx, scope, id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *taskService) Create(ctx context.Context, scope repository.Scope, input *CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	var violations []string
	if title == "" {
		violations = append(violations, "title is required")
	} else if len(title) > maxTitleLen {
		violations = append(violations, fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}
	if len(description) > maxDescriptionLen {
		violations = append(violations, fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	}
	priority := models.PriorityMedium
	if input.Priority != "" {
		priority = models.Priority(input.Priority)
		if !priority.Valid() {
			violations = append(violations, "priority must be one of low, medium, high")
		}
	}
	if s.requireDueDate && input.DueDate == nil {
		violations = append(violations, "due date is required")
	}
	if len(violations) > 0 {
		return nil, appErr.Invalid("task validation failed", violations)
	}

	t := models.Task{
		Title:       title,
		Description: description,
		Priority:    priority,
		DueDate:     input.DueDate,
		OwnerID:     scope.OwnerID,
	}
	if err := s.repo.Create(ctx, &t); err != nil {
		return nil, err
	}

	logger.L().Info("task created", zap.String("task_id", t.ID.String()), zap.String("owner_id", t.OwnerID.String()))
	return &t, nil
}

func (s *taskService) Update(ctx context.Context, scope repository.Scope, id uuid.UUID, input *UpdateTaskInput) (*models.Task, error) {
	fields := map[string]any{}
	var violations []string

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		switch {
		case title == "":
			violations = append(violations, "title is required")
		case len(title) > maxTitleLen:
			violations = append(violations, fmt.Sprintf("title must be at most %d characters", maxTitleLen))
		default:
			fields["title"] = title
		}
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if len(description) > maxDescriptionLen {
			violations = append(violations, fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
		} else {
			fields["description"] = description
		}
	}
	if input.Priority != nil {
		priority := models.Priority(*input.Priority)
		if !priority.Valid() {
			violations = append(violations, "priority must be one of low, medium, high")
		} else {
			fields["priority"] = priority
		}
	}
	if input.Completed != nil {
		fields["completed"] = *input.Completed
	}
	if input.DueDate != nil {
		fields["due_date"] = *input.DueDate
	}
	if len(violations) > 0 {
		return nil, appErr.Invalid("task validation failed", violations)
	}

	var t models.Task
	if err := s.repo.UpdateFields(ctx, scope, id, fields, &t); err != nil {
		return nil, err
	}

	logger.L().Info("task updated", zap.String("task_id", id.String()), zap.Int("fields", len(fields)))
	return &t, nil
}

func (s *taskService) Delete(ctx context.Context, scope repository.Scope, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, scope, id); err != nil {
		return err
	}
	logger.L().Info("task deleted", zap.String("task_id", id.String()))
	return nil
}

func (s *taskService) Upcoming(ctx context.Context, scope repository.Scope, now time.Time, horizon time.Duration) ([]models.Task, error) {
	if horizon <= 0 {
		horizon = notify.DefaultHorizon
	}
	return s.repo.ListPendingDueBetween(ctx, scope, now, now.Add(horizon))
}

func (s *taskService) Next(ctx context.Context, scope repository.Scope, now time.Time) (*models.Task, error) {
	pending, err := s.repo.ListPending(ctx, scope)
	if err != nil {
		return nil, err
	}
	return notify.Next(pending, now), nil
}
