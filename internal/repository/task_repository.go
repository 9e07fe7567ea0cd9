package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskhive/engine/internal/models"
	appErr "github.com/taskhive/engine/pkg/errors"
)

// TaskFilter narrows a task listing. Nil fields impose no constraint;
// present fields combine as an AND-conjunction.
type TaskFilter struct {
	Completed *bool
	Priority  *models.Priority
}

// TaskSort orders a task listing. An empty Field means most-recently-created
// first.
type TaskSort struct {
	Field string
	Desc  bool
}

var sortableFields = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"due_date":   "due_date",
	"priority":   "priority",
	"title":      "title",
}

// SortableField reports whether tasks can be ordered by the given field.
func SortableField(f string) bool {
	_, ok := sortableFields[f]
	return ok
}

// TaskRepository persists tasks. Every read and mutation takes a Scope so
// ownership cannot be bypassed by a caller-supplied filter.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	Get(ctx context.Context, scope Scope, id uuid.UUID, dest *models.Task) error
	List(ctx context.Context, scope Scope, filter TaskFilter, sort TaskSort) ([]models.Task, error)
	UpdateFields(ctx context.Context, scope Scope, id uuid.UUID, fields map[string]any, dest *models.Task) error
	Delete(ctx context.Context, scope Scope, id uuid.UUID) error
	ListPending(ctx context.Context, scope Scope) ([]models.Task, error)
	ListPendingDueBetween(ctx context.Context, scope Scope, from, to time.Time) ([]models.Task, error)
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

var _ TaskRepository = (*taskRepository)(nil)

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "create task failed")
	}
	return nil
}

func (r *taskRepository) Get(ctx context.Context, scope Scope, id uuid.UUID, dest *models.Task) error {
	tx := scope.apply(r.db.WithContext(ctx)).Where("id = ?", id)
	if err := tx.First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "task not found")
		}
		return appErr.Wrap(err, appErr.CodeUnavailable, "get task failed")
	}
	return nil
}

func (r *taskRepository) List(ctx context.Context, scope Scope, filter TaskFilter, sort TaskSort) ([]models.Task, error) {
	tx := scope.apply(r.db.WithContext(ctx))
	if filter.Completed != nil {
		tx = tx.Where("completed = ?", *filter.Completed)
	}
	if filter.Priority != nil {
		tx = tx.Where("priority = ?", *filter.Priority)
	}

	column, ok := sortableFields[sort.Field]
	if !ok {
		column, sort.Desc = "created_at", true
	}
	order := column + " ASC"
	if sort.Desc {
		order = column + " DESC"
	}

	var out []models.Task
	if err := tx.Order(order).Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "list tasks failed")
	}
	return out, nil
}

func (r *taskRepository) UpdateFields(ctx context.Context, scope Scope, id uuid.UUID, fields map[string]any, dest *models.Task) error {
	if len(fields) == 0 {
		return r.Get(ctx, scope, id, dest)
	}
	res := scope.apply(r.db.WithContext(ctx).Model(&models.Task{})).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeUnavailable, "update task failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "task not found")
	}
	return r.Get(ctx, scope, id, dest)
}

func (r *taskRepository) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	res := scope.apply(r.db.WithContext(ctx)).Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeUnavailable, "delete task failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "task not found")
	}
	return nil
}

func (r *taskRepository) ListPending(ctx context.Context, scope Scope) ([]models.Task, error) {
	var out []models.Task
	tx := scope.apply(r.db.WithContext(ctx)).Where("completed = false").Order("due_date ASC")
	if err := tx.Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "list pending tasks failed")
	}
	return out, nil
}

func (r *taskRepository) ListPendingDueBetween(ctx context.Context, scope Scope, from, to time.Time) ([]models.Task, error) {
	var out []models.Task
	tx := scope.apply(r.db.WithContext(ctx)).
		Where("completed = false").
		Where("due_date >= ? AND due_date <= ?", from, to).
		Order("due_date ASC")
	if err := tx.Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "list due tasks failed")
	}
	return out, nil
}

func (r *taskRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&models.Task{})
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeUnavailable, "delete tasks by owner failed")
	}
	return nil
}
