package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskhive/engine/internal/api/middleware"
	"github.com/taskhive/engine/internal/api/types"
	"github.com/taskhive/engine/internal/models"
	"github.com/taskhive/engine/internal/repository"
	"github.com/taskhive/engine/internal/services"
	appErr "github.com/taskhive/engine/pkg/errors"
)

type TasksHandler struct {
	tasks       services.TaskService
	suggestions services.SuggestionService
	horizon     time.Duration
}

func NewTasksHandler(tasks services.TaskService, suggestions services.SuggestionService, horizon time.Duration) *TasksHandler {
	return &TasksHandler{tasks: tasks, suggestions: suggestions, horizon: horizon}
}

// requestScope derives the ownership scope from the session. Outside the
// authenticated variant there is no user id in context and the zero scope
// runs queries unrestricted.
func requestScope(r *http.Request) repository.Scope {
	return repository.Owned(middleware.GetUserID(r.Context()))
}

func taskID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		// malformed ids are indistinguishable from absent ones
		return uuid.Nil, appErr.New(appErr.CodeNotFound, "task not found")
	}
	return id, nil
}

func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filters services.TaskFilters
	if s := q.Get("completed"); s != "" {
		completed, err := strconv.ParseBool(s)
		if err != nil {
			writeBadRequest(w, "completed must be true or false")
			return
		}
		filters.Completed = &completed
	}
	if s := q.Get("priority"); s != "" {
		p := models.Priority(s)
		if !p.Valid() {
			writeBadRequest(w, "priority must be one of low, medium, high")
			return
		}
		filters.Priority = &p
	}

	var sort *services.TaskSort
	if f := q.Get("sort"); f != "" {
		sort = &services.TaskSort{Field: f, Desc: q.Get("order") != "asc"}
	}

	items, err := h.tasks.List(r.Context(), requestScope(r), &filters, sort)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}

	task, err := h.tasks.Create(r.Context(), requestScope(r), &services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: task})
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	task, err := h.tasks.Get(r.Context(), requestScope(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: task})
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req types.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}

	task, err := h.tasks.Update(r.Context(), requestScope(r), id, &services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: task})
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.tasks.Delete(r.Context(), requestScope(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]string{"message": "task deleted"}})
}

func (h *TasksHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	horizon := h.horizon
	if s := r.URL.Query().Get("horizon"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			writeBadRequest(w, "horizon must be a positive duration")
			return
		}
		horizon = d
	}
	items, err := h.tasks.Upcoming(r.Context(), requestScope(r), time.Now(), horizon)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}

func (h *TasksHandler) Next(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.Next(r.Context(), requestScope(r), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: task})
}

func (h *TasksHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestion, err := h.suggestions.Suggest(r.Context(), requestScope(r), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]string{"suggestion": suggestion}})
}
