package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/engine/internal/api/types"
	"github.com/taskhive/engine/internal/models"
	"github.com/taskhive/engine/internal/repository"
	"github.com/taskhive/engine/internal/services"
	appErr "github.com/taskhive/engine/pkg/errors"
)

// Mock implementations
type mockTaskService struct {
	mock.Mock
}

func (m *mockTaskService) List(ctx context.Context, scope repository.Scope, filters *services.TaskFilters, sort *services.TaskSort) ([]models.Task, error) {
	args := m.Called(ctx, scope, filters, sort)
	if v := args.Get(0); v != nil {
		return v.([]models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) Get(ctx context.Context, scope repository.Scope, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, scope, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) Create(ctx context.Context, scope repository.Scope, input *services.CreateTaskInput) (*models.Task, error) {
	args := m.Called(ctx, scope, input)
	if v := args.Get(0); v != nil {
		return v.(*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) Update(ctx context.Context, scope repository.Scope, id uuid.UUID, input *services.UpdateTaskInput) (*models.Task, error) {
	args := m.Called(ctx, scope, id, input)
	if v := args.Get(0); v != nil {
		return v.(*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) Delete(ctx context.Context, scope repository.Scope, id uuid.UUID) error {
	args := m.Called(ctx, scope, id)
	return args.Error(0)
}

func (m *mockTaskService) Upcoming(ctx context.Context, scope repository.Scope, now time.Time, horizon time.Duration) ([]models.Task, error) {
	args := m.Called(ctx, scope, now, horizon)
	if v := args.Get(0); v != nil {
		return v.([]models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) Next(ctx context.Context, scope repository.Scope, now time.Time) (*models.Task, error) {
	args := m.Called(ctx, scope, now)
	if v := args.Get(0); v != nil {
		return v.(*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

var _ services.TaskService = (*mockTaskService)(nil)

type mockSuggestionService struct {
	mock.Mock
}

func (m *mockSuggestionService) Suggest(ctx context.Context, scope repository.Scope, now time.Time) (string, error) {
	args := m.Called(ctx, scope, now)
	return args.String(0), args.Error(1)
}

var _ services.SuggestionService = (*mockSuggestionService)(nil)

func newTasksRouter(svc services.TaskService, sugg services.SuggestionService) http.Handler {
	h := NewTasksHandler(svc, sugg, 24*time.Hour)
	r := chi.NewRouter()
	r.Route("/tasks", func(tr chi.Router) {
		tr.Get("/", h.List)
		tr.Post("/", h.Create)
		tr.Get("/upcoming", h.Upcoming)
		tr.Get("/next", h.Next)
		tr.Get("/suggestions", h.Suggestions)
		tr.Get("/{id}", h.Get)
		tr.Put("/{id}", h.Update)
		tr.Delete("/{id}", h.Delete)
	})
	return r
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) types.APIResponse {
	t.Helper()
	var resp types.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestCreateTaskReturns201(t *testing.T) {
	svc := new(mockTaskService)
	svc.On("Create", mock.Anything, repository.Scope{}, mock.AnythingOfType("*services.CreateTaskInput")).
		Return(&models.Task{ID: uuid.New(), Title: "Pay rent", Priority: models.PriorityMedium}, nil)

	body := bytes.NewBufferString(`{"title":"Pay rent"}`)
	req := httptest.NewRequest(http.MethodPost, "/tasks/", body)
	rr := httptest.NewRecorder()
	newTasksRouter(svc, new(mockSuggestionService)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	resp := decodeResponse(t, rr)
	require.True(t, resp.Success)
}

func TestCreateTaskValidationErrorListsViolations(t *testing.T) {
	svc := new(mockTaskService)
	svc.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, appErr.Invalid("task validation failed", []string{"title is required", "priority must be one of low, medium, high"}))

	req := httptest.NewRequest(http.MethodPost, "/tasks/", bytes.NewBufferString(`{"priority":"urgent"}`))
	rr := httptest.NewRecorder()
	newTasksRouter(svc, new(mockSuggestionService)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeResponse(t, rr)
	require.False(t, resp.Success)
	require.Equal(t, "invalid", resp.Error.Code)
	require.Len(t, resp.Error.Details, 2, "all violations reported together")
}

func TestGetTaskMalformedIDIs404(t *testing.T) {
	svc := new(mockTaskService)

	req := httptest.NewRequest(http.MethodGet, "/tasks/not-a-uuid", nil)
	rr := httptest.NewRecorder()
	newTasksRouter(svc, new(mockSuggestionService)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteMissingTaskIs404(t *testing.T) {
	svc := new(mockTaskService)
	id := uuid.New()
	svc.On("Delete", mock.Anything, repository.Scope{}, id).
		Return(appErr.New(appErr.CodeNotFound, "task not found"))

	req := httptest.NewRequest(http.MethodDelete, "/tasks/"+id.String(), nil)
	rr := httptest.NewRecorder()
	newTasksRouter(svc, new(mockSuggestionService)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	resp := decodeResponse(t, rr)
	require.Equal(t, "not_found", resp.Error.Code)
}

func TestListParsesFilters(t *testing.T) {
	svc := new(mockTaskService)
	svc.On("List", mock.Anything, repository.Scope{}, mock.MatchedBy(func(f *services.TaskFilters) bool {
		return f.Completed != nil && !*f.Completed && f.Priority != nil && *f.Priority == models.PriorityHigh
	}), mock.Anything).Return([]models.Task{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/tasks/?completed=false&priority=high", nil)
	rr := httptest.NewRecorder()
	newTasksRouter(svc, new(mockSuggestionService)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestListRejectsBadPriorityFilter(t *testing.T) {
	svc := new(mockTaskService)

	req := httptest.NewRequest(http.MethodGet, "/tasks/?priority=urgent", nil)
	rr := httptest.NewRecorder()
	newTasksRouter(svc, new(mockSuggestionService)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpcomingRejectsBadHorizon(t *testing.T) {
	svc := new(mockTaskService)

	req := httptest.NewRequest(http.MethodGet, "/tasks/upcoming?horizon=yesterday", nil)
	rr := httptest.NewRecorder()
	newTasksRouter(svc, new(mockSuggestionService)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpcomingPassesCustomHorizon(t *testing.T) {
	svc := new(mockTaskService)
	svc.On("Upcoming", mock.Anything, repository.Scope{}, mock.Anything, 2*time.Hour).
		Return([]models.Task{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/tasks/upcoming?horizon=2h", nil)
	rr := httptest.NewRecorder()
	newTasksRouter(svc, new(mockSuggestionService)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestSuggestionsReturnsString(t *testing.T) {
	sugg := new(mockSuggestionService)
	sugg.On("Suggest", mock.Anything, repository.Scope{}, mock.Anything).
		Return("You don't have any pending tasks. Great job! Consider adding some new tasks to stay productive.", nil)

	req := httptest.NewRequest(http.MethodGet, "/tasks/suggestions", nil)
	rr := httptest.NewRecorder()
	newTasksRouter(new(mockTaskService), sugg).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeResponse(t, rr)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, data["suggestion"])
}

func TestUpdateParsesPartialBody(t *testing.T) {
	svc := new(mockTaskService)
	id := uuid.New()
	svc.On("Update", mock.Anything, repository.Scope{}, id, mock.MatchedBy(func(in *services.UpdateTaskInput) bool {
		return in.Completed != nil && *in.Completed && in.Title == nil
	})).Return(&models.Task{ID: id, Completed: true}, nil)

	req := httptest.NewRequest(http.MethodPut, "/tasks/"+id.String(), bytes.NewBufferString(`{"completed":true}`))
	rr := httptest.NewRecorder()
	newTasksRouter(svc, new(mockSuggestionService)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}
