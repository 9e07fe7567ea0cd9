package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/engine/internal/models"
	"github.com/taskhive/engine/internal/repository"
)

func TestSuggestNothingPending(t *testing.T) {
	got := suggest(nil, time.Now())
	require.Equal(t, "You don't have any pending tasks. Great job! Consider adding some new tasks to stay productive.", got)
}

func TestSuggestOverdueWinsOverHighPriority(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(4 * time.Hour)
	pending := []models.Task{
		{Title: "Finish report", DueDate: &past, Priority: models.PriorityLow},
		{Title: "Prep meeting", DueDate: &future, Priority: models.PriorityHigh},
	}
	got := suggest(pending, now)
	require.Equal(t, `You have 1 overdue task(s). Focus on completing "Finish report" first to catch up.`, got)
}

func TestSuggestHighPriority(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(4 * time.Hour)
	later := now.Add(8 * time.Hour)
	pending := []models.Task{
		{Title: "Prep meeting", DueDate: &future, Priority: models.PriorityHigh},
		{Title: "Water plants", DueDate: &later, Priority: models.PriorityLow},
	}
	got := suggest(pending, now)
	require.Equal(t, `You have 1 high-priority task(s). Consider working on "Prep meeting" next.`, got)
}

func TestSuggestNextDueDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	soon := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	later := time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)
	pending := []models.Task{
		{Title: "Water plants", DueDate: &later, Priority: models.PriorityLow},
		{Title: "Pay rent", DueDate: &soon, Priority: models.PriorityMedium},
	}
	got := suggest(pending, now)
	require.Equal(t, `Your next task "Pay rent" is due on Jun 2, 2025. Plan your time accordingly!`, got)
}

func TestSuggestServiceQueriesPendingScope(t *testing.T) {
	repo := new(mockTaskRepository)
	svc := NewSuggestionService(repo)

	scope := repository.Scope{}
	repo.On("ListPending", mock.Anything, scope).Return([]models.Task{}, nil)

	got, err := svc.Suggest(context.Background(), scope, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, got)
	repo.AssertExpectations(t)
}
