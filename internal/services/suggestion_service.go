package services

import (
	"context"
	"fmt"
	"time"

	"github.com/taskhive/engine/internal/models"
	"github.com/taskhive/engine/internal/repository"
)

// SuggestionService produces the "smart suggestion" string shown in the
// client. It is a canned-template dispatch over the pending task set, not an
// inference component.
type SuggestionService interface {
	Suggest(ctx context.Context, scope repository.Scope, now time.Time) (string, error)
}

type suggestionCategory int

const (
	suggestNothingPending suggestionCategory = iota
	suggestOverdue
	suggestHighPriority
	suggestNextDue
)

var suggestionTemplates = map[suggestionCategory]string{
	suggestNothingPending: "You don't have any pending tasks. Great job! Consider adding some new tasks to stay productive.",
	suggestOverdue:        "You have %d overdue task(s). Focus on completing %q first to catch up.",
	suggestHighPriority:   "You have %d high-priority task(s). Consider working on %q next.",
	suggestNextDue:        "Your next task %q is due on %s. Plan your time accordingly!",
}

type suggestionService struct {
	repo repository.TaskRepository
}

func NewSuggestionService(repo repository.TaskRepository) SuggestionService {
	return &suggestionService{repo: repo}
}

var _ SuggestionService = (*suggestionService)(nil)

func (s *suggestionService) Suggest(ctx context.Context, scope repository.Scope, now time.Time) (string, error) {
	pending, err := s.repo.ListPending(ctx, scope)
	if err != nil {
		return "", err
	}
	return suggest(pending, now), nil
}

// suggest picks the category and fills its template. Pending tasks arrive
// ordered by due date ascending, so the first match per category is also the
// most urgent one.
func suggest(pending []models.Task, now time.Time) string {
	if len(pending) == 0 {
		return suggestionTemplates[suggestNothingPending]
	}

	var overdue, high []models.Task
	for _, t := range pending {
		if t.DueDate != nil && t.DueDate.Before(now) {
			overdue = append(overdue, t)
		}
		if t.Priority == models.PriorityHigh {
			high = append(high, t)
		}
	}

	switch {
	case len(overdue) > 0:
		return fmt.Sprintf(suggestionTemplates[suggestOverdue], len(overdue), overdue[0].Title)
	case len(high) > 0:
		return fmt.Sprintf(suggestionTemplates[suggestHighPriority], len(high), high[0].Title)
	}

	next := pending[0]
	for _, t := range pending[1:] {
		if next.DueDate == nil || (t.DueDate != nil && t.DueDate.Before(*next.DueDate)) {
			next = t
		}
	}
	return fmt.Sprintf(suggestionTemplates[suggestNextDue], next.Title, formatDueDate(next))
}

func formatDueDate(t models.Task) string {
	if t.DueDate == nil {
		return "no due date"
	}
	return t.DueDate.Format("Jan 2, 2006")
}
