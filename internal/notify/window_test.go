package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskhive/engine/internal/models"
)

func due(t time.Time) *time.Time { return &t }

func TestUpcomingWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{Title: "in window", DueDate: due(now.Add(23 * time.Hour))},
		{Title: "completed", DueDate: due(now.Add(23 * time.Hour)), Completed: true},
		{Title: "overdue", DueDate: due(now.Add(-time.Hour))},
		{Title: "beyond horizon", DueDate: due(now.Add(25 * time.Hour))},
		{Title: "no due date"},
		{Title: "sooner", DueDate: due(now.Add(time.Hour))},
	}

	got := Upcoming(tasks, now, DefaultHorizon)
	require.Len(t, got, 2)
	require.Equal(t, "sooner", got[0].Title, "ascending by due date")
	require.Equal(t, "in window", got[1].Title)
}

func TestClassifyBands(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		task models.Task
		want Band
	}{
		{"overdue", models.Task{DueDate: due(now.Add(-time.Hour))}, BandOverdue},
		{"due exactly now", models.Task{DueDate: due(now)}, BandOverdue},
		{"due soon boundary", models.Task{DueDate: due(now.Add(2 * time.Hour))}, BandDueSoon},
		{"within an hour", models.Task{DueDate: due(now.Add(time.Hour))}, BandDueSoon},
		{"upcoming", models.Task{DueDate: due(now.Add(5 * time.Hour))}, BandUpcoming},
		{"horizon boundary", models.Task{DueDate: due(now.Add(24 * time.Hour))}, BandUpcoming},
		{"beyond horizon", models.Task{DueDate: due(now.Add(30 * time.Hour))}, BandNone},
		{"completed overdue", models.Task{DueDate: due(now.Add(-time.Hour)), Completed: true}, BandNone},
		{"no due date", models.Task{}, BandNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.task, now, DefaultHorizon))
		})
	}
}

func TestClassifyCompletionClearsBands(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	task := models.Task{Title: "Pay rent", Priority: models.PriorityHigh, DueDate: due(now.Add(time.Hour))}

	require.Equal(t, BandDueSoon, Classify(task, now, DefaultHorizon))

	task.Completed = true
	require.Equal(t, BandNone, Classify(task, now, DefaultHorizon))
}

func TestNextPrefersOverdueOverHighPriority(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{Title: "high not yet due", Priority: models.PriorityHigh, DueDate: due(now.Add(3 * time.Hour))},
		{Title: "low but overdue", Priority: models.PriorityLow, DueDate: due(now.Add(-2 * time.Hour))},
	}
	next := Next(tasks, now)
	require.NotNil(t, next)
	require.Equal(t, "low but overdue", next.Title)
}

func TestNextTieBreakOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("earliest overdue wins", func(t *testing.T) {
		tasks := []models.Task{
			{Title: "overdue recent", DueDate: due(now.Add(-time.Hour))},
			{Title: "overdue older", DueDate: due(now.Add(-3 * time.Hour))},
		}
		require.Equal(t, "overdue older", Next(tasks, now).Title)
	})

	t.Run("high priority beats nearest", func(t *testing.T) {
		tasks := []models.Task{
			{Title: "nearest medium", Priority: models.PriorityMedium, DueDate: due(now.Add(time.Hour))},
			{Title: "later high", Priority: models.PriorityHigh, DueDate: due(now.Add(6 * time.Hour))},
		}
		require.Equal(t, "later high", Next(tasks, now).Title)
	})

	t.Run("falls back to nearest due", func(t *testing.T) {
		tasks := []models.Task{
			{Title: "later", Priority: models.PriorityMedium, DueDate: due(now.Add(8 * time.Hour))},
			{Title: "sooner", Priority: models.PriorityLow, DueDate: due(now.Add(2 * time.Hour))},
		}
		require.Equal(t, "sooner", Next(tasks, now).Title)
	})

	t.Run("completed tasks never selected", func(t *testing.T) {
		tasks := []models.Task{
			{Title: "done", Completed: true, DueDate: due(now.Add(-time.Hour))},
		}
		require.Nil(t, Next(tasks, now))
	})
}

func TestMessageWording(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	overdue := models.Task{Title: "Pay rent", DueDate: due(now.Add(-time.Hour))}
	require.Equal(t, `Task "Pay rent" is overdue!`, Message(overdue, now, DefaultHorizon))

	soon := models.Task{Title: "Pay rent", DueDate: due(now.Add(90 * time.Minute))}
	require.Equal(t, `Task "Pay rent" is due in 90 minutes!`, Message(soon, now, DefaultHorizon))

	later := models.Task{Title: "Pay rent", DueDate: due(now.Add(5 * time.Hour))}
	require.Equal(t, `Task "Pay rent" is due in 5 hours`, Message(later, now, DefaultHorizon))

	done := models.Task{Title: "Pay rent", DueDate: due(now.Add(-time.Hour)), Completed: true}
	require.Empty(t, Message(done, now, DefaultHorizon))
}
