// Package notify classifies tasks relative to the current time for
// reminder purposes. Everything here is a pure function of the task's due
// date, its completed flag, and a caller-supplied clock reading; nothing is
// persisted and bands are recomputed on demand.
package notify

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/taskhive/engine/internal/models"
)

const (
	// DefaultHorizon is the look-ahead window for upcoming tasks.
	DefaultHorizon = 24 * time.Hour

	// dueSoonWindow is the band within which a task warrants an immediate
	// reminder rather than a heads-up.
	dueSoonWindow = 2 * time.Hour
)

// Band is the reminder classification of a task at a point in time.
type Band int

const (
	BandNone Band = iota
	BandOverdue
	BandDueSoon
	BandUpcoming
)

func (b Band) String() string {
	switch b {
	case BandOverdue:
		return "overdue"
	case BandDueSoon:
		return "due_soon"
	case BandUpcoming:
		return "upcoming"
	}
	return "none"
}

// Classify places a task into a reminder band. Completed tasks and tasks
// without a due date are always BandNone. A task due exactly now counts as
// overdue; due_soon starts strictly after the deadline passes into the
// future.
func Classify(t models.Task, now time.Time, horizon time.Duration) Band {
	if t.Completed || t.DueDate == nil {
		return BandNone
	}
	until := t.DueDate.Sub(now)
	switch {
	case until <= 0:
		return BandOverdue
	case until <= dueSoonWindow:
		return BandDueSoon
	case until <= horizon:
		return BandUpcoming
	}
	return BandNone
}

// Upcoming returns the incomplete tasks due within [now, now+horizon],
// ascending by due date.
func Upcoming(tasks []models.Task, now time.Time, horizon time.Duration) []models.Task {
	end := now.Add(horizon)
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed || t.DueDate == nil {
			continue
		}
		if t.DueDate.Before(now) || t.DueDate.After(end) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(*out[j].DueDate)
	})
	return out
}

// Next picks the task to act on first: any overdue task (earliest due date
// first) wins over any high-priority pending task, which wins over the
// chronologically nearest remaining task. Returns nil when nothing is
// pending.
func Next(tasks []models.Task, now time.Time) *models.Task {
	var overdue, high, nearest *models.Task
	for i := range tasks {
		t := &tasks[i]
		if t.Completed {
			continue
		}
		if t.DueDate != nil && t.DueDate.Before(now) {
			if overdue == nil || t.DueDate.Before(*overdue.DueDate) {
				overdue = t
			}
			continue
		}
		if t.Priority == models.PriorityHigh {
			if high == nil || earlier(t, high) {
				high = t
			}
		}
		if nearest == nil || earlier(t, nearest) {
			nearest = t
		}
	}
	switch {
	case overdue != nil:
		return overdue
	case high != nil:
		return high
	}
	return nearest
}

// earlier orders by due date with nil dates sorting last.
func earlier(a, b *models.Task) bool {
	switch {
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	}
	return a.DueDate.Before(*b.DueDate)
}

// Message renders the reminder text for a task, matching the wording shown
// to end users.
func Message(t models.Task, now time.Time, horizon time.Duration) string {
	switch Classify(t, now, horizon) {
	case BandOverdue:
		return fmt.Sprintf("Task %q is overdue!", t.Title)
	case BandDueSoon:
		minutes := int(math.Round(t.DueDate.Sub(now).Minutes()))
		return fmt.Sprintf("Task %q is due in %d minutes!", t.Title, minutes)
	case BandUpcoming:
		hours := int(math.Round(t.DueDate.Sub(now).Hours()))
		return fmt.Sprintf("Task %q is due in %d hours", t.Title, hours)
	}
	return ""
}
