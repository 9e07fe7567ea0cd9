package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority is the task urgency level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the enumerated priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a single to-do item. OwnerID is the zero UUID in the open (no
// accounts) variant; every query in the scoped variant filters on it.
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text;not null;default:''" json:"description"`
	Priority    Priority   `gorm:"type:varchar(16);not null;default:'medium';index" json:"priority"`
	Completed   bool       `gorm:"not null;default:false;index" json:"completed"`
	DueDate     *time.Time `gorm:"index" json:"due_date,omitempty"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
