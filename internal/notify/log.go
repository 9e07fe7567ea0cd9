package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is a single delivered reminder. Owner scopes the entry to the user
// whose task produced it and never crosses the wire; the open variant runs
// with the zero owner throughout.
type Entry struct {
	Owner   uuid.UUID `json:"-"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Log is a bounded, ordered, in-memory reminder history. It belongs to the
// API layer, not the task core: dropping the oldest entries on overflow is
// acceptable because every band is recomputable from the store.
type Log struct {
	mu      sync.Mutex
	max     int
	entries []Entry
}

// NewLog creates a log holding at most max entries.
func NewLog(max int) *Log {
	if max < 1 {
		max = 1
	}
	return &Log{max: max}
}

// Append records a reminder for an owner, evicting the oldest entry when
// full.
func (l *Log) Append(owner uuid.UUID, kind, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Owner: owner, Kind: kind, Message: message, At: time.Now()})
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
}

// Entries returns a copy of the owner's history, newest first. Reminders are
// only ever visible through the session of the user whose task raised them.
func (l *Log) Entries(owner uuid.UUID) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Entry
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].Owner == owner {
			out = append(out, l.entries[i])
		}
	}
	return out
}

// Len reports the number of retained entries across all owners.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
