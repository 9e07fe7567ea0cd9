package notify

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestLogBounded(t *testing.T) {
	owner := uuid.New()
	l := NewLog(3)
	for i := 0; i < 5; i++ {
		l.Append(owner, "upcoming", fmt.Sprintf("message %d", i))
	}
	entries := l.Entries(owner)
	require.Len(t, entries, 3)
	require.Equal(t, "message 4", entries[0].Message, "newest first")
	require.Equal(t, "message 2", entries[2].Message, "oldest retained")
}

func TestLogEntriesFilteredByOwner(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	l := NewLog(10)
	l.Append(alice, "overdue", "alice reminder")
	l.Append(bob, "due_soon", "bob reminder")
	l.Append(alice, "upcoming", "another alice reminder")

	got := l.Entries(alice)
	require.Len(t, got, 2)
	for _, e := range got {
		require.Equal(t, alice, e.Owner)
	}

	require.Len(t, l.Entries(bob), 1)
	require.Empty(t, l.Entries(uuid.New()), "unknown owner sees nothing")
	require.Equal(t, 3, l.Len())
}

func TestLogZeroOwnerIsItsOwnBucket(t *testing.T) {
	// the open variant appends and reads with the zero uuid
	l := NewLog(10)
	l.Append(uuid.Nil, "due_soon", "shared-instance reminder")
	l.Append(uuid.New(), "overdue", "someone else's reminder")

	got := l.Entries(uuid.Nil)
	require.Len(t, got, 1)
	require.Equal(t, "shared-instance reminder", got[0].Message)
}

func TestLogConcurrentAppend(t *testing.T) {
	owner := uuid.New()
	l := NewLog(100)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				l.Append(owner, "due_soon", fmt.Sprintf("worker %d message %d", n, j))
			}
		}(i)
	}
	wg.Wait()
	require.Equal(t, 100, l.Len())
}
