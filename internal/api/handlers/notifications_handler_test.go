package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/engine/internal/api/middleware"
	"github.com/taskhive/engine/internal/notify"
)

func TestNotificationsListOnlySessionOwner(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	log := notify.NewLog(10)
	log.Append(alice, "due_soon", `Task "alice secret project" is due in 60 minutes!`)
	log.Append(bob, "overdue", `Task "bob report" is overdue!`)
	h := NewNotificationsHandler(log)

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, bob)
	rr := httptest.NewRecorder()
	h.List(rr, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), "alice secret project")
	require.Contains(t, rr.Body.String(), "bob report")

	resp := decodeResponse(t, rr)
	items := resp.Data.([]any)
	require.Len(t, items, 1)
}

func TestNotificationsListEmptyForStrangers(t *testing.T) {
	log := notify.NewLog(10)
	log.Append(uuid.New(), "upcoming", `Task "someone's plan" is due in 5 hours`)
	h := NewNotificationsHandler(log)

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uuid.New())
	rr := httptest.NewRecorder()
	h.List(rr, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeResponse(t, rr)
	require.Nil(t, resp.Data)
}
