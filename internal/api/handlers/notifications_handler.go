package handlers

import (
	"net/http"

	"github.com/taskhive/engine/internal/api/middleware"
	"github.com/taskhive/engine/internal/api/types"
	"github.com/taskhive/engine/internal/notify"
)

type NotificationsHandler struct {
	log *notify.Log
}

func NewNotificationsHandler(log *notify.Log) *NotificationsHandler {
	return &NotificationsHandler{log: log}
}

// List returns the session user's reminder history, newest first. The open
// variant resolves to the zero owner, matching its unowned tasks.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := h.log.Entries(middleware.GetUserID(r.Context()))
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: entries, Meta: &types.Meta{Total: int64(len(entries))}})
}
