package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/taskhive/engine/internal/api/middleware"
	"github.com/taskhive/engine/internal/api/types"
	"github.com/taskhive/engine/internal/api/validators"
	"github.com/taskhive/engine/internal/models"
	"github.com/taskhive/engine/internal/services"
	appErr "github.com/taskhive/engine/pkg/errors"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func userPayload(u *models.User) map[string]any {
	return map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, types.APIResponse{
		Success: true,
		Data: map[string]any{
			"token": token,
			"user":  userPayload(user),
		},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data: map[string]any{
			"token": token,
			"user":  userPayload(user),
		},
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			// token subject no longer exists; session is stale
			writeError(w, appErr.New(appErr.CodeUnauthorized, "invalid or expired token"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]any{"user": userPayload(user)}})
}

func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.auth.DeleteAccount(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]string{"message": "account deleted"}})
}
