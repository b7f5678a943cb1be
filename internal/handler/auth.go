package handler

import (
	"log/slog"
	"net/http"

	"docshare/internal/httputil"
	"docshare/internal/service"
)

// AuthHandler serves login and profile endpoints.
type AuthHandler struct {
	userService *service.UserService
	logger      *slog.Logger
}

func NewAuthHandler(userService *service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger.With("handler", "auth"),
	}
}

// Login completes a Supabase sign-in. The middleware has already verified
// the token and provisioned the local profile, so this endpoint just
// returns it.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	httputil.RespondData(w, http.StatusOK, user)
}

// GetProfile handles GET /api/auth/profile.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), user.ID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req service.UpdateProfileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	profile, err := h.userService.UpdateProfile(r.Context(), user.ID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, profile)
}
