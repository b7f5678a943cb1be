package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"docshare/internal/domain"
	"docshare/internal/domain/models"
	"docshare/internal/httputil"
)

// handleError maps domain errors to HTTP responses. Unexpected errors are
// logged and masked with a generic message so internals never leak to
// clients.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized access. Please login.")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("request timed out", "error", err)
		httputil.RespondError(w, http.StatusGatewayTimeout, "Request timed out. Please try again.")
	case errors.Is(err, domain.ErrUpstream):
		logger.Error("upstream dependency failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// requireUser fetches the authenticated user from the request context,
// writing a 401 response when the request is anonymous.
func requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user := httputil.GetUser(r)
	if user == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized access. Please login.")
		return nil, false
	}
	return user, true
}
