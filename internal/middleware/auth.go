package middleware

import (
	"log/slog"
	"net/http"

	"docshare/internal/httputil"
	"docshare/internal/service"
)

// Authenticate resolves the bearer credential (when present) into an
// app-side user record and stores it on the request context.
//
// Requests without an Authorization header pass through anonymously;
// whether anonymity is acceptable is each handler's decision. A token
// that is present but fails verification is rejected here with 401 so
// no handler ever sees a half-authenticated request.
func Authenticate(resolver *service.IdentityResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := httputil.BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				logger.Debug("credential rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "Invalid token. Please login again.")
				return
			}

			next.ServeHTTP(w, httputil.WithUser(r, user))
		})
	}
}
