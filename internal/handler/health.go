package handler

import (
	"net/http"

	"docshare/internal/httputil"
)

// Health reports liveness for load balancers and uptime checks.
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondData(w, http.StatusOK, map[string]string{"status": "ok"})
}
