package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"docshare/internal/domain"
)

// ParseJSON decodes JSON from the request body into the given destination.
// It limits the request body size to prevent abuse and provides clear error messages.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	// Limit request body to 1MB; uploads go through multipart, not here
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", domain.ErrValidation, err)
	}

	return nil
}

// QueryInt reads an integer query parameter, falling back to def when
// absent or malformed (matching the original API's lenient parsing).
func QueryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// QueryTags splits a comma-separated tags parameter into trimmed,
// non-empty tags. Returns nil when the parameter is absent.
func QueryTags(r *http.Request, key string) []string {
	return SplitCommaList(r.URL.Query().Get(key))
}

// SplitCommaList splits a comma-separated value into trimmed, non-empty
// entries (the format the original API used for tags in query strings
// and multipart fields). Returns nil for an empty input.
func SplitCommaList(raw string) []string {
	if raw == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(item); t != "" {
			items = append(items, t)
		}
	}
	return items
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header, or "" when the header is absent or not a bearer scheme.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return header[len(prefix):]
}
