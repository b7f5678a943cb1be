package httputil

import (
	"errors"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"docshare/internal/domain"
)

func TestParseJSONRejectsMalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/courses", strings.NewReader("{not json"))

	var dest map[string]interface{}
	err := ParseJSON(rec, req, &dest)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "present", query: "page=3", want: 3},
		{name: "absent falls back", query: "", want: 1},
		{name: "malformed falls back", query: "page=abc", want: 1},
		{name: "negative passes through", query: "page=-2", want: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/files?"+tt.query, nil)
			if got := QueryInt(req, "page", 1); got != tt.want {
				t.Errorf("QueryInt = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestQueryTags(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/files?tags=math,%20week1%20,,", nil)
	got := QueryTags(req, "tags")
	want := []string{"math", "week1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("QueryTags = %v, want %v", got, want)
	}

	req = httptest.NewRequest("GET", "/api/files", nil)
	if got := QueryTags(req, "tags"); got != nil {
		t.Errorf("expected nil for absent parameter, got %v", got)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "missing header", header: "", want: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/files", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := BearerToken(req); got != tt.want {
				t.Errorf("BearerToken = %q, want %q", got, tt.want)
			}
		})
	}
}
