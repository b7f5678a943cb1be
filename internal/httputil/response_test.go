package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondDataEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondData(rec, http.StatusCreated, map[string]string{"id": "abc"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}

	var env struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
		Message string            `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if !env.Success {
		t.Error("success = false, want true")
	}
	if env.Data["id"] != "abc" {
		t.Errorf("data = %v", env.Data)
	}
	if env.Message != "" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestRespondErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusNotFound, "File not found")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if env.Success {
		t.Error("success = true, want false")
	}
	if env.Message != "File not found" {
		t.Errorf("message = %q", env.Message)
	}
	if env.Data != nil {
		t.Errorf("unexpected data %v", env.Data)
	}
}

func TestRespondMessageEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondMessage(rec, http.StatusOK, "File deleted successfully")

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if !env.Success || env.Message != "File deleted successfully" {
		t.Errorf("envelope = %+v", env)
	}
}
