package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRequiresEndpoint(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("Expected error for missing endpoint")
	}
}

func TestTranslateRoundTrip(t *testing.T) {
	var gotReq translateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Missing auth header, got %q", auth)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(translateResponse{TranslatedText: "hello", DetectedSource: "hi"})
	}))
	defer srv.Close()

	c, err := New(Config{Endpoint: srv.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := c.Translate(context.Background(), "नमस्ते", "en")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "hello" {
		t.Errorf("Got %q", out)
	}
	if gotReq.Dest != "en" {
		t.Errorf("Expected dest en, got %q", gotReq.Dest)
	}
}

func TestTranslateServiceErrorIsFinal(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(translateResponse{Error: &apiError{Message: "quota exceeded", Code: 403}})
	}))
	defer srv.Close()

	c, _ := New(Config{Endpoint: srv.URL})
	_, err := c.Translate(context.Background(), "text", "en")
	if err == nil {
		t.Fatal("Expected service error")
	}
	if calls != 1 {
		t.Errorf("Service errors must not retry, got %d calls", calls)
	}
}

func TestTranslateValidation(t *testing.T) {
	c, _ := New(Config{Endpoint: "http://localhost:1"})
	if _, err := c.Translate(context.Background(), "", "en"); err == nil {
		t.Error("Expected error for empty text")
	}
	if _, err := c.Translate(context.Background(), "text", ""); err == nil {
		t.Error("Expected error for empty destination language")
	}
}
