package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fabuabedbl-oss/askora-ai-service/internal/ai"
)

func geminiTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestGoogleProvider_Complete(t *testing.T) {
	srv := geminiTestServer(t, http.StatusOK, `{
		"candidates": [{"content": {"parts": [{"text": "الشرح المطلوب"}]}}],
		"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 34}
	}`)
	defer srv.Close()

	provider := ai.NewGoogleProvider("test-key", ai.WithGoogleBaseURL(srv.URL))
	resp, err := provider.Complete(context.Background(), ai.CompletionRequest{
		Model:  "gemini-2.5-flash-lite",
		Prompt: "اشرح البرمجة",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "الشرح المطلوب" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.InputTokens != 12 || resp.OutputTokens != 34 {
		t.Errorf("tokens = %d/%d, want 12/34", resp.InputTokens, resp.OutputTokens)
	}
}

func TestGoogleProvider_RateLimitIsTransient(t *testing.T) {
	srv := geminiTestServer(t, http.StatusTooManyRequests, `{"error": "quota exhausted"}`)
	defer srv.Close()

	provider := ai.NewGoogleProvider("test-key", ai.WithGoogleBaseURL(srv.URL))
	_, err := provider.Complete(context.Background(), ai.CompletionRequest{Model: "m", Prompt: "p"})
	if err == nil {
		t.Fatal("Complete() error = nil, want transient error")
	}

	var transient *ai.TransientError
	if !errors.As(err, &transient) {
		t.Fatalf("error = %v, want *TransientError", err)
	}
	if transient.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want 429", transient.Status)
	}
}

func TestGoogleProvider_HardErrorIsNotTransient(t *testing.T) {
	srv := geminiTestServer(t, http.StatusBadRequest, `{"error": "invalid argument"}`)
	defer srv.Close()

	provider := ai.NewGoogleProvider("test-key", ai.WithGoogleBaseURL(srv.URL))
	_, err := provider.Complete(context.Background(), ai.CompletionRequest{Model: "m", Prompt: "p"})
	if err == nil {
		t.Fatal("Complete() error = nil, want error")
	}
	if ai.IsTransient(err) {
		t.Errorf("IsTransient(%v) = true, want false", err)
	}
}

func TestGoogleProvider_EmptyCandidates(t *testing.T) {
	srv := geminiTestServer(t, http.StatusOK, `{"candidates": []}`)
	defer srv.Close()

	provider := ai.NewGoogleProvider("test-key", ai.WithGoogleBaseURL(srv.URL))
	if _, err := provider.Complete(context.Background(), ai.CompletionRequest{Model: "m", Prompt: "p"}); err == nil {
		t.Fatal("Complete() error = nil, want error for empty candidates")
	}
}
