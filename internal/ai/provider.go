// Package ai provides the generation gateway: a provider abstraction over
// the hosted LLM API with a fixed candidate-model chain and transient-error
// backoff.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// CompletionRequest is the input to a single model call.
type CompletionRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

// CompletionResponse is the output of a single model call.
type CompletionResponse struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// Provider is the interface a hosted model API must implement.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// ErrUnavailable means every candidate model failed or returned unusable
// output. Callers must treat it as "use fallback content", never as fatal.
var ErrUnavailable = errors.New("generation unavailable")

// TransientError marks a rate-limit/overload class failure: the gateway
// backs off and advances to the next candidate model instead of aborting.
type TransientError struct {
	Status int
	Err    error
}

func (e *TransientError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transient provider error (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("transient provider error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether an error belongs to the rate-limit/overload
// class. Besides the typed wrapper it sniffs the message the way the
// original service classified SDK exceptions.
func IsTransient(err error) bool {
	var transient *TransientError
	if errors.As(err, &transient) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "quota", "rate", "overload"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
