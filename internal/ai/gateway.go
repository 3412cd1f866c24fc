package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultModels is the fixed candidate preference order. The cheaper model
// leads; the heavier one is the overflow candidate.
var DefaultModels = []string{
	"gemini-2.5-flash-lite",
	"gemini-2.5-flash",
}

const (
	defaultBackoff     = 1 * time.Second
	defaultCallTimeout = 30 * time.Second
)

// GatewayConfig holds the dependencies and tuning of a Gateway.
type GatewayConfig struct {
	Provider    Provider
	Models      []string      // candidate models in preference order
	Backoff     time.Duration // wait before advancing past a transient failure
	CallTimeout time.Duration // per-model call bound
	Sleep       func(time.Duration)
}

// Gateway turns a prompt into text by trying candidate models in a fixed
// preference order. A transient failure (rate limit, overload) waits one
// backoff and advances to the next candidate; any other failure aborts
// immediately. Either way the caller sees ErrUnavailable, never the raw
// provider error as a fatal condition.
type Gateway struct {
	provider    Provider
	models      []string
	backoff     time.Duration
	callTimeout time.Duration
	sleep       func(time.Duration)
}

// NewGateway creates a gateway with defaults filled in.
func NewGateway(cfg GatewayConfig) *Gateway {
	g := &Gateway{
		provider:    cfg.Provider,
		models:      cfg.Models,
		backoff:     cfg.Backoff,
		callTimeout: cfg.CallTimeout,
		sleep:       cfg.Sleep,
	}
	if len(g.models) == 0 {
		g.models = DefaultModels
	}
	if g.backoff == 0 {
		g.backoff = defaultBackoff
	}
	if g.callTimeout == 0 {
		g.callTimeout = defaultCallTimeout
	}
	if g.sleep == nil {
		g.sleep = time.Sleep
	}
	return g
}

// Generate runs the candidate chain for a prompt and returns the cleaned
// text of the first usable completion.
func (g *Gateway) Generate(ctx context.Context, prompt string) (string, error) {
	for _, model := range g.models {
		text, err := g.completeOne(ctx, model, prompt)
		if err == nil {
			if text == "" {
				// Usable transport, unusable content: try the next model
				// without burning a backoff.
				slog.Warn("model returned empty completion", "model", model)
				continue
			}
			return text, nil
		}

		if IsTransient(err) {
			slog.Warn("model overloaded, backing off and advancing",
				"model", model,
				"backoff", g.backoff,
				"error", err,
			)
			g.sleep(g.backoff)
			continue
		}

		slog.Error("generation aborted", "model", model, "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return "", fmt.Errorf("%w: all candidate models exhausted", ErrUnavailable)
}

func (g *Gateway) completeOne(ctx context.Context, model, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	resp, err := g.provider.Complete(callCtx, CompletionRequest{Model: model, Prompt: prompt})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(StripFences(resp.Content)), nil
}
