package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/suPer8Hu/health-triage/internal/locale"
	"github.com/suPer8Hu/health-triage/internal/prompt"
)

const (
	DefaultTemperature     float32 = 0.7
	DefaultMaxOutputTokens         = 1024
)

var (
	ErrNotConfigured = errors.New("generation service not configured")
	ErrEmptyReply    = errors.New("generation service returned no text")
)

// GenerationError is the only error Gateway.Send returns. Callers fall back
// to the offline engine on it.
type GenerationError struct {
	Cause string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return "generation failed: " + e.Cause
	}
	return "generation failed: " + e.Cause + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// HistoryTurn is a prior conversation message as the gateway sees it.
// Synthetic turns (the welcome message) are never sent.
type HistoryTurn struct {
	Role      Role
	Text      string
	Synthetic bool
}

// Gateway sends one generation request per call. It performs no retries and
// sets no deadline of its own.
type Gateway struct {
	provider        Provider
	temperature     float32
	maxOutputTokens int
}

type GatewayOption func(*Gateway)

func WithTemperature(t float32) GatewayOption {
	return func(g *Gateway) { g.temperature = t }
}

func WithMaxOutputTokens(n int) GatewayOption {
	return func(g *Gateway) {
		if n > 0 {
			g.maxOutputTokens = n
		}
	}
}

// NewGateway wraps p; a nil provider yields a gateway that always reports
// ErrNotConfigured.
func NewGateway(p Provider, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		provider:        p,
		temperature:     DefaultTemperature,
		maxOutputTokens: DefaultMaxOutputTokens,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *Gateway) Configured() bool { return g != nil && g.provider != nil }

// BuildRequest assembles the request Send would issue.
func (g *Gateway) BuildRequest(history []HistoryTurn, newUserText string, lang locale.Language) ChatRequest {
	turns := make([]Turn, 0, len(history)+1)
	for _, h := range history {
		if h.Synthetic {
			continue
		}
		turns = append(turns, Turn{Role: h.Role, Text: h.Text})
	}
	turns = append(turns, Turn{Role: RoleUser, Text: newUserText})
	return ChatRequest{
		SystemInstruction: prompt.BuildSystemInstruction(lang),
		Turns:             turns,
		Temperature:       g.temperature,
		MaxOutputTokens:   g.maxOutputTokens,
	}
}

// Send returns the reply text or a *GenerationError.
func (g *Gateway) Send(ctx context.Context, history []HistoryTurn, newUserText string, lang locale.Language) (string, error) {
	if !g.Configured() {
		return "", &GenerationError{Cause: "not configured", Err: ErrNotConfigured}
	}
	reply, err := g.provider.Chat(ctx, g.BuildRequest(history, newUserText, lang))
	if err != nil {
		return "", &GenerationError{Cause: "request failed", Err: err}
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", &GenerationError{Cause: "empty reply", Err: ErrEmptyReply}
	}
	return reply, nil
}
