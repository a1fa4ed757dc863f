// Package llm delegates report assessment to a hosted chat-completion model.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Engine is a chat-completion backend. Complete returns the raw message
// content of the model's reply.
type Engine interface {
	Name() string
	GetModel() string
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Prompt is one system+user exchange.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
	JSON        bool // ask the provider for a JSON object reply
}

// Engines holds the configured backends by provider.
type Engines struct {
	OpenAI Engine
	XAI    Engine
	Gemini Engine
}

// GetEngine resolves a provider name to its engine.
func (e *Engines) GetEngine(provider string) (Engine, error) {
	var eng Engine
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "openai", "gpt":
		eng = e.OpenAI
	case "xai", "grok":
		eng = e.XAI
	case "gemini":
		eng = e.Gemini
	default:
		return nil, fmt.Errorf("unknown provider %q; use openai | xai | gemini", provider)
	}
	if eng == nil {
		return nil, fmt.Errorf("provider %q is not configured", provider)
	}
	return eng, nil
}
