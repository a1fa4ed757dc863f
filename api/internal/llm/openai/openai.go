// Package openai is a chat-completion engine for OpenAI-compatible APIs
// (OpenAI itself and xAI Grok).
package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"report-checker/api/internal/llm"
)

// Engine calls the chat completions endpoint of one OpenAI-compatible API.
type Engine struct {
	name   string
	APIKey string
	Model  string
	client *goopenai.Client
}

// New builds an engine. name tags errors and metrics ("openai", "xai").
// An empty baseURL means api.openai.com.
func New(name, key, model, baseURL string) *Engine {
	cfg := goopenai.DefaultConfig(strings.TrimSpace(key))
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	return &Engine{
		name:   name,
		APIKey: strings.TrimSpace(key),
		Model:  strings.TrimSpace(model),
		client: goopenai.NewClientWithConfig(cfg),
	}
}

func (e *Engine) Name() string     { return e.name }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Complete(ctx context.Context, p llm.Prompt) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("%s: API key is empty", e.name)
	}
	model := e.Model
	if model == "" {
		model = goopenai.GPT4oMini
	}

	req := goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: p.System},
			{Role: goopenai.ChatMessageRoleUser, Content: p.User},
		},
		Temperature: p.Temperature,
	}
	// reasoning models reject max_tokens and any temperature but 1
	if isReasoningModel(model) {
		req.MaxCompletionTokens = p.MaxTokens
		req.Temperature = 1
	} else {
		req.MaxTokens = p.MaxTokens
		if req.Temperature == 0 {
			// temperature is omitempty; a zero would fall back to the API default of 1
			req.Temperature = math.SmallestNonzeroFloat32
		}
	}
	if p.JSON {
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", e.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %s returned no choices", llm.ErrMalformedReply, e.name)
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("%w: %s returned empty content", llm.ErrMalformedReply, e.name)
	}
	return out, nil
}

// classify turns go-openai status errors into llm.UpstreamError.
func (e *Engine) classify(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &llm.UpstreamError{Engine: e.name, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		msg := ""
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &llm.UpstreamError{Engine: e.name, StatusCode: reqErr.HTTPStatusCode, Message: msg}
	}
	return fmt.Errorf("%s request: %w", e.name, err)
}

func isReasoningModel(model string) bool {
	m := strings.ToLower(model)
	return strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3") || strings.HasPrefix(m, "o4") || strings.Contains(m, "gpt-5")
}
