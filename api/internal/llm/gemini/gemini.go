package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"report-checker/api/internal/llm"
)

// Engine calls Gemini generateContent with a JSON response type.
type Engine struct {
	APIKey string
	Model  string
}

// New builds a Gemini engine. The client is created per call.
func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Complete(ctx context.Context, p llm.Prompt) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	model := e.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	m := cl.GenerativeModel(model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(p.Temperature),
	}
	if p.MaxTokens > 0 {
		m.GenerationConfig.MaxOutputTokens = ptrInt32(int32(p.MaxTokens))
	}
	if p.JSON {
		m.GenerationConfig.ResponseMIMEType = "application/json"
	}
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(p.System)}}

	resp, err := m.GenerateContent(ctx, genai.Text(p.User))
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return "", &llm.UpstreamError{Engine: e.Name(), StatusCode: gerr.Code, Message: gerr.Message}
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	txt := strings.TrimSpace(firstText(resp))
	if txt == "" {
		return "", fmt.Errorf("%w: gemini returned empty response", llm.ErrMalformedReply)
	}
	return txt, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }
