package main

import (
	"io"
	"log/slog"
	"strings"

	"report-checker/api/internal/config"
	"report-checker/api/internal/llm"
	"report-checker/api/internal/llm/gemini"
	"report-checker/api/internal/llm/openai"
	"report-checker/api/internal/metrics"
	"report-checker/api/internal/review"
)

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// buildReviewer injects the credential and engine for cfg.Provider. The
// rules provider gets no engine.
func buildReviewer(cfg *config.Config, log *slog.Logger, m *metrics.Metrics) (*review.Reviewer, error) {
	opts := review.Options{Provider: cfg.Provider, Logger: log, Metrics: m}
	if !cfg.UsesModel() {
		return review.New(opts), nil
	}

	system, err := llm.LoadSystemPrompt(cfg.PromptDir)
	if err != nil {
		return nil, err
	}
	engines := &llm.Engines{
		OpenAI: openai.New(config.ProviderOpenAI, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL),
		XAI:    openai.New(config.ProviderXAI, cfg.XAIAPIKey, cfg.XAIModel, cfg.XAIBaseURL),
		Gemini: gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
	}
	eng, err := engines.GetEngine(cfg.Provider)
	if err != nil {
		return nil, err
	}

	opts.APIKey = cfg.APIKey()
	opts.Assessor = &llm.Assessor{
		Engine: eng,
		Prompter: llm.Prompter{
			System:      system,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		},
	}
	if opts.APIKey == "" {
		log.Warn("provider API key is not set; check requests will fail with 500", "provider", cfg.Provider)
	}
	return review.New(opts), nil
}
