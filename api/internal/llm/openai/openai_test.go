package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-checker/api/internal/llm"
)

func chatServer(t *testing.T, status int, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "upstream is overloaded", "type": "server_error"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "grok-3",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
}

func TestComplete(t *testing.T) {
	var body map[string]any
	srv := chatServer(t, http.StatusOK, `{"results":[]}`, &body)
	defer srv.Close()

	e := New("xai", "test-key", "grok-3", srv.URL+"/v1/")
	out, err := e.Complete(context.Background(), llm.Prompt{
		System:      "sys",
		User:        "grade this",
		MaxTokens:   2000,
		Temperature: 0.3,
		JSON:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"results":[]}`, out)

	assert.Equal(t, "grok-3", body["model"])
	assert.EqualValues(t, 2000, body["max_tokens"])
	assert.InDelta(t, 0.3, body["temperature"], 0.0001)
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "grade this", msgs[1].(map[string]any)["content"])
}

func TestComplete_ZeroTemperatureIsSent(t *testing.T) {
	var body map[string]any
	srv := chatServer(t, http.StatusOK, `{"results":[]}`, &body)
	defer srv.Close()

	e := New("openai", "test-key", "gpt-4o-mini", srv.URL+"/v1")
	_, err := e.Complete(context.Background(), llm.Prompt{User: "x", MaxTokens: 10})
	require.NoError(t, err)

	require.Contains(t, body, "temperature")
	assert.InDelta(t, 0, body["temperature"], 1e-6)
}

func TestComplete_UpstreamStatus(t *testing.T) {
	srv := chatServer(t, http.StatusServiceUnavailable, "", nil)
	defer srv.Close()

	e := New("openai", "test-key", "gpt-4o-mini", srv.URL+"/v1")
	_, err := e.Complete(context.Background(), llm.Prompt{User: "x"})
	require.Error(t, err)

	var ue *llm.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusServiceUnavailable, ue.StatusCode)
	assert.Equal(t, "openai", ue.Engine)
}

func TestComplete_EmptyContent(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "  ", nil)
	defer srv.Close()

	e := New("openai", "test-key", "gpt-4o-mini", srv.URL+"/v1")
	_, err := e.Complete(context.Background(), llm.Prompt{User: "x"})
	assert.ErrorIs(t, err, llm.ErrMalformedReply)
}

func TestComplete_MissingKey(t *testing.T) {
	e := New("openai", " ", "gpt-4o-mini", "")
	_, err := e.Complete(context.Background(), llm.Prompt{User: "x"})
	assert.Error(t, err)
}

func TestIsReasoningModel(t *testing.T) {
	assert.True(t, isReasoningModel("o3-mini"))
	assert.True(t, isReasoningModel("gpt-5-mini"))
	assert.False(t, isReasoningModel("gpt-4o-mini"))
	assert.False(t, isReasoningModel("grok-3"))
}
