package openrouter_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germanamz/askllm/pkg/chats/message"
	"github.com/germanamz/askllm/pkg/chats/role"
	"github.com/germanamz/askllm/pkg/modeladapter"
	"github.com/germanamz/askllm/pkg/modeladapter/usage"
	"github.com/germanamz/askllm/pkg/providers/openrouter"
	"github.com/germanamz/askllm/pkg/providers/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc, opts ...openrouter.Option) *openrouter.Adapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return openrouter.New(srv.URL, "test-key", append([]openrouter.Option{openrouter.WithClient(srv.Client())}, opts...)...)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}

	return req
}

func okResponse(text string) map[string]any {
	return map[string]any{
		"id":    "gen-1",
		"model": "openai/gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": text}, "finish_reason": "stop"},
		},
		"usage": map[string]any{"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5},
	}
}

func TestNew_DefaultBaseURL(t *testing.T) {
	a := openrouter.New("", "k")
	assert.Equal(t, openrouter.DefaultBaseURL, a.BaseURL)
	assert.Equal(t, "k", a.Auth.Key)
}

func TestComplete_SinglePrompt(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("HTTP-Referer"))
		assert.Empty(t, r.Header.Get("X-Title"))

		req := readBody(t, r)
		assert.Equal(t, "openai/gpt-4o-mini", req["model"])
		assert.InDelta(t, 8192, req["max_tokens"], 0)
		assert.InDelta(t, 0.7, req["temperature"], 1e-9)
		assert.Equal(t, []any{map[string]any{"role": "user", "content": "hi"}}, req["messages"])

		writeJSON(t, w, okResponse("hello"))
	})

	res, err := adapter.Complete(context.Background(), modeladapter.Request{
		Model:       "openai/gpt-4o-mini",
		MaxTokens:   8192,
		Temperature: 0.7,
		Prompt:      "hi",
	})
	require.NoError(t, err)

	assert.Equal(t, modeladapter.Result{
		Content:  "hello",
		Model:    "openai/gpt-4o-mini-2024-07-18",
		Provider: provider.OpenRouter,
		Usage:    &usage.Usage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5},
	}, res)
}

func TestComplete_SystemPromptAndHeaders(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://example.com", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "askllm", r.Header.Get("X-Title"))

		req := readBody(t, r)
		assert.Equal(t, []any{
			map[string]any{"role": "system", "content": "be terse"},
			map[string]any{"role": "user", "content": "hi"},
		}, req["messages"])

		writeJSON(t, w, okResponse("ok"))
	}, openrouter.WithReferer("https://example.com"), openrouter.WithTitle("askllm"))

	_, err := adapter.Complete(context.Background(), modeladapter.Request{Model: "m", Prompt: "hi", SystemPrompt: "be terse"})
	require.NoError(t, err)
}

func TestComplete_ZeroTemperatureIsSent(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := readBody(t, r)
		temp, ok := req["temperature"]
		assert.True(t, ok)
		assert.InDelta(t, 0.0, temp, 0)

		writeJSON(t, w, okResponse("ok"))
	})

	_, err := adapter.Complete(context.Background(), modeladapter.Request{Model: "m", Prompt: "hi", MaxTokens: 1})
	require.NoError(t, err)
}

func TestComplete_Conversation(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := readBody(t, r)
		assert.Equal(t, []any{
			map[string]any{"role": "user", "content": "hi"},
			map[string]any{"role": "assistant", "content": "hello"},
			map[string]any{"role": "system", "content": "now be formal"},
			map[string]any{"role": "user", "content": "how are you"},
		}, req["messages"])

		writeJSON(t, w, okResponse("Quite well."))
	})

	res, err := adapter.Complete(context.Background(), modeladapter.Request{
		Model:        "m",
		Prompt:       "ignored",
		SystemPrompt: "ignored",
		Messages: []message.Message{
			message.New(role.User, "hi"),
			message.New(role.Assistant, "hello"),
			message.New(role.System, "now be formal"),
			message.New(role.User, "how are you"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Quite well.", res.Content)
}

func TestComplete_UsageAbsent(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": "x"}}},
		})
	})

	res, err := adapter.Complete(context.Background(), modeladapter.Request{Model: "requested/model", Prompt: "hi"})
	require.NoError(t, err)
	assert.Nil(t, res.Usage)
	assert.Equal(t, "requested/model", res.Model)
}

func TestComplete_UpstreamStatusError(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"No auth credentials found","code":401}}`))
	})

	_, err := adapter.Complete(context.Background(), modeladapter.Request{Model: "m", Prompt: "hi"})
	require.Error(t, err)

	var se *modeladapter.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Contains(t, err.Error(), "openrouter: unexpected status 401")
	assert.Contains(t, err.Error(), "No auth credentials found")
}

func TestComplete_MalformedBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty choices", `{"choices":[]}`, "openrouter: empty choices in response"},
		{"null content", `{"choices":[{"message":{"role":"assistant","content":null}}]}`, "no message content"},
		{"error in 200", `{"error":{"message":"model not found","code":404}}`, "openrouter: upstream error: model not found"},
		{"wrong shape", `{"choices":"nope"}`, "openrouter: decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := adapter.Complete(context.Background(), modeladapter.Request{Model: "m", Prompt: "hi"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMessages_PassThrough(t *testing.T) {
	in := []message.Message{
		message.New(role.System, "a"),
		message.New(role.User, "b"),
		message.New(role.Assistant, "c"),
		message.New(role.System, "d"),
	}

	got := openrouter.Messages(in)
	require.Len(t, got, len(in))
	for i, m := range in {
		assert.Equal(t, m.Role.String(), got[i].Role)
		assert.Equal(t, m.Content, got[i].Content)
	}

	assert.Empty(t, openrouter.Messages(nil))
}
