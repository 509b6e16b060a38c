package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/askllm/pkg/presets"
	"github.com/germanamz/askllm/pkg/providers/provider"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	log, err := newLogger(&buf, "warn")
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	_, err = newLogger(&buf, "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"loud"`)
}

func TestPrintPresets(t *testing.T) {
	tbl := presets.NewTable(map[string]presets.Preset{
		"fast": {Provider: provider.Gemini, Model: "gemini-2.0-flash", MaxTokens: 512, Temperature: 0.3},
	}, discardLogger())

	var buf bytes.Buffer
	require.NoError(t, printPresets(&buf, tbl, presets.Coding))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.True(t, strings.HasPrefix(lines[1], "coding *"))
	assert.Contains(t, lines[2], "gemini-2.0-flash")
	assert.True(t, strings.HasPrefix(lines[3], "general "))
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	const key = "ASKLLM_TEST_DOTENV_KEY"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o600))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv(key))
}

// connect starts srv on a pipe pair and returns a connected client session.
func connect(t *testing.T, opts options, tbl *presets.Table) *mcp.ClientSession {
	t.Helper()

	srv, _, err := newServer(opts, tbl, discardLogger())
	require.NoError(t, err)

	serverIn, clientOut := io.Pipe()
	clientIn, serverOut := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx, serverIn, serverOut)
	}()
	t.Cleanup(func() {
		cancel()
		_ = clientOut.Close()
		_ = serverOut.Close()
		<-done
	})

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcp.IOTransport{Reader: clientIn, Writer: clientOut}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected *mcp.TextContent, got %T", res.Content[0])
	return tc.Text
}

func TestServer_EndToEnd(t *testing.T) {
	bodies := make(chan map[string]any, 1)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer or-key", r.Header.Get("Authorization"))
		assert.Equal(t, "https://example.com", r.Header.Get("HTTP-Referer"))
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		bodies <- body
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"model":"openai/gpt-4o-mini","choices":[{"message":{"role":"assistant","content":"pong"}}]}`)
	}))
	t.Cleanup(upstream.Close)

	vars := map[string]string{
		"OPENROUTER_API_KEY":  "or-key",
		"OPENROUTER_BASE_URL": upstream.URL,
		"OPENROUTER_REFERER":  "https://example.com",
	}
	opts := options{
		preset:  presets.General,
		timeout: 5 * time.Second,
		getenv:  func(k string) string { return vars[k] },
	}
	session := connect(t, opts, presets.NewTable(nil, discardLogger()))

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 3)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "ask_openrouter_llm",
		Arguments: map[string]any{"prompt": "ping"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"content": "pong"`)
	got := <-bodies
	assert.Equal(t, []any{map[string]any{"role": "user", "content": "ping"}}, got["messages"])

	res, err = session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "ask_gemini_llm",
		Arguments: map[string]any{"prompt": "ping"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	text := resultText(t, res)
	assert.True(t, strings.HasPrefix(text, "Error: "), text)
	assert.Contains(t, text, "GEMINI_API_KEY")
}
