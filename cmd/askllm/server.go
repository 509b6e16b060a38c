package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/germanamz/askllm/pkg/llmtools"
	"github.com/germanamz/askllm/pkg/presets"
	"github.com/germanamz/askllm/pkg/providers/provider"
	"github.com/germanamz/askllm/pkg/tools/mcpserver"
)

const serverName = "askllm"

// Environment variables read once at startup.
const (
	envOpenRouterBaseURL = "OPENROUTER_BASE_URL"
	envGeminiBaseURL     = "GEMINI_BASE_URL"
	envOpenRouterReferer = "OPENROUTER_REFERER"
	envOpenRouterTitle   = "OPENROUTER_TITLE"
)

type options struct {
	preset  string
	timeout time.Duration
	getenv  func(string) string
}

// newServer wires the dispatcher into an MCP server and returns the active
// preset it resolved.
func newServer(opts options, tbl *presets.Table, log *slog.Logger) (*mcpserver.MCPServer, presets.Preset, error) {
	getenv := opts.getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	baseURLs := map[provider.Kind]string{}
	if v := getenv(envOpenRouterBaseURL); v != "" {
		baseURLs[provider.OpenRouter] = v
	}
	if v := getenv(envGeminiBaseURL); v != "" {
		baseURLs[provider.Gemini] = v
	}

	d, err := llmtools.New(llmtools.Config{
		Presets:      tbl,
		ActivePreset: opts.preset,
		Getenv:       getenv,
		Client:       &http.Client{Timeout: opts.timeout},
		BaseURLs:     baseURLs,
		Referer:      getenv(envOpenRouterReferer),
		Title:        getenv(envOpenRouterTitle),
		Log:          log,
	})
	if err != nil {
		return nil, presets.Preset{}, err
	}

	srv := mcpserver.New(serverName, version, log)
	srv.Register(d.Tools()...)

	return srv, d.Active(), nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid -log-level %q: want debug, info, warn or error", level)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// printPresets writes the merged preset table, marking the active entry.
func printPresets(w io.Writer, tbl *presets.Table, active string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPROVIDER\tMODEL\tMAX TOKENS\tTEMPERATURE\tDESCRIPTION")

	for _, p := range tbl.All() {
		name := p.Name
		if name == active {
			name += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%g\t%s\n", name, p.Provider, p.Model, p.MaxTokens, p.Temperature, p.Description)
	}

	return tw.Flush()
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
