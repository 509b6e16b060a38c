// Package llmtools implements the LLM-forwarding tools: it decodes and
// validates each call's arguments, resolves the effective request
// parameters, picks the provider adapter and renders the normalized result.
//
// A [Dispatcher] is built once at startup and is safe for concurrent calls;
// it holds no mutable state.
package llmtools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/germanamz/askllm/pkg/chats/message"
	"github.com/germanamz/askllm/pkg/chats/role"
	"github.com/germanamz/askllm/pkg/modeladapter"
	"github.com/germanamz/askllm/pkg/presets"
	"github.com/germanamz/askllm/pkg/providers/gemini"
	"github.com/germanamz/askllm/pkg/providers/openrouter"
	"github.com/germanamz/askllm/pkg/providers/provider"
	"github.com/germanamz/askllm/pkg/tools/toolbox"
)

// Tool names.
const (
	AskOpenRouter = "ask_openrouter_llm"
	AskGemini     = "ask_gemini_llm"
	Conversation  = "conversation_with_llm"
)

// previewWidth bounds the prompt excerpt written to diagnostic logs.
const previewWidth = 60

// Config wires a Dispatcher to its collaborators.
type Config struct {
	Presets      *presets.Table           // Required.
	ActivePreset string                   // Process-wide preset; empty means presets.General.
	Getenv       func(string) string      // Credential lookup; defaults to os.Getenv.
	Client       *http.Client             // Shared upstream client; nil uses the adapter default.
	BaseURLs     map[provider.Kind]string // Optional per-provider endpoint overrides.
	Referer      string                   // Optional OpenRouter HTTP-Referer header.
	Title        string                   // Optional OpenRouter X-Title header.
	Log          *slog.Logger             // Defaults to slog.Default().
}

// Dispatcher routes tool calls to their handlers.
type Dispatcher struct {
	resolver presets.Resolver
	getenv   func(string) string
	client   *http.Client
	baseURLs map[provider.Kind]string
	referer  string
	title    string
	log      *slog.Logger
	box      *toolbox.ToolBox
}

// New builds a Dispatcher and its tool definitions.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Presets == nil {
		return nil, fmt.Errorf("llmtools: presets table is required")
	}
	if cfg.Getenv == nil {
		cfg.Getenv = os.Getenv
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	d := &Dispatcher{
		resolver: presets.NewResolver(cfg.Presets, cfg.ActivePreset),
		getenv:   cfg.Getenv,
		client:   cfg.Client,
		baseURLs: cfg.BaseURLs,
		referer:  cfg.Referer,
		title:    cfg.Title,
		log:      cfg.Log,
	}

	tools, err := d.buildTools(cfg.Presets)
	if err != nil {
		return nil, err
	}
	d.box = toolbox.New(tools...)

	return d, nil
}

// Tools returns the tool definitions ordered by name.
func (d *Dispatcher) Tools() []toolbox.Tool {
	return d.box.Tools()
}

// Active returns the process-wide preset in effect.
func (d *Dispatcher) Active() presets.Preset {
	return d.resolver.Active
}

// Call runs the tool called name. Unknown names yield a
// *toolbox.UnknownToolError.
func (d *Dispatcher) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	return d.box.Call(ctx, name, args)
}

func (d *Dispatcher) buildTools(tbl *presets.Table) ([]toolbox.Tool, error) {
	askSchema, err := inputSchema[AskArgs](tbl)
	if err != nil {
		return nil, err
	}
	convSchema, err := inputSchema[ConversationArgs](tbl)
	if err != nil {
		return nil, err
	}

	return []toolbox.Tool{
		{
			Name: AskOpenRouter,
			Description: "Send a single prompt to a model on OpenRouter and return its answer. " +
				"Requires OPENROUTER_API_KEY. Known models: " + strings.Join(provider.KnownModels(provider.OpenRouter), ", ") + ".",
			InputSchema: askSchema,
			Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
				return d.handleAsk(ctx, AskOpenRouter, provider.OpenRouter, raw)
			},
		},
		{
			Name: AskGemini,
			Description: "Send a single prompt to a Google Gemini model and return its answer. " +
				"Requires GEMINI_API_KEY. Known models: " + strings.Join(provider.KnownModels(provider.Gemini), ", ") + ".",
			InputSchema: askSchema,
			Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
				return d.handleAsk(ctx, AskGemini, provider.Gemini, raw)
			},
		},
		{
			Name: Conversation,
			Description: "Continue a multi-turn conversation with an LLM. Send the full history every call; " +
				"nothing is remembered between calls. With provider gemini, system turns are dropped.",
			InputSchema: convSchema,
			Handler:     d.handleConversation,
		},
	}, nil
}

func (d *Dispatcher) handleAsk(ctx context.Context, tool string, kind provider.Kind, raw json.RawMessage) (string, error) {
	args, err := decode[AskArgs](raw)
	if err != nil {
		return "", err
	}

	res, err := d.Ask(ctx, tool, kind, args)
	if err != nil {
		return "", err
	}

	return render(res)
}

func (d *Dispatcher) handleConversation(ctx context.Context, raw json.RawMessage) (string, error) {
	args, err := decode[ConversationArgs](raw)
	if err != nil {
		return "", err
	}

	res, err := d.Converse(ctx, args)
	if err != nil {
		return "", err
	}

	return render(res)
}

// Ask sends a single prompt to kind. args must be validated.
func (d *Dispatcher) Ask(ctx context.Context, tool string, kind provider.Kind, args AskArgs) (modeladapter.Result, error) {
	params := d.resolver.Resolve(kind, args.Overrides())

	c, err := d.completer(params.Provider)
	if err != nil {
		return modeladapter.Result{}, err
	}

	d.log.Info("forwarding prompt",
		"tool", tool,
		"provider", params.Provider,
		"model", params.Model,
		"max_tokens", params.MaxTokens,
		"temperature", params.Temperature,
		"prompt", preview(args.Prompt),
	)

	return c.Complete(ctx, modeladapter.Request{
		Model:        params.Model,
		MaxTokens:    params.MaxTokens,
		Temperature:  params.Temperature,
		SystemPrompt: args.SystemPrompt,
		Prompt:       args.Prompt,
	})
}

// Converse sends a conversation to the requested or preset provider. args
// must be validated.
func (d *Dispatcher) Converse(ctx context.Context, args ConversationArgs) (modeladapter.Result, error) {
	params := d.resolver.Resolve(args.Kind(), args.Overrides())

	c, err := d.completer(params.Provider)
	if err != nil {
		return modeladapter.Result{}, err
	}

	d.log.Info("forwarding conversation",
		"tool", Conversation,
		"provider", params.Provider,
		"model", params.Model,
		"turns", len(args.Messages),
		"last", preview(args.Messages[len(args.Messages)-1].Content),
	)
	if params.Provider == provider.Gemini {
		if n := message.Count(args.Messages, role.System); n > 0 {
			d.log.Debug("gemini has no system role, dropping turns", "count", n)
		}
	}

	return c.Complete(ctx, modeladapter.Request{
		Model:       params.Model,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
		Messages:    args.Messages,
	})
}

// completer builds the adapter for kind with a credential read for this call.
func (d *Dispatcher) completer(kind provider.Kind) (modeladapter.Completer, error) {
	key, err := modeladapter.Credential(kind, d.getenv)
	if err != nil {
		return nil, err
	}

	switch kind {
	case provider.Gemini:
		return gemini.New(d.baseURLs[kind], key, d.client), nil
	case provider.OpenRouter:
		return openrouter.New(d.baseURLs[kind], key,
			openrouter.WithClient(d.client),
			openrouter.WithReferer(d.referer),
			openrouter.WithTitle(d.title),
		), nil
	}

	return nil, &provider.UnsupportedError{Tag: string(kind)}
}

func render(res modeladapter.Result) (string, error) {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render result: %w", err)
	}
	return string(b), nil
}

// preview collapses whitespace and truncates s to previewWidth display cells.
func preview(s string) string {
	return runewidth.Truncate(strings.Join(strings.Fields(s), " "), previewWidth, "…")
}
