// Package openrouter provides a Completer for the OpenRouter Chat Completions API.
package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/germanamz/askllm/pkg/chats/message"
	"github.com/germanamz/askllm/pkg/chats/role"
	"github.com/germanamz/askllm/pkg/modeladapter"
	"github.com/germanamz/askllm/pkg/modeladapter/usage"
	"github.com/germanamz/askllm/pkg/providers/provider"
)

// DefaultBaseURL is the public OpenRouter endpoint.
const DefaultBaseURL = "https://openrouter.ai"

const completionsPath = "/api/v1/chat/completions"

var (
	_ modeladapter.Completer = (*Adapter)(nil)
	_ modeladapter.Wire      = wire{}
)

// Adapter implements modeladapter.Completer for OpenRouter.
type Adapter struct {
	modeladapter.ModelAdapter
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithClient sets the HTTP client used for upstream calls.
func WithClient(c *http.Client) Option {
	return func(a *Adapter) { a.Client = c }
}

// WithReferer sets the optional HTTP-Referer header OpenRouter uses to
// attribute requests to an app.
func WithReferer(url string) Option {
	return func(a *Adapter) { a.Headers["HTTP-Referer"] = url }
}

// WithTitle sets the optional X-Title header naming the calling app.
func WithTitle(title string) Option {
	return func(a *Adapter) { a.Headers["X-Title"] = title }
}

// New creates an Adapter. An empty baseURL uses [DefaultBaseURL].
func New(baseURL, apiKey string, opts ...Option) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{Key: apiKey}
	a.Headers = map[string]string{}

	for _, o := range opts {
		o(a)
	}

	return a
}

// Complete sends req to OpenRouter and returns the first choice.
func (a *Adapter) Complete(ctx context.Context, req modeladapter.Request) (modeladapter.Result, error) {
	res, err := a.Exchange(ctx, wire{}, req)
	if err != nil {
		return modeladapter.Result{}, fmt.Errorf("openrouter: %w", err)
	}
	return res, nil
}

// --- wire types ---

// Message is one OpenRouter chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type apiResponse struct {
	Model   string      `json:"model"`
	Choices []apiChoice `json:"choices"`
	Usage   *apiUsage   `json:"usage"`
	Error   *apiError   `json:"error"`
}

type apiChoice struct {
	Message      apiRespMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type apiRespMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// apiError is set when OpenRouter reports a failure inside a 200 response.
type apiError struct {
	Code    any    `json:"code"`
	Message string `json:"message"`
}

// --- conversion ---

// Messages converts a conversation into OpenRouter turns. The role
// vocabulary is shared, so turns pass through unchanged and in order,
// system turns included wherever they appear.
func Messages(msgs []message.Message) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = Message{Role: m.Role.String(), Content: m.Content}
	}
	return out
}

// wire implements modeladapter.Wire for the chat completions endpoint.
type wire struct{}

func (wire) Path(modeladapter.Request) string { return completionsPath }

func (wire) Encode(req modeladapter.Request) any {
	return apiRequest{
		Model:       req.Model,
		Messages:    requestMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
}

func requestMessages(req modeladapter.Request) []Message {
	if req.IsConversation() {
		return Messages(req.Messages)
	}

	var msgs []message.Message
	if req.SystemPrompt != "" {
		msgs = append(msgs, message.New(role.System, req.SystemPrompt))
	}
	msgs = append(msgs, message.New(role.User, req.Prompt))

	return Messages(msgs)
}

func (wire) Decode(raw json.RawMessage, req modeladapter.Request) (modeladapter.Result, error) {
	var resp apiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return modeladapter.Result{}, fmt.Errorf("decode response: %w", err)
	}

	if resp.Error != nil {
		return modeladapter.Result{}, fmt.Errorf("upstream error: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 {
		return modeladapter.Result{}, errors.New("empty choices in response")
	}

	content := resp.Choices[0].Message.Content
	if content == nil {
		return modeladapter.Result{}, errors.New("first choice has no message content")
	}

	res := modeladapter.Result{
		Content:  *content,
		Model:    resp.Model,
		Provider: provider.OpenRouter,
	}
	if res.Model == "" {
		res.Model = req.Model
	}
	if resp.Usage != nil {
		res.Usage = usage.New(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	}

	return res, nil
}
