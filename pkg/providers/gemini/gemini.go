// Package gemini provides a Completer implementation for the Google Gemini
// generateContent API.
package gemini

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

// DefaultBaseURL is the public Gemini endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// modelRole is Gemini's name for the assistant role.
const modelRole = "model"

var (
	_ modeladapter.Completer = (*Adapter)(nil)
	_ modeladapter.Wire      = wire{}
)

// Adapter implements modeladapter.Completer for the Google Gemini API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter. The API key travels as the "key" query parameter.
// An empty baseURL uses [DefaultBaseURL]; a nil client uses the adapter default.
func New(baseURL, apiKey string, client *http.Client) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{Key: apiKey, Query: "key"}
	a.Client = client

	return a
}

// Complete sends req to the Gemini API and returns the first candidate's text.
func (a *Adapter) Complete(ctx context.Context, req modeladapter.Request) (modeladapter.Result, error) {
	res, err := a.Exchange(ctx, wire{}, req)
	if err != nil {
		return modeladapter.Result{}, fmt.Errorf("gemini: %w", err)
	}
	return res, nil
}

// --- wire types ---

// Content is one Gemini turn. Role is omitted in the single-prompt body.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a text fragment of a Content.
type Part struct {
	Text string `json:"text"`
}

type apiRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type apiResponse struct {
	Candidates     []apiCandidate  `json:"candidates"`
	UsageMetadata  *apiUsageMeta   `json:"usageMetadata"`
	PromptFeedback *promptFeedback `json:"promptFeedback"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason"`
}

type apiCandidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type apiUsageMeta struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// --- conversion ---

// Contents converts a conversation into Gemini turns. Gemini has no inline
// system role, so system turns are dropped; assistant becomes "model" and
// user is kept. Order is preserved.
func Contents(msgs []message.Message) []Content {
	out := make([]Content, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == role.System {
			continue
		}
		out = append(out, Content{
			Role:  mapRole(m.Role),
			Parts: []Part{{Text: m.Content}},
		})
	}
	return out
}

func mapRole(r role.Role) string {
	if r == role.Assistant {
		return modelRole
	}
	return role.User.String()
}

// PromptText joins an optional system instruction and a prompt into the
// single text part sent on the single-prompt path.
func PromptText(system, prompt string) string {
	if system == "" {
		return prompt
	}
	return system + "\n\n" + prompt
}

// wire implements modeladapter.Wire for generateContent.
type wire struct{}

func (wire) Path(req modeladapter.Request) string {
	return "/v1beta/models/" + req.Model + ":generateContent"
}

func (wire) Encode(req modeladapter.Request) any {
	body := apiRequest{
		GenerationConfig: generationConfig{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     req.Temperature,
		},
	}

	if req.IsConversation() {
		body.Contents = Contents(req.Messages)
	} else {
		body.Contents = []Content{{Parts: []Part{{Text: PromptText(req.SystemPrompt, req.Prompt)}}}}
	}

	return body
}

func (wire) Decode(raw json.RawMessage, req modeladapter.Request) (modeladapter.Result, error) {
	var resp apiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return modeladapter.Result{}, fmt.Errorf("decode response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return modeladapter.Result{}, fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return modeladapter.Result{}, errors.New("empty candidates in response")
	}

	cand := resp.Candidates[0]
	if len(cand.Content.Parts) == 0 {
		return modeladapter.Result{}, fmt.Errorf("first candidate has no content parts (finish reason %q)", cand.FinishReason)
	}

	var meta apiUsageMeta
	if resp.UsageMetadata != nil {
		meta = *resp.UsageMetadata
	}

	return modeladapter.Result{
		Content:  cand.Content.Parts[0].Text,
		Model:    req.Model,
		Provider: provider.Gemini,
		Usage: &usage.Usage{
			PromptTokens:     meta.PromptTokenCount,
			CompletionTokens: meta.CandidatesTokenCount,
			TotalTokens:      meta.TotalTokenCount,
		},
	}, nil
}
