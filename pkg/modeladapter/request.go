package modeladapter

import (
	"context"
	"encoding/json"

	"github.com/germanamz/askllm/pkg/chats/message"
	"github.com/germanamz/askllm/pkg/modeladapter/usage"
	"github.com/germanamz/askllm/pkg/providers/provider"
)

// Request is the provider-agnostic shape of one completion call.
//
// When Messages is non-empty the request is a multi-turn conversation and
// Prompt and SystemPrompt are ignored. Otherwise it is a single prompt with an
// optional system instruction.
type Request struct {
	Model        string
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
	Prompt       string
	Messages     []message.Message
}

// IsConversation reports whether r carries a multi-turn history.
func (r Request) IsConversation() bool { return len(r.Messages) > 0 }

// Result is the normalized reply every provider returns.
type Result struct {
	Content  string        `json:"content"`
	Model    string        `json:"model"`
	Provider provider.Kind `json:"provider"`
	Usage    *usage.Usage  `json:"usage,omitempty"`
}

// Completer sends a Request to an LLM and returns its normalized reply.
type Completer interface {
	Complete(ctx context.Context, req Request) (Result, error)
}

// Wire is the provider-specific half of a Completer: where to send a request,
// how to encode it, and how to read the reply.
type Wire interface {
	Path(req Request) string
	Encode(req Request) any
	Decode(raw json.RawMessage, req Request) (Result, error)
}

// Exchange encodes req with w, posts it and decodes the reply.
func (a *ModelAdapter) Exchange(ctx context.Context, w Wire, req Request) (Result, error) {
	var raw json.RawMessage
	if err := a.PostJSON(ctx, w.Path(req), w.Encode(req), &raw); err != nil {
		return Result{}, err
	}

	return w.Decode(raw, req)
}
