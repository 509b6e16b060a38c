package llmtools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/germanamz/askllm/pkg/chats/message"
	"github.com/germanamz/askllm/pkg/presets"
	"github.com/germanamz/askllm/pkg/providers/provider"
)

// maxTemperature is the widest sampling range either upstream accepts.
const maxTemperature = 2.0

// AskArgs are the arguments of ask_openrouter_llm and ask_gemini_llm.
type AskArgs struct {
	Prompt       string   `json:"prompt" jsonschema:"The question or instruction to send to the model"`
	Model        *string  `json:"model,omitempty" jsonschema:"Model identifier; defaults to the preset or built-in model for this provider"`
	MaxTokens    *int     `json:"max_tokens,omitempty" jsonschema:"Maximum number of tokens to generate"`
	Temperature  *float64 `json:"temperature,omitempty" jsonschema:"Sampling temperature; lower is more deterministic"`
	SystemPrompt string   `json:"system_prompt,omitempty" jsonschema:"Optional system instruction sent before the prompt"`
	Preset       string   `json:"preset,omitempty" jsonschema:"Named preset"`
}

// Validate checks the fields the caller must get right before any upstream
// call is made.
func (a AskArgs) Validate() error {
	if strings.TrimSpace(a.Prompt) == "" {
		return fmt.Errorf("prompt is required")
	}
	return validateSampling(a.MaxTokens, a.Temperature)
}

// Overrides returns the per-call configuration fields.
func (a AskArgs) Overrides() presets.Overrides {
	return presets.Overrides{
		Preset:      a.Preset,
		Model:       a.Model,
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
	}
}

// ConversationArgs are the arguments of conversation_with_llm.
type ConversationArgs struct {
	Messages    []message.Message `json:"messages" jsonschema:"Full conversation history, oldest first"`
	Provider    string            `json:"provider,omitempty" jsonschema:"Upstream provider"`
	Model       *string           `json:"model,omitempty" jsonschema:"Model identifier; defaults to the preset or built-in model for the provider"`
	MaxTokens   *int              `json:"max_tokens,omitempty" jsonschema:"Maximum number of tokens to generate"`
	Temperature *float64          `json:"temperature,omitempty" jsonschema:"Sampling temperature; lower is more deterministic"`
	Preset      string            `json:"preset,omitempty" jsonschema:"Named preset"`
}

// Validate checks the conversation and, when given, the provider tag.
func (a ConversationArgs) Validate() error {
	if a.Provider != "" {
		if _, err := provider.Parse(a.Provider); err != nil {
			return err
		}
	}
	if err := message.Validate(a.Messages); err != nil {
		return err
	}
	return validateSampling(a.MaxTokens, a.Temperature)
}

// Kind returns the parsed provider tag, or "" when the caller left it open.
// Call it only after Validate.
func (a ConversationArgs) Kind() provider.Kind {
	if a.Provider == "" {
		return ""
	}
	k, _ := provider.Parse(a.Provider)
	return k
}

// Overrides returns the per-call configuration fields.
func (a ConversationArgs) Overrides() presets.Overrides {
	return presets.Overrides{
		Preset:      a.Preset,
		Model:       a.Model,
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
	}
}

func validateSampling(maxTokens *int, temperature *float64) error {
	if maxTokens != nil && *maxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", *maxTokens)
	}
	if temperature != nil && (*temperature < 0 || *temperature > maxTemperature) {
		return fmt.Errorf("temperature must be within [0,%g], got %g", maxTemperature, *temperature)
	}
	return nil
}

// decode unmarshals raw tool arguments into a validated request variant.
func decode[T interface{ Validate() error }](raw json.RawMessage) (T, error) {
	var args T
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, fmt.Errorf("invalid arguments: %w", err)
	}
	if err := args.Validate(); err != nil {
		return args, err
	}
	return args, nil
}
