package llmtools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/germanamz/askllm/pkg/chats/role"
	"github.com/germanamz/askllm/pkg/presets"
	"github.com/germanamz/askllm/pkg/providers/provider"
)

// inputSchema derives the JSON Schema of T and decorates it with the value
// constraints struct tags cannot express.
func inputSchema[T any](tbl *presets.Table) (json.RawMessage, error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("llmtools: schema: %w", err)
	}

	if p := s.Properties["max_tokens"]; p != nil {
		p.Minimum = float64Ptr(1)
	}
	if p := s.Properties["temperature"]; p != nil {
		p.Minimum = float64Ptr(0)
		p.Maximum = float64Ptr(maxTemperature)
	}
	if p := s.Properties["preset"]; p != nil {
		p.Description = presetDescription(tbl)
	}
	if p := s.Properties["provider"]; p != nil {
		p.Enum = []any{provider.OpenRouter.String(), provider.Gemini.String()}
		p.Description = fmt.Sprintf("Upstream provider; defaults to the preset's provider (%s when none)", provider.OpenRouter)
	}
	if p := s.Properties["messages"]; p != nil && p.Items != nil {
		if r := p.Items.Properties["role"]; r != nil {
			r.Enum = []any{role.User.String(), role.Assistant.String(), role.System.String()}
		}
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("llmtools: schema: %w", err)
	}

	return raw, nil
}

// presetDescription lists the preset catalogue so clients can discover names.
func presetDescription(tbl *presets.Table) string {
	var b strings.Builder
	b.WriteString("Named preset; its max_tokens and temperature take precedence over explicit values. Available:")
	for _, p := range tbl.All() {
		fmt.Fprintf(&b, " %s (%s %s, max_tokens %d, temperature %g", p.Name, p.Provider, p.Model, p.MaxTokens, p.Temperature)
		if p.Description != "" {
			b.WriteString(": " + p.Description)
		}
		b.WriteString(");")
	}
	return strings.TrimSuffix(b.String(), ";")
}

func float64Ptr(v float64) *float64 { return &v }
