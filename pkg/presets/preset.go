// Package presets holds the named request configurations served to tool
// callers and the resolver that combines them with per-call overrides.
//
// A [Table] is built once at startup from [Builtins] overlaid with an
// optional external set (see [LoadFile]) and is read-only afterwards, so it
// can be shared by concurrent calls without locking.
package presets

import (
	"fmt"

	"github.com/germanamz/askllm/pkg/providers/provider"
)

// General is the preset used when no other preset is selected or a
// selected name is unknown.
const General = "general"

// Coding is the built-in low-temperature preset for code generation.
const Coding = "coding"

// Preset is a named bundle of provider, model and sampling settings.
type Preset struct {
	Name        string        `yaml:"-" json:"name"`
	Provider    provider.Kind `yaml:"provider" json:"provider"`
	Model       string        `yaml:"model" json:"model"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens"`
	Temperature float64       `yaml:"temperature" json:"temperature"`
	Description string        `yaml:"description" json:"description"`
}

// Validate checks that p names a supported provider and a model and that its
// numeric fields are in range. Zero numeric fields are accepted; the resolver
// treats them as unset.
func (p Preset) Validate() error {
	if !p.Provider.Valid() {
		return fmt.Errorf("preset %q: %w", p.Name, &provider.UnsupportedError{Tag: string(p.Provider)})
	}
	if p.Model == "" {
		return fmt.Errorf("preset %q: model is required", p.Name)
	}
	if p.MaxTokens < 0 {
		return fmt.Errorf("preset %q: max_tokens must not be negative, got %d", p.Name, p.MaxTokens)
	}
	if p.Temperature < 0 || p.Temperature > 1 {
		return fmt.Errorf("preset %q: temperature must be within [0,1], got %g", p.Name, p.Temperature)
	}
	return nil
}

// Builtins returns a fresh copy of the presets compiled into the binary.
func Builtins() map[string]Preset {
	return map[string]Preset{
		General: {
			Name:        General,
			Provider:    provider.OpenRouter,
			Model:       "openai/gpt-4o-mini",
			MaxTokens:   8192,
			Temperature: 0.7,
			Description: "Balanced settings for everyday questions and writing",
		},
		Coding: {
			Name:        Coding,
			Provider:    provider.OpenRouter,
			Model:       "anthropic/claude-3.5-sonnet",
			MaxTokens:   16384,
			Temperature: 0.2,
			Description: "Low temperature and a large output budget for code generation and review",
		},
	}
}
