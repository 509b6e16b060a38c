// Package provider names the supported upstream LLM services and their
// built-in request defaults.
package provider

import (
	"fmt"
	"strings"
)

// Kind identifies an upstream LLM HTTP API.
type Kind string

const (
	OpenRouter Kind = "openrouter"
	Gemini     Kind = "gemini"
)

// Kinds lists every supported provider in a stable order.
func Kinds() []Kind {
	return []Kind{OpenRouter, Gemini}
}

// Valid reports whether k is a supported provider.
func (k Kind) Valid() bool {
	switch k {
	case OpenRouter, Gemini:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// UnsupportedError is returned for a provider tag outside [Kinds].
type UnsupportedError struct {
	Tag string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported provider: %q (supported: openrouter, gemini)", e.Tag)
}

// Parse converts a caller-supplied tag into a Kind. Matching ignores case and
// surrounding whitespace.
func Parse(tag string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(tag)))
	if !k.Valid() {
		return "", &UnsupportedError{Tag: tag}
	}
	return k, nil
}

// Defaults holds the hard-coded request values used when neither a preset nor
// the caller supplies one.
type Defaults struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// DefaultsFor returns the built-in defaults for k. Unknown kinds get the
// OpenRouter defaults.
func DefaultsFor(k Kind) Defaults {
	if k == Gemini {
		return Defaults{Model: "gemini-2.0-flash", MaxTokens: 8192, Temperature: 0.7}
	}
	return Defaults{Model: "openai/gpt-4o-mini", MaxTokens: 8192, Temperature: 0.7}
}

// CredentialEnv is the environment variable holding the API key for k.
func CredentialEnv(k Kind) string {
	if k == Gemini {
		return "GEMINI_API_KEY"
	}
	return "OPENROUTER_API_KEY"
}

// KnownModels lists model identifiers commonly used with k. It is advisory
// only: model names are passed through to the upstream unchecked.
func KnownModels(k Kind) []string {
	if k == Gemini {
		return []string{"gemini-2.0-flash", "gemini-2.5-flash", "gemini-2.5-pro"}
	}
	return []string{
		"openai/gpt-4o-mini",
		"openai/gpt-4o",
		"anthropic/claude-3.5-sonnet",
		"google/gemini-2.0-flash-001",
		"meta-llama/llama-3.3-70b-instruct",
	}
}
