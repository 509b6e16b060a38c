// Package providers groups the upstream LLM adapters.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/askllm/pkg/providers/provider]: provider tags, per-provider defaults and credential variable names
//   - [github.com/germanamz/askllm/pkg/providers/openrouter]: OpenRouter chat completions adapter
//   - [github.com/germanamz/askllm/pkg/providers/gemini]: Google Gemini generateContent adapter, including the conversation translation
//
// Each adapter embeds [github.com/germanamz/askllm/pkg/modeladapter.ModelAdapter]
// and implements its Completer interface.
package providers
