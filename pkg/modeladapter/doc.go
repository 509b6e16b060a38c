// Package modeladapter defines the provider-agnostic request and result types
// and the shared HTTP plumbing for LLM adapters.
//
// It contains:
//   - [Request], [Result] and the [Completer] interface every provider implements
//   - [Wire], the encode/decode capability a provider plugs into [ModelAdapter.Exchange]
//   - the embeddable [ModelAdapter] base struct with auth (header or query parameter), custom headers and JSON POST helpers
//   - [MissingCredentialError] and [StatusError] for the two classified failure modes
//   - [github.com/germanamz/askllm/pkg/modeladapter/usage]: token usage record
//
// Concrete adapters live in separate packages that import modeladapter.
package modeladapter
