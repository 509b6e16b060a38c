// Package chats provides a provider-agnostic data model for LLM conversations.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/askllm/pkg/chats/role]: conversation roles (system, user, assistant)
//   - [github.com/germanamz/askllm/pkg/chats/message]: role-tagged text turns
//
// No provider or API code is included; adapters build on it.
package chats
