// Package message defines the Message type used in LLM conversations.
package message

import (
	"fmt"

	"github.com/germanamz/askllm/pkg/chats/role"
)

// Message is one role-tagged turn of a conversation.
// It is a value type that copies cheaply.
type Message struct {
	Role    role.Role `json:"role"`
	Content string    `json:"content"`
}

// New creates a message with the given role and text.
func New(r role.Role, text string) Message {
	return Message{Role: r, Content: text}
}

// Count returns how many messages in msgs carry role r.
func Count(msgs []Message, r role.Role) int {
	n := 0
	for _, m := range msgs {
		if m.Role == r {
			n++
		}
	}
	return n
}

// Validate checks that msgs is a non-empty conversation with known roles.
func Validate(msgs []Message) error {
	if len(msgs) == 0 {
		return fmt.Errorf("messages must not be empty")
	}

	for i, m := range msgs {
		if !m.Role.Valid() {
			return fmt.Errorf("messages[%d]: unknown role %q (want system, user or assistant)", i, m.Role)
		}
	}

	return nil
}
