package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/inventory-analyzer/chat-platform/internal/model"
)

// ValidateMessageContent validates message content before it reaches the
// store: empty or whitespace-only text is rejected here, not appended.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content cannot be empty")
	}
	if len(content) > 100000 { // ~100KB limit
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateChatID validates a chat id.
func ValidateChatID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid chat ID format")
	}
	return nil
}

// ValidateAgentType validates an agent type.
func ValidateAgentType(t model.AgentType) error {
	if !t.Valid() {
		return errors.New("agent type must be \"summary\" or \"chatbot\"")
	}
	return nil
}
