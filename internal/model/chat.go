// Package model defines data structures for the chat platform.
package model

import (
	"time"
)

// AgentType selects the backend persona for a chat. It is fixed at chat
// creation time and never changes afterward, even if the user switches the
// global selector.
type AgentType string

const (
	AgentSummary AgentType = "summary"
	AgentChatbot AgentType = "chatbot"
)

// Valid reports whether t is a known agent type.
func (t AgentType) Valid() bool {
	return t == AgentSummary || t == AgentChatbot
}

// Chat represents a single conversation thread.
type Chat struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	AgentType   AgentType `json:"agent_type"`
	Messages    []Message `json:"messages"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// LastMessage returns the most recent message, or nil for an empty chat.
func (c *Chat) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// ChatSummary is the listing shape for the history sidebar: the full
// message sequence is omitted.
type ChatSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	AgentType    AgentType `json:"agent_type"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastUpdated  time.Time `json:"last_updated"`
	Current      bool      `json:"current"`
}

// ListChatsResponse is the response for listing chats.
type ListChatsResponse struct {
	Chats         []ChatSummary `json:"chats"`
	CurrentChatID string        `json:"current_chat_id,omitempty"`
}

// ChatResponse wraps a single chat together with its reply-pending state.
type ChatResponse struct {
	Chat         *Chat `json:"chat"`
	ReplyPending bool  `json:"reply_pending"`
}

// SetAgentTypeRequest is the request to change the selected agent type.
type SetAgentTypeRequest struct {
	AgentType AgentType `json:"agent_type"`
}

// AgentTypeResponse reports the currently selected agent type.
type AgentTypeResponse struct {
	AgentType AgentType `json:"agent_type"`
}
