package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a chat's message sequence. Messages are
// append-only: once created they are never edited or removed.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// WireMessage is the message shape exchanged with the chat backend. It
// carries only what the sender contract needs.
type WireMessage struct {
	Content string `json:"content"`
	Role    Role   `json:"role"`
}

// Wire converts a stored message to its wire representation.
func (m Message) Wire() WireMessage {
	return WireMessage{Content: m.Content, Role: m.Role}
}

// SendMessageRequest is the request to send a new message to a chat.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessageResponse is returned immediately after the optimistic append.
// The assistant reply arrives asynchronously; ReplyPending reports whether
// one is still outstanding.
type SendMessageResponse struct {
	ChatID       string   `json:"chat_id"`
	Message      *Message `json:"message"`
	ReplyPending bool     `json:"reply_pending"`
}
