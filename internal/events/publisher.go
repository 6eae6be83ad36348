// Package events provides optional NATS notifications for message
// activity. Publishing is fire-and-forget; the platform runs fine with no
// NATS configured.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/inventory-analyzer/chat-platform/internal/model"
	"github.com/inventory-analyzer/chat-platform/pkg/logger"
)

// MessageEvent is published whenever a message is appended to a chat.
type MessageEvent struct {
	ChatID    string          `json:"chat_id"`
	AgentType model.AgentType `json:"agent_type"`
	Message   model.Message   `json:"message"`
	EmittedAt time.Time       `json:"emitted_at"`
}

// Publisher publishes chat events to NATS. A nil Publisher is valid and
// publishes nothing.
type Publisher struct {
	conn   *nats.Conn
	logger *logger.Logger
}

// Connect establishes a NATS connection for event publishing.
func Connect(url string, log *logger.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{conn: conn, logger: log}, nil
}

// MessageAppended publishes a message-appended event. Failures are logged
// and dropped; event delivery never affects the conversation.
func (p *Publisher) MessageAppended(chatID string, agentType model.AgentType, msg model.Message) {
	if p == nil {
		return
	}

	event := MessageEvent{
		ChatID:    chatID,
		AgentType: agentType,
		Message:   msg,
		EmittedAt: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("failed to encode message event", zap.Error(err))
		return
	}

	subject := fmt.Sprintf("inventory.chats.%s.messages", chatID)
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn("failed to publish message event",
			zap.String("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Close()
}
