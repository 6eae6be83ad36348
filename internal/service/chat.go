// Package service implements the send flow: optimistic user append, async
// reply resolution, and failure absorption.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/inventory-analyzer/chat-platform/internal/events"
	"github.com/inventory-analyzer/chat-platform/internal/model"
	"github.com/inventory-analyzer/chat-platform/internal/sender"
	"github.com/inventory-analyzer/chat-platform/internal/store"
	"github.com/inventory-analyzer/chat-platform/pkg/logger"
	"github.com/inventory-analyzer/chat-platform/pkg/metrics"
)

// ErrorReply is appended in place of an assistant reply when resolution
// fails. The conversation stays usable afterward.
const ErrorReply = "Sorry, there was an error processing your request. Please try again."

// ErrEmptyMessage is returned when the submitted text is empty after
// trimming. Nothing is appended.
var ErrEmptyMessage = errors.New("message content is empty")

// ChatService orchestrates sends against a conversation store. The store
// is passed per call: each session owns its own store, while one service
// is shared by all sessions.
type ChatService struct {
	sender      sender.Sender
	publisher   *events.Publisher
	logger      *logger.Logger
	sendTimeout time.Duration
}

// NewChatService creates a chat service. publisher may be nil.
func NewChatService(snd sender.Sender, publisher *events.Publisher, log *logger.Logger, sendTimeout time.Duration) *ChatService {
	if sendTimeout <= 0 {
		sendTimeout = 60 * time.Second
	}
	return &ChatService{
		sender:      snd,
		publisher:   publisher,
		logger:      log,
		sendTimeout: sendTimeout,
	}
}

// CreateChat creates a new empty chat and selects it.
func (s *ChatService) CreateChat(convs *store.Conversations) *model.Chat {
	chat := convs.NewChat()
	metrics.ChatsTotal.WithLabelValues(string(chat.AgentType)).Inc()
	return chat
}

// Send submits user text to the chat with the given id. The user message
// is appended synchronously and returned; the assistant reply resolves
// asynchronously into the same chat, regardless of where the selection
// moves in the meantime. A second send while a reply is outstanding fails
// with store.ErrReplyPending.
func (s *ChatService) Send(ctx context.Context, convs *store.Conversations, chatID, text string) (*model.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	if chatID == "" {
		chatID = convs.CurrentChatID()
		if chatID == "" {
			return nil, store.ErrNoCurrentChat
		}
	}

	if err := convs.BeginSend(chatID); err != nil {
		return nil, err
	}

	userMsg, err := convs.AppendTo(chatID, trimmed, model.RoleUser)
	if err != nil {
		convs.EndSend(chatID)
		return nil, err
	}
	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()

	chat, err := convs.Get(chatID)
	if err != nil {
		convs.EndSend(chatID)
		return nil, err
	}
	s.publisher.MessageAppended(chatID, chat.AgentType, *userMsg)

	history := make([]model.WireMessage, len(chat.Messages))
	for i, msg := range chat.Messages {
		history[i] = msg.Wire()
	}

	metrics.RepliesPending.Inc()
	go s.resolve(convs, chatID, chat.AgentType, history)

	return userMsg, nil
}

// StartChat is the welcome-screen flow: create a chat with the selected
// agent type, select it, and send the first message in one step.
func (s *ChatService) StartChat(ctx context.Context, convs *store.Conversations, text string) (*model.Chat, *model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrEmptyMessage
	}

	chat := s.CreateChat(convs)
	userMsg, err := s.Send(ctx, convs, chat.ID, text)
	if err != nil {
		return nil, nil, err
	}

	return chat, userMsg, nil
}

// resolve runs on its own goroutine, detached from the originating
// request: navigating away from a chat does not cancel its in-flight
// reply.
func (s *ChatService) resolve(convs *store.Conversations, chatID string, agentType model.AgentType, history []model.WireMessage) {
	defer metrics.RepliesPending.Dec()
	defer convs.EndSend(chatID)

	ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
	defer cancel()

	start := time.Now()
	content, err := s.sender.Send(ctx, history, agentType)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		s.logger.Warn("reply resolution failed",
			zap.String("chat_id", chatID),
			zap.String("sender", s.sender.Name()),
			zap.Error(err),
		)
		metrics.SendFailuresTotal.Inc()
		metrics.RecordReply(s.sender.Name(), "error", elapsed)
		content = ErrorReply
	} else {
		metrics.RecordReply(s.sender.Name(), "success", elapsed)
	}

	reply, err := convs.AppendTo(chatID, content, model.RoleAssistant)
	if err != nil {
		// Chats are never deleted, so the originating chat must resolve.
		s.logger.Error("reply dropped, originating chat missing",
			zap.String("chat_id", chatID),
			zap.Error(err),
		)
		return
	}

	metrics.MessagesTotal.WithLabelValues(string(model.RoleAssistant)).Inc()
	s.publisher.MessageAppended(chatID, agentType, *reply)
}
