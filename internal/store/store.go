// Package store implements the in-memory conversation state for one
// session: the chat collection, the current selection, the selected agent
// type, and the per-chat pending-reply locks.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inventory-analyzer/chat-platform/internal/model"
	"github.com/inventory-analyzer/chat-platform/pkg/logger"
)

var (
	// ErrNoCurrentChat is returned when an operation requires an active
	// chat and none is selected (welcome state).
	ErrNoCurrentChat = errors.New("no current chat")

	// ErrUnknownChat is returned when a chat id does not resolve.
	ErrUnknownChat = errors.New("chat not found")

	// ErrReplyPending is returned when a send is attempted on a chat that
	// already has a reply outstanding.
	ErrReplyPending = errors.New("reply already pending for chat")
)

// Conversations owns all conversation state for a single session. All
// methods are safe for concurrent use; async reply resolutions arrive on
// their own goroutines.
type Conversations struct {
	mu sync.RWMutex

	chats   map[string]*model.Chat
	order   []string // chat ids in creation order, for display
	current string   // empty means welcome state
	agent   model.AgentType
	pending map[string]struct{} // chat ids with an outstanding reply

	logger *logger.Logger
}

// New creates an empty conversation store. The selected agent type
// defaults to the summary agent.
func New(log *logger.Logger) *Conversations {
	return &Conversations{
		chats:   make(map[string]*model.Chat),
		pending: make(map[string]struct{}),
		agent:   model.AgentSummary,
		logger:  log,
	}
}

// SetAgentType sets the agent type used for chats created from now on.
// Existing chats, including the current one, keep their agent type.
func (s *Conversations) SetAgentType(t model.AgentType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agent = t
}

// AgentType returns the currently selected agent type.
func (s *Conversations) AgentType() model.AgentType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agent
}

// NewChat creates an empty chat with the selected agent type, appends it
// to the collection, and makes it the current chat.
func (s *Conversations) NewChat() *model.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	chat := &model.Chat{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Title:       fmt.Sprintf("New Chat %d", len(s.order)+1),
		AgentType:   s.agent,
		CreatedAt:   now,
		LastUpdated: now,
	}

	s.chats[chat.ID] = chat
	s.order = append(s.order, chat.ID)
	s.current = chat.ID

	s.logger.Info("chat created",
		zap.String("chat_id", chat.ID),
		zap.String("agent_type", string(chat.AgentType)),
	)

	return snapshot(chat)
}

// AddMessage appends a message to the current chat. With no current chat
// the message is dropped: a warning is logged and ErrNoCurrentChat is
// returned, but no state changes.
func (s *Conversations) AddMessage(content string, role model.Role) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == "" {
		s.logger.Warn("message dropped, no current chat", zap.String("role", string(role)))
		return nil, ErrNoCurrentChat
	}
	return s.appendLocked(s.current, content, role)
}

// AppendTo appends a message to the chat with the given id. This is the
// resolution path for async replies: the originating chat is targeted by
// id, never by the current selection, which may have moved on.
func (s *Conversations) AppendTo(chatID, content string, role model.Role) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(chatID, content, role)
}

func (s *Conversations) appendLocked(chatID, content string, role model.Role) (*model.Message, error) {
	chat, ok := s.chats[chatID]
	if !ok {
		return nil, ErrUnknownChat
	}

	msg := model.Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Content:   content,
		Role:      role,
		Timestamp: time.Now(),
	}
	chat.Messages = append(chat.Messages, msg)
	chat.LastUpdated = msg.Timestamp

	return &msg, nil
}

// SelectChat makes the chat with the given id current. An unknown id
// leaves the selection unchanged and returns ErrUnknownChat.
func (s *Conversations) SelectChat(chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[chatID]; !ok {
		s.logger.Warn("select ignored, unknown chat", zap.String("chat_id", chatID))
		return ErrUnknownChat
	}
	s.current = chatID
	return nil
}

// GoToWelcome clears the current selection. No chat is modified.
func (s *Conversations) GoToWelcome() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
}

// CurrentChatID returns the id of the current chat, or "" in the welcome
// state.
func (s *Conversations) CurrentChatID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentChat returns a snapshot of the current chat, or nil in the
// welcome state.
func (s *Conversations) CurrentChat() *model.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == "" {
		return nil
	}
	return snapshot(s.chats[s.current])
}

// Get returns a snapshot of the chat with the given id.
func (s *Conversations) Get(chatID string) (*model.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chat, ok := s.chats[chatID]
	if !ok {
		return nil, ErrUnknownChat
	}
	return snapshot(chat), nil
}

// Chats returns summaries of all chats in creation order.
func (s *Conversations) Chats() []model.ChatSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ChatSummary, 0, len(s.order))
	for _, id := range s.order {
		chat := s.chats[id]
		out = append(out, model.ChatSummary{
			ID:           chat.ID,
			Title:        chat.Title,
			AgentType:    chat.AgentType,
			MessageCount: len(chat.Messages),
			CreatedAt:    chat.CreatedAt,
			LastUpdated:  chat.LastUpdated,
			Current:      chat.ID == s.current,
		})
	}
	return out
}

// Len returns the number of chats.
func (s *Conversations) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// BeginSend acquires the pending-reply lock for a chat. It fails with
// ErrReplyPending if a reply is already outstanding, and with
// ErrUnknownChat if the chat does not exist. Locks on different chats are
// independent.
func (s *Conversations) BeginSend(chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[chatID]; !ok {
		return ErrUnknownChat
	}
	if _, busy := s.pending[chatID]; busy {
		return ErrReplyPending
	}
	s.pending[chatID] = struct{}{}
	return nil
}

// EndSend releases the pending-reply lock for a chat. Safe to call for a
// chat that holds no lock.
func (s *Conversations) EndSend(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, chatID)
}

// ReplyPending reports whether a reply is outstanding for the chat.
func (s *Conversations) ReplyPending(chatID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, busy := s.pending[chatID]
	return busy
}

// snapshot copies a chat so callers never alias the live message slice.
func snapshot(c *model.Chat) *model.Chat {
	out := *c
	out.Messages = make([]model.Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return &out
}
