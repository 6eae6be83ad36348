package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inventory-analyzer/chat-platform/internal/middleware"
	"github.com/inventory-analyzer/chat-platform/internal/model"
	"github.com/inventory-analyzer/chat-platform/internal/service"
	"github.com/inventory-analyzer/chat-platform/internal/session"
	"github.com/inventory-analyzer/chat-platform/internal/store"
	"github.com/inventory-analyzer/chat-platform/pkg/logger"
)

// MessageHandler handles the send flow endpoints.
type MessageHandler struct {
	sessions *session.Manager
	service  *service.ChatService
	logger   *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(sessions *session.Manager, svc *service.ChatService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		sessions: sessions,
		service:  svc,
		logger:   log,
	}
}

// Send handles POST /api/v1/chats/:id/messages. The user message is
// appended and returned immediately; the assistant reply resolves
// asynchronously, so the response is 202 with reply_pending set.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "id")
	if err := middleware.ValidateChatID(chatID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	convs := h.sessions.Store(middleware.GetSessionID(r.Context()))
	userMsg, err := h.service.Send(r.Context(), convs, chatID, req.Content)
	if err != nil {
		writeSendError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, &model.SendMessageResponse{
		ChatID:       chatID,
		Message:      userMsg,
		ReplyPending: true,
	})
}

// Start handles POST /api/v1/messages: the welcome-screen flow. A new
// chat is created with the selected agent type and the message is sent
// into it in one step.
func (h *MessageHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	convs := h.sessions.Store(middleware.GetSessionID(r.Context()))
	chat, userMsg, err := h.service.StartChat(r.Context(), convs, req.Content)
	if err != nil {
		writeSendError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, &model.SendMessageResponse{
		ChatID:       chat.ID,
		Message:      userMsg,
		ReplyPending: true,
	})
}

func writeSendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrUnknownChat):
		writeError(w, http.StatusNotFound, "chat not found")
	case errors.Is(err, store.ErrNoCurrentChat):
		writeError(w, http.StatusConflict, "no current chat")
	case errors.Is(err, store.ErrReplyPending):
		writeError(w, http.StatusConflict, "a reply is still pending for this chat")
	default:
		writeError(w, http.StatusInternalServerError, "failed to send message")
	}
}
