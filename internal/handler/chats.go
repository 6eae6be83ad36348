// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/inventory-analyzer/chat-platform/internal/middleware"
	"github.com/inventory-analyzer/chat-platform/internal/model"
	"github.com/inventory-analyzer/chat-platform/internal/service"
	"github.com/inventory-analyzer/chat-platform/internal/session"
	"github.com/inventory-analyzer/chat-platform/internal/store"
	"github.com/inventory-analyzer/chat-platform/pkg/logger"
)

// ChatHandler handles chat collection endpoints.
type ChatHandler struct {
	sessions *session.Manager
	service  *service.ChatService
	logger   *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(sessions *session.Manager, svc *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		sessions: sessions,
		service:  svc,
		logger:   log,
	}
}

func (h *ChatHandler) store(r *http.Request) *store.Conversations {
	return h.sessions.Store(middleware.GetSessionID(r.Context()))
}

// Create handles POST /api/v1/chats
func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	chat := h.service.CreateChat(h.store(r))
	writeJSON(w, http.StatusCreated, chat)
}

// List handles GET /api/v1/chats
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	convs := h.store(r)
	writeJSON(w, http.StatusOK, &model.ListChatsResponse{
		Chats:         convs.Chats(),
		CurrentChatID: convs.CurrentChatID(),
	})
}

// Get handles GET /api/v1/chats/:id
func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "id")
	if err := middleware.ValidateChatID(chatID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	convs := h.store(r)
	chat, err := convs.Get(chatID)
	if err != nil {
		writeError(w, http.StatusNotFound, "chat not found")
		return
	}

	writeJSON(w, http.StatusOK, &model.ChatResponse{
		Chat:         chat,
		ReplyPending: convs.ReplyPending(chatID),
	})
}

// Select handles POST /api/v1/chats/:id/select. An unknown id returns 404
// and leaves the current selection untouched.
func (h *ChatHandler) Select(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "id")
	if err := middleware.ValidateChatID(chatID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	convs := h.store(r)
	if err := convs.SelectChat(chatID); err != nil {
		writeError(w, http.StatusNotFound, "chat not found")
		return
	}

	chat, err := convs.Get(chatID)
	if err != nil {
		h.logger.Error("selected chat vanished", zap.String("chat_id", chatID))
		writeError(w, http.StatusInternalServerError, "failed to load chat")
		return
	}

	writeJSON(w, http.StatusOK, &model.ChatResponse{
		Chat:         chat,
		ReplyPending: convs.ReplyPending(chatID),
	})
}

// Welcome handles DELETE /api/v1/chats/current: back to the welcome
// screen. No chat is modified.
func (h *ChatHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	h.store(r).GoToWelcome()
	w.WriteHeader(http.StatusNoContent)
}
