package handler

import (
	"encoding/json"
	"net/http"

	"github.com/inventory-analyzer/chat-platform/internal/middleware"
	"github.com/inventory-analyzer/chat-platform/internal/model"
	"github.com/inventory-analyzer/chat-platform/internal/session"
	"github.com/inventory-analyzer/chat-platform/pkg/logger"
)

// AgentHandler handles the agent type selector.
type AgentHandler struct {
	sessions *session.Manager
	logger   *logger.Logger
}

// NewAgentHandler creates a new agent handler.
func NewAgentHandler(sessions *session.Manager, log *logger.Logger) *AgentHandler {
	return &AgentHandler{
		sessions: sessions,
		logger:   log,
	}
}

// Get handles GET /api/v1/agent
func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	convs := h.sessions.Store(middleware.GetSessionID(r.Context()))
	writeJSON(w, http.StatusOK, &model.AgentTypeResponse{
		AgentType: convs.AgentType(),
	})
}

// Set handles PUT /api/v1/agent. Only chats created afterwards use the
// new type; existing chats are untouched.
func (h *AgentHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req model.SetAgentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateAgentType(req.AgentType); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	convs := h.sessions.Store(middleware.GetSessionID(r.Context()))
	convs.SetAgentType(req.AgentType)

	writeJSON(w, http.StatusOK, &model.AgentTypeResponse{
		AgentType: convs.AgentType(),
	})
}
