package handler

import (
	"net/http"

	"github.com/inventory-analyzer/chat-platform/internal/faq"
	"github.com/inventory-analyzer/chat-platform/internal/model"
)

// FAQHandler serves the welcome screen's quick-start prompts.
type FAQHandler struct {
	service *faq.Service
}

// NewFAQHandler creates a new FAQ handler.
func NewFAQHandler(svc *faq.Service) *FAQHandler {
	return &FAQHandler{service: svc}
}

// List handles GET /api/v1/faqs. Never fails: the fallback set is served
// when the upstream is unavailable.
func (h *FAQHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &model.FAQResponse{
		FAQs: h.service.FAQs(r.Context()),
	})
}
