// Package faq serves the welcome screen's quick-start prompts, with a
// fixed fallback set for when the upstream listing is unavailable.
package faq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/inventory-analyzer/chat-platform/internal/model"
	"github.com/inventory-analyzer/chat-platform/pkg/logger"
	"github.com/inventory-analyzer/chat-platform/pkg/metrics"
)

// fallback is served whenever the upstream cannot. Serving something here
// is mandatory: the welcome screen always shows prompts.
var fallback = []model.FAQ{
	{
		Question: "What can Inventory Analyzer AI do?",
		Answer:   "Inventory Analyzer AI helps you analyze and understand your inventory data through natural language conversations.",
	},
	{
		Question: "How do I start a new chat?",
		Answer:   "Click on the \"New Chat\" button in the header to start a new conversation.",
	},
	{
		Question: "What are the different agent types?",
		Answer:   "We offer two agent types: Summary Agent for condensed analysis and Chatbot Agent for detailed conversations.",
	},
	{
		Question: "Can I see my chat history?",
		Answer:   "Yes, all your previous chats are stored in the sidebar for easy access.",
	},
}

// Service fetches FAQs from an optional upstream with a TTL cache.
type Service struct {
	url    string
	ttl    time.Duration
	client *http.Client
	logger *logger.Logger

	mu        sync.Mutex
	cached    []model.FAQ
	fetchedAt time.Time
}

// NewService creates a FAQ service. An empty url means fallback-only. A
// nil client uses http.DefaultClient.
func NewService(url string, ttl time.Duration, client *http.Client, log *logger.Logger) *Service {
	if client == nil {
		client = http.DefaultClient
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		url:    url,
		ttl:    ttl,
		client: client,
		logger: log,
	}
}

// FAQs returns the current FAQ set. Upstream failures of any kind fall
// back to the fixed set; this method never returns an error.
func (s *Service) FAQs(ctx context.Context) []model.FAQ {
	if s.url == "" {
		return fallback
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.fetchedAt) < s.ttl {
		return s.cached
	}

	faqs, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("FAQ fetch failed, serving fallback", zap.Error(err))
		metrics.FAQFallbacksTotal.Inc()
		if s.cached != nil {
			return s.cached
		}
		return fallback
	}

	s.cached = faqs
	s.fetchedAt = time.Now()
	return faqs
}

func (s *Service) fetch(ctx context.Context) ([]model.FAQ, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build FAQ request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FAQ request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FAQ upstream returned status %d", resp.StatusCode)
	}

	var listing model.FAQResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode FAQ response: %w", err)
	}
	if len(listing.FAQs) == 0 {
		return nil, fmt.Errorf("FAQ upstream returned no entries")
	}

	return listing.FAQs, nil
}

// Fallback returns a copy of the fixed fallback set.
func Fallback() []model.FAQ {
	out := make([]model.FAQ, len(fallback))
	copy(out, fallback)
	return out
}
