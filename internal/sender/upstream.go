package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/inventory-analyzer/chat-platform/internal/model"
)

// Upstream forwards the conversation to a chat backend over HTTP. The
// request carries the prior messages plus the agent type tag; only
// message.content is consumed from the response.
type Upstream struct {
	url    string
	client *http.Client
}

// NewUpstream creates an upstream sender. A nil client uses
// http.DefaultClient.
func NewUpstream(url string, client *http.Client) *Upstream {
	if client == nil {
		client = http.DefaultClient
	}
	return &Upstream{url: url, client: client}
}

// Name returns the sender name.
func (s *Upstream) Name() string {
	return "upstream"
}

// Send posts the conversation and returns the assistant reply content.
func (s *Upstream) Send(ctx context.Context, messages []model.WireMessage, agentType model.AgentType) (string, error) {
	body, err := json.Marshal(model.ChatCompletionRequest{
		Messages:  messages,
		AgentType: agentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat backend returned status %d", resp.StatusCode)
	}

	var chatResp model.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	return chatResp.Message.Content, nil
}
