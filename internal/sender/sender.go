// Package sender provides the reply backends a chat can be resolved
// against: a timer-based simulation, an LLM-backed agent, or an upstream
// chat service speaking the wire contract.
package sender

import (
	"context"
	"time"

	"github.com/inventory-analyzer/chat-platform/internal/llm"
	"github.com/inventory-analyzer/chat-platform/internal/model"
	"github.com/inventory-analyzer/chat-platform/pkg/logger"
)

// Sender produces one assistant reply for a message sequence. It may fail;
// the caller absorbs failures into the conversation.
type Sender interface {
	// Send returns the assistant reply content for the given messages and
	// agent type.
	Send(ctx context.Context, messages []model.WireMessage, agentType model.AgentType) (string, error)

	// Name identifies the sender, for logs and metrics.
	Name() string
}

// Options selects and configures the sender implementation.
type Options struct {
	UpstreamURL     string
	SimulatedDelay  time.Duration
	AnthropicAPIKey string
	OpenAIAPIKey    string
	DefaultLLM      string
}

// New picks the richest available implementation: upstream if a URL is
// configured, an LLM agent if an API key is present, otherwise the
// simulation.
func New(opts Options, log *logger.Logger) Sender {
	if opts.UpstreamURL != "" {
		return NewUpstream(opts.UpstreamURL, nil)
	}

	provider := llm.Provider(opts.DefaultLLM)
	apiKey := opts.AnthropicAPIKey
	if provider == llm.ProviderOpenAI {
		apiKey = opts.OpenAIAPIKey
	}
	if apiKey != "" {
		client, err := llm.NewClient(provider, apiKey)
		if err == nil {
			return NewLLM(client)
		}
		log.Warn("failed to create LLM client, falling back to simulated replies")
	}

	return NewSimulated(opts.SimulatedDelay)
}
