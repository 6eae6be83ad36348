package sender

import (
	"context"
	"fmt"
	"strings"

	"github.com/inventory-analyzer/chat-platform/internal/llm"
	"github.com/inventory-analyzer/chat-platform/internal/model"
)

const chatbotPreamble = `You are Inventory Analyzer AI, an assistant that helps
users understand and act on their inventory data. Answer questions about stock
levels, turnover, reorder points, and demand trends in clear, simple terms.
Disclose uncertainty rather than guessing, and ask clarifying questions when
the data needed to answer is missing.`

const emptySummaryReply = "There's no content to summarize. Please provide some text or questions to generate a summary."

// LLM resolves replies through an LLM client, with a persona chosen by the
// chat's agent type.
type LLM struct {
	client llm.Client
}

// NewLLM creates an LLM-backed sender.
func NewLLM(client llm.Client) *LLM {
	return &LLM{client: client}
}

// Name returns the underlying provider name.
func (s *LLM) Name() string {
	return s.client.Name()
}

// Send completes the conversation with the agent persona applied.
func (s *LLM) Send(ctx context.Context, messages []model.WireMessage, agentType model.AgentType) (string, error) {
	var chatMessages []llm.ChatMessage

	switch agentType {
	case model.AgentSummary:
		prompt, ok := summaryPrompt(messages)
		if !ok {
			return emptySummaryReply, nil
		}
		chatMessages = []llm.ChatMessage{{Role: string(model.RoleUser), Content: prompt}}
	default:
		chatMessages = chatbotMessages(messages)
	}

	resp, err := s.client.Complete(ctx, &llm.CompletionRequest{
		Messages:    chatMessages,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	return resp.Content, nil
}

// chatbotMessages prepends the persona to the first user turn and passes
// the rest of the history through as-is.
func chatbotMessages(messages []model.WireMessage) []llm.ChatMessage {
	out := make([]llm.ChatMessage, 0, len(messages))
	prefixed := false
	for _, msg := range messages {
		content := msg.Content
		if !prefixed && msg.Role == model.RoleUser {
			content = chatbotPreamble + "\n\n" + content
			prefixed = true
		}
		out = append(out, llm.ChatMessage{Role: string(msg.Role), Content: content})
	}
	return out
}

// summaryPrompt builds the summarization request over the user's turns.
// ok is false when there is nothing to summarize.
func summaryPrompt(messages []model.WireMessage) (string, bool) {
	var texts []string
	for _, msg := range messages {
		if msg.Role != model.RoleAssistant {
			texts = append(texts, msg.Content)
		}
	}

	combined := strings.TrimSpace(strings.Join(texts, "\n"))
	if combined == "" {
		return "", false
	}

	return "Please provide a concise summary of the following conversation:\n" + combined, true
}
