package model

// ChatCompletionRequest is the outbound request to a chat backend: the
// prior message sequence plus the chat's agent type tag.
type ChatCompletionRequest struct {
	Messages  []WireMessage `json:"messages"`
	AgentType AgentType     `json:"agent_type"`
}

// ChatCompletionResponse is the backend's reply. Only Message.Content is
// consumed to produce the assistant message.
type ChatCompletionResponse struct {
	Message WireMessage `json:"message"`
	ChatID  string      `json:"chat_id"`
}

// FAQ is a quick-start prompt shown on the welcome screen.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQResponse is the FAQ listing shape, both upstream and outbound.
type FAQResponse struct {
	FAQs []FAQ `json:"faqs"`
}
