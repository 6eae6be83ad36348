package sender

import (
	"context"
	"fmt"
	"time"

	"github.com/inventory-analyzer/chat-platform/internal/model"
)

// Simulated produces a canned reply after a fixed delay, echoing the last
// user message.
type Simulated struct {
	delay time.Duration
}

// NewSimulated creates a simulated sender with the given reply delay.
func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{delay: delay}
}

// Name returns the sender name.
func (s *Simulated) Name() string {
	return "simulated"
}

// Send waits for the configured delay and echoes the last user message.
func (s *Simulated) Send(ctx context.Context, messages []model.WireMessage, agentType model.AgentType) (string, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Sprintf("This is a simulated response to: %q", lastUserContent(messages)), nil
}

func lastUserContent(messages []model.WireMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == model.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
