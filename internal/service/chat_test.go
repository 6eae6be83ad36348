package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventory-analyzer/chat-platform/internal/model"
	"github.com/inventory-analyzer/chat-platform/internal/store"
	"github.com/inventory-analyzer/chat-platform/pkg/logger"
)

// fakeSender resolves replies through a test-provided function.
type fakeSender struct {
	fn func(ctx context.Context, messages []model.WireMessage, agentType model.AgentType) (string, error)
}

func (f *fakeSender) Name() string { return "fake" }

func (f *fakeSender) Send(ctx context.Context, messages []model.WireMessage, agentType model.AgentType) (string, error) {
	return f.fn(ctx, messages, agentType)
}

func newTestService(fn func(ctx context.Context, messages []model.WireMessage, agentType model.AgentType) (string, error)) *ChatService {
	return NewChatService(&fakeSender{fn: fn}, nil, logger.NewNop(), 5*time.Second)
}

func echoSender(ctx context.Context, messages []model.WireMessage, agentType model.AgentType) (string, error) {
	return "echo: " + messages[len(messages)-1].Content, nil
}

func waitForMessages(t *testing.T, convs *store.Conversations, chatID string, n int) *model.Chat {
	t.Helper()
	require.Eventually(t, func() bool {
		chat, err := convs.Get(chatID)
		return err == nil && len(chat.Messages) >= n && !convs.ReplyPending(chatID)
	}, 2*time.Second, 5*time.Millisecond)

	chat, err := convs.Get(chatID)
	require.NoError(t, err)
	return chat
}

func TestSendAppendsUserMessageBeforeReply(t *testing.T) {
	convs := store.New(logger.NewNop())
	release := make(chan struct{})
	svc := newTestService(func(ctx context.Context, messages []model.WireMessage, agentType model.AgentType) (string, error) {
		<-release
		return "reply", nil
	})

	chat := svc.CreateChat(convs)
	userMsg, err := svc.Send(context.Background(), convs, chat.ID, "  hello  ")
	require.NoError(t, err)

	// The optimistic append is visible immediately, reply still pending.
	assert.Equal(t, "hello", userMsg.Content)
	assert.Equal(t, model.RoleUser, userMsg.Role)
	got, err := convs.Get(chat.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.True(t, convs.ReplyPending(chat.ID))

	close(release)
	got = waitForMessages(t, convs, chat.ID, 2)
	assert.Equal(t, model.RoleAssistant, got.Messages[1].Role)
	assert.Equal(t, "reply", got.Messages[1].Content)
}

func TestSendRejectsEmptyText(t *testing.T) {
	convs := store.New(logger.NewNop())
	svc := newTestService(echoSender)
	chat := svc.CreateChat(convs)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.Send(context.Background(), convs, chat.ID, text)
		require.ErrorIs(t, err, ErrEmptyMessage)
	}

	got, err := convs.Get(chat.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Messages)
	assert.False(t, convs.ReplyPending(chat.ID))
}

func TestSendWithoutCurrentChat(t *testing.T) {
	convs := store.New(logger.NewNop())
	svc := newTestService(echoSender)

	_, err := svc.Send(context.Background(), convs, "", "hello")
	require.ErrorIs(t, err, store.ErrNoCurrentChat)
	assert.Zero(t, convs.Len())
}

func TestSendRejectsWhileReplyPending(t *testing.T) {
	convs := store.New(logger.NewNop())
	release := make(chan struct{})
	svc := newTestService(func(ctx context.Context, messages []model.WireMessage, agentType model.AgentType) (string, error) {
		<-release
		return "reply", nil
	})

	chat := svc.CreateChat(convs)
	_, err := svc.Send(context.Background(), convs, chat.ID, "first")
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), convs, chat.ID, "second")
	require.ErrorIs(t, err, store.ErrReplyPending)

	close(release)
	got := waitForMessages(t, convs, chat.ID, 2)
	require.Len(t, got.Messages, 2)

	// The lock is released after resolution; a new send is accepted.
	_, err = svc.Send(context.Background(), convs, chat.ID, "third")
	require.NoError(t, err)
	waitForMessages(t, convs, chat.ID, 4)
}

func TestSendFailureAbsorbedAsErrorReply(t *testing.T) {
	convs := store.New(logger.NewNop())
	svc := newTestService(func(ctx context.Context, messages []model.WireMessage, agentType model.AgentType) (string, error) {
		return "", errors.New("backend down")
	})

	chat := svc.CreateChat(convs)
	_, err := svc.Send(context.Background(), convs, chat.ID, "hello")
	require.NoError(t, err)

	got := waitForMessages(t, convs, chat.ID, 2)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, model.RoleAssistant, got.Messages[1].Role)
	assert.Equal(t, ErrorReply, got.Messages[1].Content)

	// The conversation stays usable: the next send is accepted.
	_, err = svc.Send(context.Background(), convs, chat.ID, "try again")
	require.NoError(t, err)
	waitForMessages(t, convs, chat.ID, 4)
}

func TestStartChatFromWelcomeScreen(t *testing.T) {
	convs := store.New(logger.NewNop())
	svc := newTestService(echoSender)

	chat, userMsg, err := svc.StartChat(context.Background(), convs, "What is the weather in Tokyo?")
	require.NoError(t, err)
	require.Equal(t, 1, convs.Len())
	assert.Equal(t, chat.ID, convs.CurrentChatID())
	assert.Equal(t, "What is the weather in Tokyo?", userMsg.Content)

	got := waitForMessages(t, convs, chat.ID, 2)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, model.RoleUser, got.Messages[0].Role)
	assert.Equal(t, "What is the weather in Tokyo?", got.Messages[0].Content)
	assert.Equal(t, model.RoleAssistant, got.Messages[1].Role)
	assert.Equal(t, "echo: What is the weather in Tokyo?", got.Messages[1].Content)
}

func TestStartChatRejectsEmptyText(t *testing.T) {
	convs := store.New(logger.NewNop())
	svc := newTestService(echoSender)

	_, _, err := svc.StartChat(context.Background(), convs, "  ")
	require.ErrorIs(t, err, ErrEmptyMessage)
	assert.Zero(t, convs.Len())
}

func TestStartChatPinsSelectedAgentType(t *testing.T) {
	convs := store.New(logger.NewNop())
	svc := newTestService(echoSender)

	convs.SetAgentType(model.AgentChatbot)
	chat, _, err := svc.StartChat(context.Background(), convs, "hi")
	require.NoError(t, err)
	assert.Equal(t, model.AgentChatbot, chat.AgentType)

	convs.SetAgentType(model.AgentSummary)
	got := waitForMessages(t, convs, chat.ID, 2)
	assert.Equal(t, model.AgentChatbot, got.AgentType)
}

func TestConcurrentSendsResolveToOriginatingChats(t *testing.T) {
	convs := store.New(logger.NewNop())

	releaseA := make(chan struct{})
	releaseB := make(chan struct{})
	svc := newTestService(func(ctx context.Context, messages []model.WireMessage, agentType model.AgentType) (string, error) {
		last := messages[len(messages)-1].Content
		if last == "question A" {
			<-releaseA
			return "reply A", nil
		}
		<-releaseB
		return "reply B", nil
	})

	chatA := svc.CreateChat(convs)
	_, err := svc.Send(context.Background(), convs, chatA.ID, "question A")
	require.NoError(t, err)

	chatB := svc.CreateChat(convs)
	_, err = svc.Send(context.Background(), convs, chatB.ID, "question B")
	require.NoError(t, err)

	// Navigate away entirely; resolution must not follow the selection.
	convs.GoToWelcome()

	// Resolve B first, then A.
	close(releaseB)
	gotB := waitForMessages(t, convs, chatB.ID, 2)
	close(releaseA)
	gotA := waitForMessages(t, convs, chatA.ID, 2)

	require.Len(t, gotA.Messages, 2)
	assert.Equal(t, "reply A", gotA.Messages[1].Content)
	require.Len(t, gotB.Messages, 2)
	assert.Equal(t, "reply B", gotB.Messages[1].Content)
	assert.Empty(t, convs.CurrentChatID())
}
