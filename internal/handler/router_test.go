package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventory-analyzer/chat-platform/internal/faq"
	"github.com/inventory-analyzer/chat-platform/internal/model"
	"github.com/inventory-analyzer/chat-platform/internal/sender"
	"github.com/inventory-analyzer/chat-platform/internal/service"
	"github.com/inventory-analyzer/chat-platform/internal/session"
	"github.com/inventory-analyzer/chat-platform/pkg/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logger.NewNop()

	sessions := session.NewManager(time.Hour, log)
	t.Cleanup(sessions.Close)

	chatSvc := service.NewChatService(sender.NewSimulated(0), nil, log, 5*time.Second)
	faqSvc := faq.NewService("", time.Minute, nil, log)

	r := NewRouter(sessions, chatSvc, faqSvc, RouterConfig{}, log)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body, out interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func waitForReply(t *testing.T, client *http.Client, baseURL, chatID string, n int) *model.ChatResponse {
	t.Helper()
	var last model.ChatResponse
	require.Eventually(t, func() bool {
		resp, err := client.Get(baseURL + "/api/v1/chats/" + chatID)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return false
		}
		var cr model.ChatResponse
		if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
			return false
		}
		last = cr
		return cr.Chat != nil && len(cr.Chat.Messages) >= n && !cr.ReplyPending
	}, 2*time.Second, 10*time.Millisecond)
	return &last
}

func TestWelcomeScreenSendCreatesChatAndResolvesReply(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	var sent model.SendMessageResponse
	resp := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/messages",
		model.SendMessageRequest{Content: "What is the weather in Tokyo?"}, &sent)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, sent.Message)
	assert.Equal(t, model.RoleUser, sent.Message.Role)
	assert.True(t, sent.ReplyPending)

	var listing model.ListChatsResponse
	doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/chats", nil, &listing)
	require.Len(t, listing.Chats, 1)
	assert.Equal(t, sent.ChatID, listing.CurrentChatID)
	assert.Equal(t, "New Chat 1", listing.Chats[0].Title)

	cr := waitForReply(t, client, srv.URL, sent.ChatID, 2)
	require.Len(t, cr.Chat.Messages, 2)
	assert.Equal(t, "What is the weather in Tokyo?", cr.Chat.Messages[0].Content)
	assert.Equal(t, model.RoleAssistant, cr.Chat.Messages[1].Role)
	assert.Equal(t, `This is a simulated response to: "What is the weather in Tokyo?"`, cr.Chat.Messages[1].Content)
}

func TestSendToExistingChat(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	var chat model.Chat
	resp := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/chats", nil, &chat)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sent model.SendMessageResponse
	resp = doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/chats/"+chat.ID+"/messages",
		model.SendMessageRequest{Content: "hello"}, &sent)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, chat.ID, sent.ChatID)

	cr := waitForReply(t, client, srv.URL, chat.ID, 2)
	require.Len(t, cr.Chat.Messages, 2)
}

func TestAgentTypePinnedAtCreation(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	var agent model.AgentTypeResponse
	resp := doJSON(t, client, http.MethodPut, srv.URL+"/api/v1/agent",
		model.SetAgentTypeRequest{AgentType: model.AgentChatbot}, &agent)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.AgentChatbot, agent.AgentType)

	var chat model.Chat
	doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/chats", nil, &chat)
	assert.Equal(t, model.AgentChatbot, chat.AgentType)

	// Flipping the selector must not touch the existing chat.
	doJSON(t, client, http.MethodPut, srv.URL+"/api/v1/agent",
		model.SetAgentTypeRequest{AgentType: model.AgentSummary}, nil)

	var cr model.ChatResponse
	doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/chats/"+chat.ID, nil, &cr)
	assert.Equal(t, model.AgentChatbot, cr.Chat.AgentType)
}

func TestInvalidAgentTypeRejected(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	resp := doJSON(t, client, http.MethodPut, srv.URL+"/api/v1/agent",
		map[string]string{"agent_type": "oracle"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSelectUnknownChatKeepsSelection(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	var chat model.Chat
	doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/chats", nil, &chat)

	resp := doJSON(t, client, http.MethodPost,
		srv.URL+"/api/v1/chats/"+uuid.New().String()+"/select", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var listing model.ListChatsResponse
	doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/chats", nil, &listing)
	assert.Equal(t, chat.ID, listing.CurrentChatID)
}

func TestWelcomeClearsSelectionWithoutDeleting(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	var chat model.Chat
	doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/chats", nil, &chat)

	resp := doJSON(t, client, http.MethodDelete, srv.URL+"/api/v1/chats/current", nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var listing model.ListChatsResponse
	doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/chats", nil, &listing)
	require.Len(t, listing.Chats, 1)
	assert.Empty(t, listing.CurrentChatID)

	// Selecting it again restores the chat untouched.
	resp = doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/chats/"+chat.ID+"/select", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cr model.ChatResponse
	doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/chats/"+chat.ID, nil, &cr)
	assert.Empty(t, cr.Chat.Messages)
}

func TestEmptyContentRejectedBeforeStore(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	resp := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/messages",
		model.SendMessageRequest{Content: "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var listing model.ListChatsResponse
	doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/chats", nil, &listing)
	assert.Empty(t, listing.Chats, "no chat may be created for rejected input")
}

func TestFAQFallbackServed(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	var faqs model.FAQResponse
	resp := doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/faqs", nil, &faqs)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, faqs.FAQs, 4)
	assert.Equal(t, "What can Inventory Analyzer AI do?", faqs.FAQs[0].Question)
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	first := newClient(t)
	second := newClient(t)

	for i := 0; i < 2; i++ {
		doJSON(t, first, http.MethodPost, srv.URL+"/api/v1/chats", nil, nil)
	}

	var firstListing, secondListing model.ListChatsResponse
	doJSON(t, first, http.MethodGet, srv.URL+"/api/v1/chats", nil, &firstListing)
	doJSON(t, second, http.MethodGet, srv.URL+"/api/v1/chats", nil, &secondListing)

	assert.Len(t, firstListing.Chats, 2)
	assert.Empty(t, secondListing.Chats)
}

func TestChatListingTitlesAreSequential(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	for i := 0; i < 3; i++ {
		doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/chats", nil, nil)
	}

	var listing model.ListChatsResponse
	doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/chats", nil, &listing)
	require.Len(t, listing.Chats, 3)
	for i, chat := range listing.Chats {
		assert.Equal(t, fmt.Sprintf("New Chat %d", i+1), chat.Title)
	}
}
