package sender

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventory-analyzer/chat-platform/internal/model"
)

func TestUpstreamWireContract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req model.ChatCompletionRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		assert.Equal(t, model.AgentChatbot, req.AgentType)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, model.RoleUser, req.Messages[0].Role)
			assert.Equal(t, "list low stock items", req.Messages[0].Content)
		}

		json.NewEncoder(w).Encode(model.ChatCompletionResponse{
			Message: model.WireMessage{Content: "three items are low", Role: model.RoleAssistant},
			ChatID:  "upstream-chat",
		})
	}))
	defer srv.Close()

	s := NewUpstream(srv.URL, srv.Client())
	reply, err := s.Send(context.Background(), []model.WireMessage{
		{Role: model.RoleUser, Content: "list low stock items"},
		{Role: model.RoleAssistant, Content: "checking"},
	}, model.AgentChatbot)
	require.NoError(t, err)
	assert.Equal(t, "three items are low", reply)
}

func TestUpstreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewUpstream(srv.URL, srv.Client())
	_, err := s.Send(context.Background(), []model.WireMessage{
		{Role: model.RoleUser, Content: "hi"},
	}, model.AgentSummary)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestUpstreamBadResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	s := NewUpstream(srv.URL, srv.Client())
	_, err := s.Send(context.Background(), []model.WireMessage{
		{Role: model.RoleUser, Content: "hi"},
	}, model.AgentSummary)
	require.Error(t, err)
}
