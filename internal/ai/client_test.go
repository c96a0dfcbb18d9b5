package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClientDisabled(t *testing.T) {
	client := NewClient(Config{Enabled: false}, zap.NewNop())

	assert.Nil(t, client.RequestEvent(context.Background(), EventRequest{}))
	assert.Equal(t, FallbackDialogue, client.RequestDialogue(context.Background(), DialogueRequest{}))
}

func TestClientRequestEvent(t *testing.T) {
	t.Run("正常响应", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/event", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var payload struct {
				Model string       `json:"model"`
				Input EventRequest `json:"input"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "infernal-v1", payload.Model)
			assert.Equal(t, "ashen-market", payload.Input.Location)

			json.NewEncoder(w).Encode(GeneratedEvent{
				Title:       "A Stranger's Bargain",
				Description: "A cloaked figure offers you a deal.",
				Choices: []GeneratedChoice{
					{ID: "accept", Text: "Accept", StatChanges: map[string]int{"corruption": 2}},
				},
			})
		}))
		defer server.Close()

		client := NewClient(Config{
			Enabled: true,
			BaseURL: server.URL,
			APIKey:  "test-key",
			Model:   "infernal-v1",
		}, zap.NewNop())

		event := client.RequestEvent(context.Background(), EventRequest{Location: "ashen-market"})
		require.NotNil(t, event)
		assert.Equal(t, "A Stranger's Bargain", event.Title)
		require.Len(t, event.Choices, 1)
		assert.Equal(t, 2, event.Choices[0].StatChanges["corruption"])
	})

	t.Run("响应不完整时降级", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(GeneratedEvent{Title: "No Choices"})
		}))
		defer server.Close()

		client := NewClient(Config{Enabled: true, BaseURL: server.URL}, zap.NewNop())
		assert.Nil(t, client.RequestEvent(context.Background(), EventRequest{}))
	})

	t.Run("服务错误时降级", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(Config{Enabled: true, BaseURL: server.URL}, zap.NewNop())
		assert.Nil(t, client.RequestEvent(context.Background(), EventRequest{}))
	})

	t.Run("服务不可达时降级", func(t *testing.T) {
		client := NewClient(Config{Enabled: true, BaseURL: "http://127.0.0.1:1"}, zap.NewNop())
		assert.Nil(t, client.RequestEvent(context.Background(), EventRequest{}))
	})
}

func TestClientRequestDialogue(t *testing.T) {
	t.Run("正常响应", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/dialogue", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]string{"dialogue": "The streets whisper your name."})
		}))
		defer server.Close()

		client := NewClient(Config{Enabled: true, BaseURL: server.URL}, zap.NewNop())
		dialogue := client.RequestDialogue(context.Background(), DialogueRequest{NPCName: "Vex"})
		assert.Equal(t, "The streets whisper your name.", dialogue)
	})

	t.Run("空对话降级", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"dialogue": ""})
		}))
		defer server.Close()

		client := NewClient(Config{Enabled: true, BaseURL: server.URL}, zap.NewNop())
		assert.Equal(t, FallbackDialogue, client.RequestDialogue(context.Background(), DialogueRequest{}))
	})

	t.Run("服务错误时降级", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewClient(Config{Enabled: true, BaseURL: server.URL}, zap.NewNop())
		assert.Equal(t, FallbackDialogue, client.RequestDialogue(context.Background(), DialogueRequest{}))
	})
}

func TestDisabledGenerator(t *testing.T) {
	var g Generator = Disabled{}
	assert.Nil(t, g.RequestEvent(context.Background(), EventRequest{}))
	assert.Equal(t, FallbackDialogue, g.RequestDialogue(context.Background(), DialogueRequest{}))
}
