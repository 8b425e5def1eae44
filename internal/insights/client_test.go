package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, req openai.ChatCompletionRequest)) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		handler(w, req)
	}))
	t.Cleanup(server.Close)
	return NewClient("test-key", server.URL+"/v1", "test-model")
}

func TestGenerate_ReturnsReplyUntouched(t *testing.T) {
	reply := "  Spend less on **coffee**.\n"
	client := newTestServer(t, func(w http.ResponseWriter, req openai.ChatCompletionRequest) {
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 3)
		assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
		assert.Equal(t, `{"income":"10"}`, req.Messages[1].Content)
		assert.Equal(t, "Where can I save?", req.Messages[2].Content)

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
			}},
		})
	})

	text, err := client.Generate(context.Background(), `{"income":"10"}`, "Where can I save?")
	assert.NoError(t, err)
	assert.Equal(t, reply, text)
}

func TestGenerate_WithoutQuestion(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, req openai.ChatCompletionRequest) {
		assert.Len(t, req.Messages, 2)
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "ok"}}},
		})
	})

	text, err := client.Generate(context.Background(), "{}", "")
	assert.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestGenerate_NoChoices(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ openai.ChatCompletionRequest) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
	})

	_, err := client.Generate(context.Background(), "{}", "")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerate_APIError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ openai.ChatCompletionRequest) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit_error"}}`))
	})

	_, err := client.Generate(context.Background(), "{}", "")
	require.Error(t, err)

	var apiErr *openai.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.HTTPStatusCode)
}
