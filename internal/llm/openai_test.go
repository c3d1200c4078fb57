package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body openAIRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		if !assert.Len(t, body.Messages, 2) {
			return
		}
		assert.Equal(t, openAIMessage{Role: "system", Content: "be jolly"}, body.Messages[0])
		assert.Equal(t, openAIMessage{Role: "user", Content: "am I nice?"}, body.Messages[1])

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Very nice.  "}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1/"})
	reply, err := client.Complete(context.Background(), "be jolly", "am I nice?")
	require.NoError(t, err)
	assert.Equal(t, "Very nice.", reply)
}

func TestOpenAIClientRequiresKey(t *testing.T) {
	client := NewOpenAIClient(Config{})
	_, err := client.Complete(context.Background(), "", "hi")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpenAIClientDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(Config{APIKey: "k", BaseURL: server.URL}, WithHTTPClient(server.Client()))
	_, err := client.Complete(context.Background(), "", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIClientErrorsInBody(t *testing.T) {
	cases := map[string]string{
		"api error":  `{"error":{"message":"bad model"}}`,
		"no choices": `{"choices":[]}`,
		"not json":   `<html>`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(payload))
			}))
			defer server.Close()

			client := NewOpenAIClient(Config{APIKey: "k", BaseURL: server.URL})
			_, err := client.Complete(context.Background(), "", "hi")
			assert.Error(t, err)
		})
	}
}

func TestNewCompleterUnknownProvider(t *testing.T) {
	_, err := NewCompleter(context.Background(), Config{Provider: "carrier-pigeon"})
	assert.Error(t, err)

	completer, err := NewCompleter(context.Background(), Config{Provider: "OpenAI", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, completer)

	completer, err = NewCompleter(context.Background(), Config{Provider: " Gemini "})
	require.NoError(t, err)
	_, err = completer.Complete(context.Background(), "", "hi")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
