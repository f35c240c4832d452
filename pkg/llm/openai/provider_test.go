package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"code-concierge-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Chat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "CODE Agent", r.Header.Get("X-Title"))
		assert.Equal(t, "https://code-agent.com", r.Header.Get("HTTP-Referer"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"CODE12 belongs to Conceptualize."}}]}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{APIKey: "secret", BaseURL: srv.URL + "/v1/", Model: "test-model", Referer: "https://code-agent.com", Title: "CODE Agent"})
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "persona"},
		{Role: llm.RoleUser, Content: "CODE12"},
	}, llm.WithMaxTokens(256), llm.WithTemperature(0.2))

	require.NoError(t, err)
	assert.Equal(t, "CODE12 belongs to Conceptualize.", out)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 256, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "CODE12", got.Messages[1].Content)
}

func TestProvider_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		isEmpty bool
	}{
		{"non 2xx", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
		}, false},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>gateway</html>`))
		}, false},
		{"error object", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":{"message":"model not found"}}`))
		}, false},
		{"no choices", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewProvider(Config{BaseURL: srv.URL}).Generate(context.Background(), "hi")
			require.Error(t, err)
			if tt.isEmpty {
				assert.ErrorIs(t, err, llm.ErrEmptyCompletion)
			}
		})
	}
}

func TestProvider_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewProvider(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}).Generate(context.Background(), "hi")
	assert.Error(t, err)
}

func TestProvider_ModelOverride(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	_, err := NewProvider(Config{BaseURL: srv.URL, Model: "default-model"}).Generate(context.Background(), "hi", llm.WithModel("override-model"))
	require.NoError(t, err)
	assert.Equal(t, "override-model", got.Model)
}
