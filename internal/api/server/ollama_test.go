package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3:latest", req.Model)
		assert.False(t, req.Stream)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, RoleSystem, req.Messages[0].Role)
			assert.Contains(t, req.Messages[0].Content, "You are ChiarellaBot")
			assert.Equal(t, "User: Hello\nChiarellaBot:", req.Messages[1].Content)
		}

		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "Draft a goalie first."},
			Done:    true,
		})
	}))
	defer srv.Close()

	gen, err := NewOllamaGenerator(srv.URL, "llama3:latest")
	require.NoError(t, err)

	reply, err := gen.Generate(context.Background(), buildPrompt("Hello"))
	require.NoError(t, err)
	assert.Equal(t, "Draft a goalie first.", reply)
}

func TestOllamaGeneratorFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }},
		{"empty reply", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"done":true}`)) }},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{`)) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			gen, err := NewOllamaGenerator(srv.URL, "llama3:latest")
			require.NoError(t, err)

			_, err = gen.Generate(context.Background(), "plain prompt")
			assert.Error(t, err)
		})
	}
}
