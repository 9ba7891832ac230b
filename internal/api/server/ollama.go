package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// OllamaGenerator answers prompts with a model served by a local Ollama.
type OllamaGenerator struct {
	chatURL *url.URL
	model   string
	http    *http.Client
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

func NewOllamaGenerator(host, model string) (*OllamaGenerator, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host: %w", err)
	}
	return &OllamaGenerator{
		chatURL: base.ResolveReference(&url.URL{Path: "/api/chat"}),
		model:   model,
		http:    &http.Client{},
	}, nil
}

// Generate sends the persona as the system message and the rest of the
// prompt as the user turn. Replies are requested in one piece.
func (o *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	system, user, found := strings.Cut(prompt, "\n\nUser: ")
	messages := []ollamaMessage{{Role: RoleUser, Content: prompt}}
	if found {
		messages = []ollamaMessage{
			{Role: RoleSystem, Content: strings.TrimSpace(system)},
			{Role: RoleUser, Content: "User: " + user},
		}
	}

	bts, err := json.Marshal(ollamaChatRequest{Model: o.model, Messages: messages})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.chatURL.String(), bytes.NewReader(bts))
	if err != nil {
		return "", fmt.Errorf("create ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned %s", resp.Status)
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if chatResp.Message.Content == "" {
		return "", errEmptyResponse
	}
	return chatResp.Message.Content, nil
}
