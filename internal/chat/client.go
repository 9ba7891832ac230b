package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Sender delivers one message and returns the reply text.
type Sender interface {
	Send(ctx context.Context, message string) (string, error)
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

var errNullResponse = errors.New("decode response: null body")

// Client posts messages to a chat server.
type Client struct {
	chatURL *url.URL
	http    *http.Client
}

// NewClient builds a client for the server at endpoint. A zero timeout leaves
// requests to run until the transport reports success or failure.
func NewClient(endpoint string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("endpoint %q must be an absolute URL", endpoint)
	}

	return &Client{
		chatURL: base.ResolveReference(&url.URL{Path: ChatPath}),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) ChatURL() string {
	return c.chatURL.String()
}

func (c *Client) Send(ctx context.Context, message string) (string, error) {
	requestData, err := json.Marshal(Request{Message: message})
	if err != nil {
		return "", fmt.Errorf("serialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL.String(), bytes.NewReader(requestData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	// the whole body must be one JSON object
	var chatResp *Response
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if chatResp == nil {
		return "", errNullResponse
	}
	return chatResp.Reply, nil
}
