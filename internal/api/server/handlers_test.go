package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bz888/chiarella/internal/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(prompt)
	return args.String(0), args.Error(1)
}

func postChat(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, chat.ChatPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestChatReplies(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.MatchedBy(func(prompt string) bool {
		return strings.HasSuffix(prompt, "User: Hello\nChiarellaBot:") && strings.Contains(prompt, "You are ChiarellaBot")
	})).Return("Hi there", nil)

	router := NewRouter(NewHandler(gen), NewRateLimiter(60, 10))
	rec := postChat(t, router, `{"message":"Hello"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]string{"reply": "Hi there"}, decodeBody(t, rec))
	gen.AssertExpectations(t)
}

func TestChatValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{"missing message", `{}`, http.StatusBadRequest, "Message is required."},
		{"empty message", `{"message":""}`, http.StatusBadRequest, "Message is required."},
		{"too long", `{"message":"` + strings.Repeat("a", MaxMessageLength+1) + `"}`, http.StatusRequestEntityTooLarge, "Message is too long."},
		{"not json", `hello`, http.StatusInternalServerError, "An internal server error occurred."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := new(MockGenerator)
			router := NewRouter(NewHandler(gen), NewRateLimiter(60, 10))

			rec := postChat(t, router, tc.body)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.detail, decodeBody(t, rec)["detail"])
			gen.AssertNotCalled(t, "Generate", mock.Anything)
		})
	}
}

func TestChatLengthCountsCharacters(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything).Return("ok", nil)
	router := NewRouter(NewHandler(gen), NewRateLimiter(60, 10))

	// 500 multi-byte characters is still within the limit
	rec := postChat(t, router, `{"message":"`+strings.Repeat("é", MaxMessageLength)+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChatEscapesAngleBrackets(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "User: &lt;b&gt;hi&lt;/b&gt;\n")
	})).Return("ok", nil)
	router := NewRouter(NewHandler(gen), NewRateLimiter(60, 10))

	rec := postChat(t, router, `{"message":"<b>hi</b>"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	gen.AssertExpectations(t)
}

func TestChatGeneratorFailure(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything).Return("", errors.New("quota exceeded"))
	router := NewRouter(NewHandler(gen), NewRateLimiter(60, 10))

	rec := postChat(t, router, `{"message":"Hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An internal server error occurred.", decodeBody(t, rec)["detail"])
}

func TestChatRateLimited(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything).Return("ok", nil)
	router := NewRouter(NewHandler(gen), NewRateLimiter(1, 2))

	assert.Equal(t, http.StatusOK, postChat(t, router, `{"message":"1"}`).Code)
	assert.Equal(t, http.StatusOK, postChat(t, router, `{"message":"2"}`).Code)

	rec := postChat(t, router, `{"message":"3"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimiterForgetsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Now()

	assert.True(t, rl.allow("10.0.0.1", now))
	assert.False(t, rl.allow("10.0.0.1", now))
	assert.True(t, rl.allow("10.0.0.2", now))

	later := now.Add(rl.ttl + time.Second)
	assert.True(t, rl.allow("10.0.0.3", later))
	assert.Len(t, rl.visitors, 1)
}

func TestHealth(t *testing.T) {
	router := NewRouter(NewHandler(new(MockGenerator)), NewRateLimiter(60, 10))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody(t, rec))
}

// The client and the server agree on the wire contract.
func TestClientRoundTrip(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything).Return("Start your backup goalie.", nil)

	srv := httptest.NewServer(NewRouter(NewHandler(gen), NewRateLimiter(60, 10)))
	defer srv.Close()

	client, err := chat.NewClient(srv.URL, 0)
	require.NoError(t, err)

	reply, err := client.Send(context.Background(), "Who do I start?")
	require.NoError(t, err)
	assert.Equal(t, "Start your backup goalie.", reply)

	_, err = client.Send(context.Background(), "")
	var statusErr *chat.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
}
