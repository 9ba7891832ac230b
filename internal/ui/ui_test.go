package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	messages []string
	reply    string
}

func (r *recordingSender) Send(ctx context.Context, message string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	if r.reply == "" {
		return "ok", nil
	}
	return r.reply, nil
}

func newTestUI(t *testing.T) (*UI, *recordingSender) {
	t.Helper()
	sender := &recordingSender{}
	return New(Options{Sender: sender}), sender
}

func TestEnterSubmitsQuestion(t *testing.T) {
	u, sender := newTestUI(t)

	u.textArea.SetText("Hello", true)
	u.handleEnter()
	u.controller.Wait()

	assert.Contains(t, u.textView.GetText(false), "You:")
	assert.Contains(t, u.textView.GetText(false), "Hello")
	assert.Equal(t, "", u.textArea.GetText())
	assert.Equal(t, []string{"Hello"}, sender.messages)
}

func TestEnterOnBlankQuestionDoesNothing(t *testing.T) {
	u, sender := newTestUI(t)

	u.textArea.SetText("   ", true)
	u.handleEnter()
	u.controller.Wait()

	assert.Equal(t, "", u.textView.GetText(false))
	assert.Empty(t, sender.messages)
}

func TestMarkupIsRenderedLiterally(t *testing.T) {
	u, _ := newTestUI(t)

	u.textArea.SetText("[red]hack[-]", true)
	u.handleEnter()
	u.controller.Wait()

	assert.Contains(t, u.textView.GetText(false), "[red[]hack[-[]")
}

func TestHelpCommandIsLocal(t *testing.T) {
	u, sender := newTestUI(t)

	u.textArea.SetText("/help", true)
	u.handleEnter()

	assert.Contains(t, u.textView.GetText(false), "Here are some commands you can use:")
	assert.Equal(t, "", u.textArea.GetText())
	assert.Empty(t, sender.messages)
}

func TestDebugCommandTogglesConsole(t *testing.T) {
	u, _ := newTestUI(t)
	require.False(t, u.debugShown)
	items := u.mainFlex.GetItemCount()

	u.textArea.SetText("/debug", true)
	u.handleEnter()
	assert.True(t, u.debugShown)
	assert.Equal(t, items+1, u.mainFlex.GetItemCount())

	u.textArea.SetText("/debug", true)
	u.handleEnter()
	assert.False(t, u.debugShown)
	assert.Equal(t, items, u.mainFlex.GetItemCount())
}

func TestVoiceCommandWithoutListener(t *testing.T) {
	u, sender := newTestUI(t)

	u.textArea.SetText("/voice", true)
	u.handleEnter()

	assert.Contains(t, u.textView.GetText(false), voiceDisabledMessage)
	assert.Empty(t, sender.messages)
}

func TestReplyIsDrawnByEventLoop(t *testing.T) {
	sender := &recordingSender{reply: "Start [yellow]the backup[-] goalie"}
	u := New(Options{Sender: sender})

	screen := tcell.NewSimulationScreen("UTF-8")
	u.app.SetScreen(screen)

	done := make(chan error, 1)
	go func() { done <- u.Run() }()

	u.app.QueueUpdate(func() {
		u.textArea.SetText("Who do I start?", true)
		u.handleEnter()
	})

	assert.Eventually(t, func() bool {
		text := u.textView.GetText(false)
		return strings.Contains(text, "Bot:") &&
			strings.Contains(text, "Start [yellow[]the backup[-[] goalie")
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"Who do I start?"}, sender.messages)

	u.app.Stop()
	require.NoError(t, <-done)
	u.controller.Close()
}
