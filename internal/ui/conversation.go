package ui

import (
	"fmt"

	"github.com/bz888/chiarella/internal/chat"
	"github.com/rivo/tview"
)

// conversationLog renders chat entries into the Conversation view.
type conversationLog struct {
	view *tview.TextView
}

func (c *conversationLog) Append(e chat.Entry) {
	switch e.Role {
	case chat.RoleUser:
		fmt.Fprintln(c.view, "[red::]You:[-]")
	default:
		fmt.Fprintln(c.view, "[green::]Bot:[-]")
	}
	// escaped so brackets in a message are never read as style tags
	fmt.Fprintf(c.view, "%s\n\n", tview.Escape(e.Text))
}

func (c *conversationLog) ScrollToEnd() {
	c.view.ScrollToEnd()
}

// textAreaInput exposes the Question area as a chat.Input.
type textAreaInput struct {
	area *tview.TextArea
}

func (t *textAreaInput) Text() string {
	return t.area.GetText()
}

func (t *textAreaInput) Clear() {
	t.area.SetText("", true)
}
