package ui

import (
	"context"
	"strings"

	"github.com/bz888/chiarella/internal/chat"
	"github.com/bz888/chiarella/internal/logger"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Listener turns one spoken utterance into text.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// Options configures a UI.
type Options struct {
	Sender chat.Sender
	// Listener is nil when voice input is not configured.
	Listener Listener
	Dev      bool
}

// UI is the terminal chat window.
type UI struct {
	app          *tview.Application
	textView     *tview.TextView
	textArea     *tview.TextArea
	debugConsole *tview.TextView
	mainFlex     *tview.Flex

	controller *chat.Controller
	input      *textAreaInput
	listener   Listener
	debugShown bool

	localLogger *logger.Logger
}

func New(opts Options) *UI {
	u := &UI{
		app:         tview.NewApplication(),
		listener:    opts.Listener,
		localLogger: logger.NewLogger("views"),
	}
	u.app.EnablePaste(true)
	u.app.EnableMouse(true)

	u.debugConsole = u.initDebugConsole()
	u.textView = initChatViewer()
	u.textArea = initChatInput()
	u.input = &textAreaInput{area: u.textArea}

	u.controller = chat.NewController(&conversationLog{view: u.textView}, opts.Sender, u.dispatch)

	subFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(u.textView, 0, 1, false).
		AddItem(u.textArea, 8, 2, true)
	u.mainFlex = tview.NewFlex().
		AddItem(subFlex, 0, 2, false)

	if opts.Dev {
		u.mainFlex.AddItem(u.debugConsole, 0, 1, false)
		u.debugShown = true
	}

	u.setInputCapture()
	return u
}

func initChatViewer() *tview.TextView {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	textView.SetTitle("Conversation").SetBorder(true)
	textView.SetScrollable(true)
	textView.ScrollToEnd()
	return textView
}

func initChatInput() *tview.TextArea {
	textArea := tview.NewTextArea()
	textArea.SetTitle("Question").SetBorder(true)
	return textArea
}

func (u *UI) initDebugConsole() *tview.TextView {
	console := tview.NewTextView().
		SetChangedFunc(func() {
			u.app.Draw()
		}).
		SetWordWrap(true)

	console.SetTitle("Debugger").SetBorder(true)
	console.ScrollToEnd()
	return console
}

// DebugConsole is the writer developer logs are sent to in dev mode.
func (u *UI) DebugConsole() *tview.TextView {
	return u.debugConsole
}

// Controller returns the controller behind the conversation view.
func (u *UI) Controller() *chat.Controller {
	return u.controller
}

// Run blocks until the user leaves.
func (u *UI) Run() error {
	return u.app.SetRoot(u.mainFlex, true).SetFocus(u.textArea).Run()
}

func (u *UI) dispatch(fn func()) {
	u.app.QueueUpdateDraw(fn)
}

func (u *UI) setInputCapture() {
	u.textView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			u.app.SetFocus(u.textArea)
		}
		return event
	})

	u.textArea.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyESC:
			if u.textView.GetText(false) != "" {
				u.app.SetFocus(u.textView)
			}
		case tcell.KeyEnter:
			u.handleEnter()
			return nil
		}
		return event
	})
}

// handleEnter runs a local command or submits the question.
func (u *UI) handleEnter() {
	content := strings.TrimSpace(u.input.Text())

	if cmd, ok := commands[content]; ok {
		u.localLogger.Infow("command", "name", content)
		u.input.Clear()
		cmd(u)
		return
	}

	u.controller.Submit(u.input)
}
