package ui

import (
	"context"
	"strings"

	"github.com/bz888/chiarella/internal/chat"
)

// commands are handled locally and never sent to the server.
var commands = map[string]func(u *UI){
	"/help":  (*UI).listHelp,
	"/bye":   (*UI).quitApp,
	"/quit":  (*UI).quitApp,
	"/exit":  (*UI).quitApp,
	"/debug": (*UI).toggleDebugConsole,
	"/voice": (*UI).voiceRecognition,
}

var helpLines = []string{
	"Here are some commands you can use:",
	"- /help: Display this help message",
	"- /bye, /quit, /exit: Exit the application",
	"- /debug: Toggle the debug console",
	"- /voice: Ask your question out loud",
}

const voiceDisabledMessage = "API_KEY is required to enable voice recognition."

func (u *UI) listHelp() {
	u.controller.Append(chat.RoleBot, strings.Join(helpLines, "\n"))
}

func (u *UI) quitApp() {
	u.localLogger.Info("Shutting down gracefully.")
	u.app.Stop()
}

func (u *UI) toggleDebugConsole() {
	if u.debugShown {
		u.mainFlex.RemoveItem(u.debugConsole)
	} else {
		u.mainFlex.AddItem(u.debugConsole, 0, 1, false)
	}
	u.debugShown = !u.debugShown
}

func (u *UI) voiceRecognition() {
	if u.listener == nil {
		u.localLogger.Warn("API_KEY is not set, voice recognition is disabled")
		u.controller.Append(chat.RoleBot, voiceDisabledMessage)
		return
	}

	u.localLogger.Info("Voice recogniser started")
	u.textArea.SetDisabled(true)

	go func() {
		transcript, err := u.listener.Listen(context.Background())
		u.dispatch(func() {
			u.textArea.SetDisabled(false)
			if err != nil {
				u.localLogger.Errorw("voice recognition failed", "error", err)
				u.controller.Append(chat.RoleBot, "I could not make that out, try typing instead.")
				return
			}
			u.localLogger.Info("Voice recogniser completed")
			u.controller.SubmitText(transcript)
		})
	}()
}
