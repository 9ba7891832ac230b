package cmd

import (
	"fmt"
	"os"

	"github.com/bz888/chiarella/internal/chat"
	"github.com/bz888/chiarella/internal/config"
	"github.com/bz888/chiarella/internal/logger"
	"github.com/bz888/chiarella/internal/speech"
	"github.com/bz888/chiarella/internal/ui"
	"github.com/spf13/cobra"
)

var cfg = config.Load()

var rootCmd = &cobra.Command{
	Use:   "chiarella",
	Short: "Terminal chat client for ChiarellaBot",
	Long: `chiarella opens a chat window in the terminal. Every question is posted
to the chat server's /api/chat endpoint and the reply is shown below it.

Type /help inside the window for the local commands.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func init() {
	cfg.BindFlags(rootCmd.PersistentFlags())
	cfg.BindClientFlags(rootCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runChat() error {
	client, err := chat.NewClient(cfg.Endpoint, cfg.Timeout)
	if err != nil {
		return err
	}

	opts := ui.Options{Sender: client, Dev: cfg.Dev}
	if cfg.VoiceEnabled() {
		opts.Listener = speech.NewRecognizer(speech.Config{
			APIKey:          cfg.SpeechAPIKey,
			SileroModelPath: cfg.SileroModelPath,
			DumpDir:         dumpDir(),
		})
	}

	chatUI := ui.New(opts)
	if err := logger.InitLogger(cfg.Dev, cfg.LogPath, chatUI.DebugConsole()); err != nil {
		return err
	}
	localLogger := logger.NewLogger("main")
	defer localLogger.Close()

	localLogger.Infow("chat client started", "endpoint", client.ChatURL(), "voice", cfg.VoiceEnabled())
	err = chatUI.Run()
	chatUI.Controller().Close()
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	localLogger.Info("chat client stopped")
	return nil
}

// utterances are kept next to the log file in dev mode
func dumpDir() string {
	if cfg.Dev {
		return cfg.LogPath
	}
	return ""
}
