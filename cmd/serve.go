package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bz888/chiarella/internal/api/server"
	"github.com/bz888/chiarella/internal/config"
	"github.com/bz888/chiarella/internal/logger"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ChiarellaBot chat endpoint",
	Long: `serve answers POST /api/chat with ChiarellaBot's replies, generated by
Gemini (GEMINI_API_KEY) or by a local Ollama model with --backend ollama.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx)
	},
}

func init() {
	cfg.BindServerFlags(serveCmd.Flags())
}

func runServer(ctx context.Context) error {
	// no TUI here, so logs go to stderr
	if err := logger.InitLogger(cfg.Dev, cfg.LogPath, os.Stderr); err != nil {
		return err
	}
	localLogger := logger.NewLogger("serve")
	defer localLogger.Close()

	var generator server.Generator
	switch cfg.Backend {
	case config.BackendGemini:
		gemini, err := server.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			localLogger.Error(err)
			return err
		}
		defer gemini.Close()
		generator = gemini
		localLogger.Infow("using gemini", "model", cfg.Model)
	case config.BackendOllama:
		ollama, err := server.NewOllamaGenerator(cfg.OllamaHost, cfg.OllamaModel)
		if err != nil {
			return err
		}
		generator = ollama
		localLogger.Infow("using ollama", "host", cfg.OllamaHost, "model", cfg.OllamaModel)
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	return server.Run(ctx, cfg.Addr, generator)
}
