package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bz888/chiarella/internal/chat"
	"github.com/bz888/chiarella/internal/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	chatRequestsPerMinute = 30
	chatBurst             = 5
	shutdownTimeout       = 10 * time.Second
)

// NewRouter wires the chat routes.
func NewRouter(handler *Handler, limiter *RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)

	r.Get("/health", handler.Health)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post(chat.ChatPath, handler.Chat)
	})

	return r
}

// Run serves the chat endpoint on addr until ctx is done.
func Run(ctx context.Context, addr string, generator Generator) error {
	localLogger := logger.NewLogger("server")

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(NewHandler(generator), NewRateLimiter(chatRequestsPerMinute, chatBurst)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		localLogger.Infow("server started", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	localLogger.Info("shutting down server")
	return srv.Shutdown(shutdownCtx)
}
