package server

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/bz888/chiarella/internal/chat"
	"github.com/bz888/chiarella/internal/logger"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

// Handler serves the chat endpoint.
type Handler struct {
	generator   Generator
	localLogger *logger.Logger
}

func NewHandler(generator Generator) *Handler {
	return &Handler{
		generator:   generator,
		localLogger: logger.NewLogger("chat handler"),
	}
}

// Chat answers {"message": ...} with {"reply": ...}.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.localLogger.Errorw("decode chat request", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "An internal server error occurred."})
		return
	}

	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Message is required."})
		return
	}
	if utf8.RuneCountInString(req.Message) > MaxMessageLength {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Detail: "Message is too long."})
		return
	}

	reply, err := h.generator.Generate(r.Context(), buildPrompt(req.Message))
	if err != nil {
		h.localLogger.Errorw("An error occurred", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "An internal server error occurred."})
		return
	}

	writeJSON(w, http.StatusOK, chat.Response{Reply: reply})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
