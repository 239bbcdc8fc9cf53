package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/maker5587/chatbot/internal/core/assistant"
	"github.com/maker5587/chatbot/internal/services"
)

// ChatExchanger is the slice of the chat service the handler needs.
type ChatExchanger interface {
	Chat(ctx context.Context, clientIP, threadID, question string) (*services.ChatResult, error)
}

type ChatHandler struct {
	chat ChatExchanger
}

func NewChatHandler(chat ChatExchanger) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	Question string `json:"question"`
	ThreadID string `json:"thread_id"`
}

type chatResponse struct {
	Response           string   `json:"response"`
	SuggestedQuestions []string `json:"suggested_questions,omitempty"`
	ThreadID           string   `json:"thread_id"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.chat.Chat(ctx, clientIP(r), req.ThreadID, req.Question)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chatResponse{
		Response:           result.Response,
		SuggestedQuestions: result.SuggestedQuestions,
		ThreadID:           result.ThreadID,
	})
}

// writeChatError maps error kinds onto statuses. Provider-side failures
// get distinct log lines for operators but a generic body for the caller.
func (h *ChatHandler) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyQuestion):
		writeError(w, http.StatusBadRequest, "question is required")
	case errors.Is(err, services.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
	case errors.Is(err, assistant.ErrSubmission):
		log.Printf("ChatHandler: submission failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to submit question")
	case errors.Is(err, assistant.ErrRunCreation):
		log.Printf("ChatHandler: run creation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to start assistant run")
	case errors.Is(err, assistant.ErrTimedOut):
		log.Printf("ChatHandler: run timed out: %v", err)
		writeError(w, http.StatusGatewayTimeout, "assistant took too long to respond")
	case errors.Is(err, assistant.ErrPoll), errors.Is(err, assistant.ErrRunFailed):
		log.Printf("ChatHandler: run polling failed: %v", err)
		writeError(w, http.StatusInternalServerError, "assistant run did not complete")
	case errors.Is(err, assistant.ErrNoResponse):
		log.Printf("ChatHandler: no assistant response: %v", err)
		writeError(w, http.StatusInternalServerError, "no response from assistant")
	default:
		log.Printf("ChatHandler: unexpected error: %v", err)
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// clientIP is the rate-limit key: first X-Forwarded-For hop when present
// (the service runs behind a proxy in production), else the peer address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
