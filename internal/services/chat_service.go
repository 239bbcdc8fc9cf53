package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maker5587/chatbot/internal/core"
	"github.com/maker5587/chatbot/internal/models"
)

var (
	// ErrEmptyQuestion rejects requests with no question text.
	ErrEmptyQuestion = errors.New("question is required")
	// ErrRateLimited rejects clients over the trailing-window quota.
	ErrRateLimited = errors.New("too many requests")
)

// ChatService runs one chat exchange end to end: validate, rate-limit,
// submit-and-await, persist. The rate check runs before anything touches
// the provider so over-quota clients never cost us a run.
type ChatService struct {
	db        core.DbClient
	assistant core.Assistant
	limit     int
	window    time.Duration

	now func() time.Time
}

func NewChatService(db core.DbClient, asst core.Assistant, limit int, window time.Duration) *ChatService {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Hour
	}
	return &ChatService{db: db, assistant: asst, limit: limit, window: window, now: time.Now}
}

// ChatResult is the caller-facing outcome of one exchange.
type ChatResult struct {
	Response           string
	SuggestedQuestions []string
	ThreadID           string
}

func (s *ChatService) Chat(ctx context.Context, clientIP, threadID, question string) (*ChatResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	allowed, err := s.allow(ctx, clientIP)
	if err != nil {
		return nil, fmt.Errorf("rate limit check: %w", err)
	}
	if !allowed {
		return nil, ErrRateLimited
	}

	result, err := s.assistant.SubmitAndAwait(ctx, threadID, question)
	if err != nil {
		return nil, err
	}

	rec := &models.Interaction{
		ID:                 uuid.NewString(),
		CreatedAt:          s.now().UTC(),
		ClientIP:           clientIP,
		UserMessage:        question,
		AssistantMessage:   result.Response,
		SuggestedQuestions: result.SuggestedQuestions,
	}
	// The answer is already computed and paid for; a failed insert is
	// logged, never surfaced to the user.
	if err := s.db.InsertInteraction(ctx, rec); err != nil {
		log.Printf("ChatService: failed to record interaction for %s: %v", clientIP, err)
	}

	return &ChatResult{
		Response:           result.Response,
		SuggestedQuestions: result.SuggestedQuestions,
		ThreadID:           result.ThreadID,
	}, nil
}

// allow counts the client's interactions inside the trailing window. A
// store error fails the request (fail-closed); treating it as "not
// limited" would let an outage disable abuse protection.
func (s *ChatService) allow(ctx context.Context, clientIP string) (bool, error) {
	since := s.now().Add(-s.window)
	n, err := s.db.CountInteractionsSince(ctx, clientIP, since)
	if err != nil {
		return false, err
	}
	return n < s.limit, nil
}
