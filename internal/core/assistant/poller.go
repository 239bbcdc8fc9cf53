package assistant

import (
	"context"
	"fmt"
	"time"
)

const (
	// RoleAssistant marks provider messages authored by the assistant.
	RoleAssistant = "assistant"

	statusCompleted = "completed"
)

// Message is one entry from the provider's thread listing, newest first.
type Message struct {
	Role string
	Text string
}

// Provider is the minimal thread/run surface of the conversational
// provider. Implementations are expected to be safe for concurrent use.
type Provider interface {
	CreateThread(ctx context.Context) (string, error)
	AddMessage(ctx context.Context, threadID, text string) error
	CreateRun(ctx context.Context, threadID string) (string, error)
	RunStatus(ctx context.Context, threadID, runID string) (string, error)
	ListMessages(ctx context.Context, threadID string) ([]Message, error)
}

// Result is one completed exchange. ThreadID is always set so the caller
// can hand the session handle back to the client.
type Result struct {
	Response           string
	SuggestedQuestions []string
	ThreadID           string
}

// Poller runs the submit/await/extract cycle against a Provider.
type Poller struct {
	provider Provider
	interval time.Duration
	timeout  time.Duration
	mode     Mode
}

// NewPoller builds a Poller. Zero interval and timeout get the defaults
// the service has always used (500ms poll, 2 minute cap).
func NewPoller(provider Provider, interval, timeout time.Duration, mode Mode) *Poller {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if mode != ModeStructured {
		mode = ModeText
	}
	return &Poller{provider: provider, interval: interval, timeout: timeout, mode: mode}
}

// SubmitAndAwait attaches message to the thread (creating one when
// threadID is empty), starts a run, waits for it to complete and extracts
// the newest assistant-authored message.
func (p *Poller) SubmitAndAwait(ctx context.Context, threadID, message string) (Result, error) {
	if threadID == "" {
		id, err := p.provider.CreateThread(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("%w: create thread: %v", ErrSubmission, err)
		}
		threadID = id
	}

	if err := p.provider.AddMessage(ctx, threadID, message); err != nil {
		return Result{}, fmt.Errorf("%w: attach message: %v", ErrSubmission, err)
	}

	runID, err := p.provider.CreateRun(ctx, threadID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRunCreation, err)
	}

	if err := p.await(ctx, threadID, runID); err != nil {
		return Result{}, err
	}

	msgs, err := p.provider.ListMessages(ctx, threadID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: list messages: %v", ErrPoll, err)
	}
	for _, m := range msgs {
		if m.Role != RoleAssistant {
			continue
		}
		decoded := Decode(m.Text, p.mode)
		return Result{
			Response:           decoded.Response,
			SuggestedQuestions: decoded.SuggestedQuestions,
			ThreadID:           threadID,
		}, nil
	}
	return Result{}, ErrNoResponse
}

// await polls the run at the configured interval until it completes. The
// wait is a timer select so a slow run suspends this request without
// starving others; request cancellation and the overall timeout both
// abort it.
func (p *Poller) await(ctx context.Context, threadID, runID string) error {
	deadline := time.NewTimer(p.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		status, err := p.provider.RunStatus(ctx, threadID, runID)
		if err != nil {
			return fmt.Errorf("%w: fetch status: %v", ErrPoll, err)
		}
		if status == statusCompleted {
			return nil
		}
		if terminalFailure(status) {
			return fmt.Errorf("%w: run status %q", ErrRunFailed, status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("%w: run %s still %q after %s", ErrTimedOut, runID, status, p.timeout)
		case <-ticker.C:
		}
	}
}

// terminalFailure reports whether status is terminal without being
// completed; polling past these would never finish.
func terminalFailure(status string) bool {
	switch status {
	case "failed", "cancelled", "expired", "incomplete":
		return true
	}
	return false
}
