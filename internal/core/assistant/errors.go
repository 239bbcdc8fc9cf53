package assistant

import "errors"

// Each stage of an exchange fails with its own kind so the HTTP layer can
// log distinct operator-facing text while returning a generic body.
var (
	// ErrSubmission covers thread creation and message attachment.
	ErrSubmission = errors.New("assistant: message submission failed")
	// ErrRunCreation covers starting the provider run.
	ErrRunCreation = errors.New("assistant: run creation failed")
	// ErrPoll covers status fetches and the final message listing.
	ErrPoll = errors.New("assistant: run polling failed")
	// ErrRunFailed means the run reached a terminal state other than completed.
	ErrRunFailed = errors.New("assistant: run did not complete")
	// ErrTimedOut means the run stayed non-terminal past the configured wait.
	ErrTimedOut = errors.New("assistant: run timed out")
	// ErrNoResponse means no assistant-authored message was found.
	ErrNoResponse = errors.New("assistant: no response from assistant")
)
