package core

import (
	"context"
	"time"

	"github.com/maker5587/chatbot/internal/core/assistant"
	"github.com/maker5587/chatbot/internal/models"
)

// DbClient defines the persistence operations the chat service needs.
// It abstracts Postgres so higher layers never depend on a specific DB.
type DbClient interface {
	InsertInteraction(ctx context.Context, rec *models.Interaction) error
	CountInteractionsSince(ctx context.Context, clientIP string, since time.Time) (int, error)

	Ping(ctx context.Context) error
	Close() error
}

// Assistant drives one full submit/poll/extract exchange against the
// conversational provider. threadID may be empty; the returned Result
// always carries the handle the caller should reuse.
type Assistant interface {
	SubmitAndAwait(ctx context.Context, threadID, message string) (assistant.Result, error)
}

// BlogStore persists scraped blog posts. InsertPost reports inserted=false
// for a duplicate link, which is a no-op rather than an error.
type BlogStore interface {
	InsertPost(ctx context.Context, post *models.BlogPost) (inserted bool, err error)
	Close(ctx context.Context) error
}

// BlogSource produces structured records from the paginated blog listing.
type BlogSource interface {
	TotalPages(ctx context.Context) (int, error)
	Page(ctx context.Context, page int) ([]models.BlogPost, error)
}

// ImageMirror copies a remote thumbnail into our own object storage and
// returns the mirrored URL.
type ImageMirror interface {
	Mirror(ctx context.Context, imageURL string) (string, error)
}
