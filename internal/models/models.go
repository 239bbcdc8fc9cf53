package models

import (
	"time"
)

// Interaction is one persisted chat exchange. Rows are append-only; the
// rate limiter derives its window counts from created_at.
type Interaction struct {
	ID                 string    `db:"id" json:"id"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	ClientIP           string    `db:"client_ip" json:"client_ip"`
	UserMessage        string    `db:"user_message" json:"user_message"`
	AssistantMessage   string    `db:"assistant_message" json:"assistant_message"`
	SuggestedQuestions []string  `db:"suggested_questions" json:"suggested_questions"`
}

// BlogPost is one scraped listing entry mirrored into the blogs collection.
// Link is the natural key; the store enforces uniqueness on it.
type BlogPost struct {
	Num         int    `bson:"num" json:"num"`
	Image       string `bson:"image" json:"image"` // thumbnail URL or "No Image"
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Link        string `bson:"link" json:"link"`
}
