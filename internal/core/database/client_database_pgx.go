package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/maker5587/chatbot/internal/config"
	"github.com/maker5587/chatbot/internal/core"
	"github.com/maker5587/chatbot/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	// Ensure bootstrap once
	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *DatabaseClient) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// InsertInteraction appends one chat exchange. Rows are never updated
// afterwards; suggested questions are stored as a jsonb array.
func (c *DatabaseClient) InsertInteraction(ctx context.Context, rec *models.Interaction) error {
	if rec == nil {
		return errors.New("nil interaction")
	}
	suggested := rec.SuggestedQuestions
	if suggested == nil {
		suggested = []string{}
	}
	payload, err := json.Marshal(suggested)
	if err != nil {
		return fmt.Errorf("marshal suggested questions: %w", err)
	}

	const q = `
		INSERT INTO interactions (id, created_at, client_ip, user_message, assistant_message, suggested_questions)
		VALUES ($1, COALESCE($2, now()), $3, $4, $5, $6)
	`
	_, err = c.db.ExecContext(ctx, q,
		rec.ID, rec.CreatedAt, rec.ClientIP, rec.UserMessage, rec.AssistantMessage, payload)
	return err
}

// CountInteractionsSince counts a client's exchanges inside the trailing
// rate window. The (client_ip, created_at) index keeps this cheap.
func (c *DatabaseClient) CountInteractionsSince(ctx context.Context, clientIP string, since time.Time) (int, error) {
	const q = `
		SELECT count(*) FROM interactions
		WHERE client_ip = $1 AND created_at >= $2
	`
	var n int
	if err := c.db.QueryRowContext(ctx, q, clientIP, since).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
