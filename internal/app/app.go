// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/maker5587/chatbot/internal/config"
	"github.com/maker5587/chatbot/internal/core"
	"github.com/maker5587/chatbot/internal/core/assistant"
	db "github.com/maker5587/chatbot/internal/core/database"
	"github.com/maker5587/chatbot/internal/services"
)

type App struct {
	DBClient core.DbClient
	Chat     *services.ChatService
	Server   *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	provider, err := assistant.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.AssistantID)
	if err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("couldn't initialize the assistant client, %w", err)
	}

	poller := assistant.NewPoller(provider, cfg.PollInterval, cfg.PollTimeout, assistant.Mode(cfg.ResponseMode))
	chatService := services.NewChatService(dbClient, poller, cfg.RateLimit, cfg.RateWindow)

	server := NewServer(cfg, dbClient, chatService)

	return &App{DBClient: dbClient, Chat: chatService, Server: server}, nil
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
