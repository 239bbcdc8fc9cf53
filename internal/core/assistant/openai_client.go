package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Provider on top of the OpenAI Assistants API.
// Threads and runs it creates live on the provider side; nothing here
// owns or cleans them up.
type OpenAIClient struct {
	client      openai.Client
	assistantID string
}

func NewOpenAIClient(apiKey, assistantID string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("API_KEY not set")
	}
	if assistantID == "" {
		return nil, errors.New("ASSISTANT_ID not set")
	}
	return &OpenAIClient{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		assistantID: assistantID,
	}, nil
}

func (c *OpenAIClient) CreateThread(ctx context.Context) (string, error) {
	thread, err := c.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", err
	}
	return thread.ID, nil
}

func (c *OpenAIClient) AddMessage(ctx context.Context, threadID, text string) error {
	_, err := c.client.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	return err
}

func (c *OpenAIClient) CreateRun(ctx context.Context, threadID string) (string, error) {
	run, err := c.client.Beta.Threads.Runs.New(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: c.assistantID,
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func (c *OpenAIClient) RunStatus(ctx context.Context, threadID, runID string) (string, error) {
	run, err := c.client.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return "", err
	}
	return string(run.Status), nil
}

// ListMessages returns the thread's messages newest first, with each
// message's text blocks joined into one payload.
func (c *OpenAIClient) ListMessages(ctx context.Context, threadID string) ([]Message, error) {
	page, err := c.client.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{
		Order: openai.BetaThreadMessageListParamsOrderDesc,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Message, 0, len(page.Data))
	for _, m := range page.Data {
		var b strings.Builder
		for _, part := range m.Content {
			if part.Type == "text" {
				b.WriteString(part.Text.Value)
			}
		}
		out = append(out, Message{Role: string(m.Role), Text: b.String()})
	}
	return out, nil
}

var _ Provider = (*OpenAIClient)(nil)
