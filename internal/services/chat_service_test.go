package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maker5587/chatbot/internal/core/assistant"
	"github.com/maker5587/chatbot/internal/models"
)

type fakeDB struct {
	count     int
	countErr  error
	insertErr error

	countCalls  int
	insertCalls int
	inserted    []*models.Interaction
}

func (f *fakeDB) InsertInteraction(ctx context.Context, rec *models.Interaction) error {
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, rec)
	return nil
}

func (f *fakeDB) CountInteractionsSince(ctx context.Context, clientIP string, since time.Time) (int, error) {
	f.countCalls++
	return f.count, f.countErr
}

func (f *fakeDB) Ping(ctx context.Context) error { return nil }
func (f *fakeDB) Close() error                   { return nil }

type fakeAssistant struct {
	result assistant.Result
	err    error
	calls  int
}

func (f *fakeAssistant) SubmitAndAwait(ctx context.Context, threadID, message string) (assistant.Result, error) {
	f.calls++
	if f.err != nil {
		return assistant.Result{}, f.err
	}
	res := f.result
	if res.ThreadID == "" {
		res.ThreadID = threadID
		if res.ThreadID == "" {
			res.ThreadID = "thread-new"
		}
	}
	return res, nil
}

func newChatFixture() (*fakeDB, *fakeAssistant, *ChatService) {
	db := &fakeDB{}
	asst := &fakeAssistant{result: assistant.Result{Response: "answer"}}
	svc := NewChatService(db, asst, 5, time.Hour)
	return db, asst, svc
}

func TestChatEmptyQuestion(t *testing.T) {
	db, asst, svc := newChatFixture()

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := svc.Chat(context.Background(), "1.2.3.4", "", q)
		require.ErrorIs(t, err, ErrEmptyQuestion)
	}
	require.Zero(t, asst.calls)
	require.Zero(t, db.countCalls)
	require.Zero(t, db.insertCalls)
}

func TestChatRateLimited(t *testing.T) {
	db, asst, svc := newChatFixture()
	db.count = 5

	_, err := svc.Chat(context.Background(), "1.2.3.4", "", "hello")
	require.ErrorIs(t, err, ErrRateLimited)
	require.Zero(t, asst.calls)
	require.Zero(t, db.insertCalls)
}

func TestChatUnderLimitProceeds(t *testing.T) {
	db, asst, svc := newChatFixture()
	db.count = 4

	res, err := svc.Chat(context.Background(), "1.2.3.4", "", "hello")
	require.NoError(t, err)
	require.Equal(t, "answer", res.Response)
	require.Equal(t, 1, asst.calls)
}

func TestChatRateCheckFailsClosed(t *testing.T) {
	db, asst, svc := newChatFixture()
	db.countErr = errors.New("store down")

	_, err := svc.Chat(context.Background(), "1.2.3.4", "", "hello")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrRateLimited)
	require.Zero(t, asst.calls)
}

func TestChatAssistantErrorNotPersisted(t *testing.T) {
	db, asst, svc := newChatFixture()
	asst.err = assistant.ErrNoResponse

	_, err := svc.Chat(context.Background(), "1.2.3.4", "", "hello")
	require.ErrorIs(t, err, assistant.ErrNoResponse)
	require.Zero(t, db.insertCalls)
}

func TestChatPersistFailureStillReturnsResponse(t *testing.T) {
	db, _, svc := newChatFixture()
	db.insertErr = errors.New("insert failed")

	res, err := svc.Chat(context.Background(), "1.2.3.4", "", "hello")
	require.NoError(t, err)
	require.Equal(t, "answer", res.Response)
	require.Equal(t, 1, db.insertCalls)
}

func TestChatPersistsInteraction(t *testing.T) {
	db, asst, svc := newChatFixture()
	asst.result = assistant.Result{
		Response:           "answer",
		SuggestedQuestions: []string{"follow up?"},
	}
	before := time.Now().UTC()

	res, err := svc.Chat(context.Background(), "10.0.0.9", "", "hello")
	require.NoError(t, err)
	require.Equal(t, "thread-new", res.ThreadID)
	require.Equal(t, []string{"follow up?"}, res.SuggestedQuestions)

	require.Len(t, db.inserted, 1)
	rec := db.inserted[0]
	require.NotEmpty(t, rec.ID)
	require.Equal(t, "10.0.0.9", rec.ClientIP)
	require.Equal(t, "hello", rec.UserMessage)
	require.Equal(t, "answer", rec.AssistantMessage)
	require.Equal(t, []string{"follow up?"}, rec.SuggestedQuestions)
	require.False(t, rec.CreatedAt.Before(before))
}

func TestChatPassesThreadHandleThrough(t *testing.T) {
	_, _, svc := newChatFixture()

	res, err := svc.Chat(context.Background(), "1.2.3.4", "thread-7", "hello")
	require.NoError(t, err)
	require.Equal(t, "thread-7", res.ThreadID)
}
