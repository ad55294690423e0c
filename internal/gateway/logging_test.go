package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studydeck/internal/quiz"
	"github.com/abhisek/studydeck/internal/store"
)

type fakeEventRepo struct {
	store.EventRepo
	events []store.RequestEventData
	err    error
}

func (f *fakeEventRepo) AppendRequest(_ context.Context, data store.RequestEventData) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, data)
	return nil
}

func TestLoggingGateway_RecordsSuccess(t *testing.T) {
	mock := NewMockGateway(MockItems{Items: []quiz.StudyItem{{ID: "1", Prompt: "Q", Answer: "A"}}})
	repo := &fakeEventRepo{}
	gw := WithLogging(mock, repo)

	items, err := gw.GenerateItems(context.Background(), "doc-1", quiz.GenerateOptions{Count: 5})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, store.SourceGateway, ev.Source)
	assert.Equal(t, OpGenerate, ev.Operation)
	assert.Equal(t, "doc-1", ev.Target)
	assert.True(t, ev.Success)
	assert.Contains(t, ev.RequestBody, `"Count":5`)
	assert.Equal(t, "1 items", ev.ResponseBody)
}

func TestLoggingGateway_RecordsFailureStatus(t *testing.T) {
	cause := &quiz.ServerRejection{Op: OpGenerate, StatusCode: 404, Message: "document not found"}
	mock := NewMockGateway(MockItems{Err: cause})
	repo := &fakeEventRepo{}
	gw := WithLogging(mock, repo)

	_, err := gw.GenerateItems(context.Background(), "doc-1", quiz.GenerateOptions{Count: 5})
	require.Error(t, err)

	var sr *quiz.ServerRejection
	assert.True(t, errors.As(err, &sr), "decorator must not change the error")

	require.Len(t, repo.events, 1)
	assert.False(t, repo.events[0].Success)
	assert.Equal(t, 404, repo.events[0].StatusCode)
	assert.True(t, strings.Contains(repo.events[0].ErrorMessage, "document not found"))
}

func TestLoggingGateway_LogFailureDoesNotFailCall(t *testing.T) {
	mock := &MockGateway{Documents: []Document{{ID: "1", ProcessingStatus: StatusCompleted}}}
	gw := WithLogging(mock, &fakeEventRepo{err: errors.New("disk full")})

	docs, err := gw.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestLoggingGateway_AllOperations(t *testing.T) {
	mock := NewMockGateway()
	mock.Fallback = []quiz.StudyItem{{ID: "1", Prompt: "Q", Answer: "A"}}
	repo := &fakeEventRepo{}
	gw := WithLogging(mock, repo)
	ctx := context.Background()

	_, _ = gw.ReviewBatch(ctx, "doc-2", 10)
	_ = gw.SubmitAnswer(ctx, quiz.AnswerSubmission{DocID: "doc-2", CardID: "1"})
	_, _ = gw.ListDocuments(ctx)
	_, _ = gw.UploadDocument(ctx, "notes.txt", strings.NewReader("x"))

	var ops []string
	for _, ev := range repo.events {
		ops = append(ops, ev.Operation)
	}
	assert.Equal(t, []string{OpReview, OpSubmit, OpList, OpUpload}, ops)
	assert.Equal(t, "session_size=10", repo.events[0].RequestBody)
	assert.Equal(t, "doc-2", repo.events[1].Target)
	assert.Equal(t, "notes.txt", repo.events[3].Target)
}
