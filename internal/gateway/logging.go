package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abhisek/studydeck/internal/quiz"
	"github.com/abhisek/studydeck/internal/store"
)

// LoggingGateway is a decorator that records every call as a request event.
type LoggingGateway struct {
	inner     Gateway
	eventRepo store.EventRepo
	now       func() time.Time
}

// WithLogging wraps a Gateway with event logging.
func WithLogging(gw Gateway, repo store.EventRepo) Gateway {
	return &LoggingGateway{inner: gw, eventRepo: repo, now: time.Now}
}

func (l *LoggingGateway) GenerateItems(ctx context.Context, docID string, opts quiz.GenerateOptions) ([]quiz.StudyItem, error) {
	start := l.now()
	items, err := l.inner.GenerateItems(ctx, docID, opts)
	l.record(ctx, OpGenerate, docID, start, marshalBody(opts), countBody(len(items)), err)
	return items, err
}

func (l *LoggingGateway) ReviewBatch(ctx context.Context, docID string, sessionSize int) ([]quiz.StudyItem, error) {
	start := l.now()
	items, err := l.inner.ReviewBatch(ctx, docID, sessionSize)
	l.record(ctx, OpReview, docID, start, fmt.Sprintf("session_size=%d", sessionSize), countBody(len(items)), err)
	return items, err
}

func (l *LoggingGateway) SubmitAnswer(ctx context.Context, sub quiz.AnswerSubmission) error {
	start := l.now()
	err := l.inner.SubmitAnswer(ctx, sub)
	l.record(ctx, OpSubmit, sub.DocID, start, marshalBody(sub), "", err)
	return err
}

func (l *LoggingGateway) ListDocuments(ctx context.Context) ([]Document, error) {
	start := l.now()
	docs, err := l.inner.ListDocuments(ctx)
	l.record(ctx, OpList, "", start, "", fmt.Sprintf("%d documents", len(docs)), err)
	return docs, err
}

func (l *LoggingGateway) UploadDocument(ctx context.Context, filename string, r io.Reader) (*Document, error) {
	start := l.now()
	doc, err := l.inner.UploadDocument(ctx, filename, r)
	target := ""
	if doc != nil {
		target = doc.ID
	}
	l.record(ctx, OpUpload, target, start, filename, marshalBody(doc), err)
	return doc, err
}

func (l *LoggingGateway) record(ctx context.Context, op, target string, start time.Time, reqBody, respBody string, err error) {
	data := store.RequestEventData{
		Source:       store.SourceGateway,
		Operation:    op,
		Target:       target,
		LatencyMs:    l.now().Sub(start).Milliseconds(),
		Success:      err == nil,
		RequestBody:  reqBody,
		ResponseBody: respBody,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		data.StatusCode = statusCode(err)
	}

	// Log the event but don't fail the call if logging fails.
	if logErr := l.eventRepo.AppendRequest(context.WithoutCancel(ctx), data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log %s request event: %v\n", op, logErr)
	}
}

func statusCode(err error) int {
	var te *quiz.TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	var sr *quiz.ServerRejection
	if errors.As(err, &sr) {
		return sr.StatusCode
	}
	return 0
}

func marshalBody(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func countBody(n int) string {
	return fmt.Sprintf("%d items", n)
}
