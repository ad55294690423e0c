package quiz

import (
	"context"
	"errors"
	"fmt"
)

// AnswerSubmission is one outcome as reported back to the content service.
type AnswerSubmission struct {
	SessionID   string `json:"session_id"`
	DocID       string `json:"document_id"`
	CardID      string `json:"flashcard_id"`
	Position    int    `json:"position"`
	Response    string `json:"user_answer,omitempty"`
	IsCorrect   bool   `json:"is_correct"`
	TimeTakenMs int64  `json:"time_taken_ms"`
}

// AnswerSink accepts submitted outcomes.
type AnswerSink interface {
	SubmitAnswer(ctx context.Context, sub AnswerSubmission) error
}

// SubmitOutcomes reports a completed session's outcomes one by one, in
// presentation order. It runs after the results transition and never
// touches machine state. Individual failures are collected; a cancelled
// context stops the batch.
func SubmitOutcomes(ctx context.Context, sink AnswerSink, deckID, sessionID string, result SessionResult) error {
	var errs []error
	for i, o := range result.Results {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		err := sink.SubmitAnswer(ctx, AnswerSubmission{
			SessionID:   sessionID,
			DocID:       deckID,
			CardID:      o.Item.ID,
			Position:    i,
			Response:    o.Response,
			IsCorrect:   o.IsCorrect,
			TimeTakenMs: o.TimeTakenMs,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("submit outcome for %s: %w", o.Item.ID, err))
		}
	}
	return errors.Join(errs...)
}
