package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	subs   []AnswerSubmission
	failOn map[string]bool
}

func (s *recordingSink) SubmitAnswer(_ context.Context, sub AnswerSubmission) error {
	s.subs = append(s.subs, sub)
	if s.failOn[sub.CardID] {
		return errors.New("server error")
	}
	return nil
}

func TestSubmitOutcomes_InPresentationOrder(t *testing.T) {
	res := Aggregate([]ItemOutcome{
		{Item: StudyItem{ID: "c3"}, IsCorrect: true, TimeTakenMs: 100},
		{Item: StudyItem{ID: "c1"}, Response: "B", TimeTakenMs: 200},
	})
	sink := &recordingSink{}

	require.NoError(t, SubmitOutcomes(context.Background(), sink, "doc-1", "s-1", res))
	require.Len(t, sink.subs, 2)
	assert.Equal(t, AnswerSubmission{SessionID: "s-1", DocID: "doc-1", CardID: "c3", Position: 0, IsCorrect: true, TimeTakenMs: 100}, sink.subs[0])
	assert.Equal(t, "c1", sink.subs[1].CardID)
	assert.Equal(t, "B", sink.subs[1].Response)
	assert.Equal(t, 1, sink.subs[1].Position)
}

func TestSubmitOutcomes_ContinuesPastFailures(t *testing.T) {
	res := Aggregate(outcomesWithIDs("a", "b", "c"))
	sink := &recordingSink{failOn: map[string]bool{"a": true, "c": true}}

	err := SubmitOutcomes(context.Background(), sink, "doc-1", "s-1", res)
	require.Error(t, err)
	assert.Len(t, sink.subs, 3)
	assert.Contains(t, err.Error(), "outcome for a")
	assert.Contains(t, err.Error(), "outcome for c")
	assert.NotContains(t, err.Error(), "outcome for b")
}

func TestSubmitOutcomes_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &recordingSink{}

	err := SubmitOutcomes(ctx, sink, "doc-1", "s-1", Aggregate(outcomesWithIDs("a", "b")))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.subs)
}

func outcomesWithIDs(idList ...string) []ItemOutcome {
	out := make([]ItemOutcome, len(idList))
	for i, id := range idList {
		out[i] = ItemOutcome{Item: StudyItem{ID: id}}
	}
	return out
}
