package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studydeck/internal/quiz"
)

func TestMockGateway_FIFO(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockGateway(
		MockItems{Err: boom},
		MockItems{Items: SampleItems()[:2]},
	)
	ctx := context.Background()

	_, err := m.GenerateItems(ctx, "doc-1", quiz.GenerateOptions{Count: 2})
	assert.ErrorIs(t, err, boom)
	var ge *quiz.GenerationError
	assert.True(t, errors.As(err, &ge))

	items, err := m.GenerateItems(ctx, "doc-1", quiz.GenerateOptions{Count: 2})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = m.ReviewBatch(ctx, "doc-1", 5)
	assert.True(t, quiz.IsNoContent(err))

	require.Equal(t, 3, m.CallCount())
	assert.Equal(t, OpReview, m.Calls[2].Op)
	assert.Equal(t, 5, m.Calls[2].SessionSize)
}

func TestMockGateway_Fallback(t *testing.T) {
	m := &MockGateway{Fallback: SampleItems()}
	for i := 0; i < 3; i++ {
		items, err := m.GenerateItems(context.Background(), "doc-1", quiz.GenerateOptions{Count: 10})
		require.NoError(t, err)
		assert.Len(t, items, len(SampleItems()))
	}
}

func TestMockGateway_DrivesMachine(t *testing.T) {
	m := &MockGateway{Fallback: SampleItems()}
	machine := quiz.NewMachine(m, quiz.WithReviewSource(m))

	require.NoError(t, machine.StartQuiz(context.Background(), "doc-1", quiz.SessionConfig{Count: quiz.Limit(3)}))
	s, ok := machine.Session()
	require.True(t, ok)
	assert.Len(t, s.Items, 3)
	assert.Equal(t, 3, m.Calls[0].Options.Count)
}

func TestSampleItems_ChoicesContainAnswer(t *testing.T) {
	for _, it := range SampleItems() {
		if !it.IsChoice() {
			continue
		}
		assert.Contains(t, it.Options, it.Answer, "item %s", it.ID)
	}
}
