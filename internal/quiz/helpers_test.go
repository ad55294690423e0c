package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// fakeSource returns canned items or an error and records requests.
type fakeSource struct {
	mu    sync.Mutex
	items []StudyItem
	err   error
	calls []GenerateOptions

	// block, when set, makes GenerateItems wait until it is closed.
	block chan struct{}
	// entered is signalled when a call starts.
	entered chan struct{}
}

func (f *fakeSource) GenerateItems(ctx context.Context, docID string, opts GenerateOptions) ([]StudyItem, error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	block, entered := f.block, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]StudyItem(nil), f.items...), nil
}

func (f *fakeSource) ReviewBatch(ctx context.Context, docID string, size int) ([]StudyItem, error) {
	return f.GenerateItems(ctx, docID, GenerateOptions{Count: size})
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func makeItems(n int) []StudyItem {
	items := make([]StudyItem, n)
	for i := range items {
		items[i] = StudyItem{
			ID:     fmt.Sprintf("card-%02d", i),
			Prompt: fmt.Sprintf("prompt %d", i),
			Answer: fmt.Sprintf("answer %d", i),
		}
	}
	return items
}

func newTestMachine(src *fakeSource, clock *fakeClock) *Machine {
	seq := 0
	return NewMachine(src,
		WithReviewSource(src),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithClock(clock.Now),
		WithIDFunc(func() string {
			seq++
			return fmt.Sprintf("session-%d", seq)
		}),
	)
}

func ids(items []StudyItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
