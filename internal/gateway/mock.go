package gateway

import (
	"context"
	"io"
	"sync"

	"github.com/abhisek/studydeck/internal/quiz"
)

// MockItems is a canned response for GenerateItems or ReviewBatch.
type MockItems struct {
	Items []quiz.StudyItem
	Err   error
}

// MockCall records one item request.
type MockCall struct {
	Op          string
	DocID       string
	Options     quiz.GenerateOptions
	SessionSize int
}

// MockGateway is a deterministic Gateway for tests and offline runs.
// Item requests consume canned responses in FIFO order; when the queue is
// empty the Fallback items are returned, and with no Fallback the request
// fails with a NoContentError.
type MockGateway struct {
	mu        sync.Mutex
	responses []MockItems

	Fallback    []quiz.StudyItem
	Documents   []Document
	SubmitErr   error
	Calls       []MockCall
	Submissions []quiz.AnswerSubmission
	Uploads     []string
}

// NewMockGateway creates a MockGateway with the given canned responses.
func NewMockGateway(responses ...MockItems) *MockGateway {
	return &MockGateway{responses: responses}
}

// AddResponse appends a canned response to the queue.
func (m *MockGateway) AddResponse(resp MockItems) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

func (m *MockGateway) GenerateItems(_ context.Context, docID string, opts quiz.GenerateOptions) ([]quiz.StudyItem, error) {
	return m.next(MockCall{Op: OpGenerate, DocID: docID, Options: opts})
}

func (m *MockGateway) ReviewBatch(_ context.Context, docID string, sessionSize int) ([]quiz.StudyItem, error) {
	return m.next(MockCall{Op: OpReview, DocID: docID, SessionSize: sessionSize})
}

func (m *MockGateway) next(call MockCall) ([]quiz.StudyItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, call)

	var resp MockItems
	if len(m.responses) > 0 {
		resp = m.responses[0]
		m.responses = m.responses[1:]
	} else {
		resp = MockItems{Items: m.Fallback}
	}

	if resp.Err != nil {
		return nil, &quiz.GenerationError{DocID: call.DocID, Err: resp.Err}
	}
	if len(resp.Items) == 0 {
		return nil, &quiz.GenerationError{DocID: call.DocID, Err: &quiz.NoContentError{DocID: call.DocID}}
	}
	return append([]quiz.StudyItem(nil), resp.Items...), nil
}

func (m *MockGateway) SubmitAnswer(_ context.Context, sub quiz.AnswerSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submissions = append(m.Submissions, sub)
	return m.SubmitErr
}

func (m *MockGateway) ListDocuments(context.Context) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Document(nil), m.Documents...), nil
}

func (m *MockGateway) UploadDocument(_ context.Context, filename string, r io.Reader) (*Document, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads = append(m.Uploads, filename)
	doc := Document{ID: filename, Filename: filename, ProcessingStatus: "pending"}
	m.Documents = append(m.Documents, doc)
	return &doc, nil
}

// CallCount returns the number of item requests made.
func (m *MockGateway) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// SampleItems is a small built-in deck used by --mock runs.
func SampleItems() []quiz.StudyItem {
	return []quiz.StudyItem{
		{ID: "sample-1", Prompt: "What does HTTP stand for?", Answer: "Hypertext Transfer Protocol", Difficulty: quiz.DifficultyEasy},
		{ID: "sample-2", Prompt: "Which layer of the OSI model does TCP belong to?", Answer: "Transport", Difficulty: quiz.DifficultyMedium,
			Options: []string{"Network", "Transport", "Session", "Application"}},
		{ID: "sample-3", Prompt: "What is the time complexity of binary search?", Answer: "O(log n)", Difficulty: quiz.DifficultyMedium,
			Options: []string{"O(n)", "O(log n)", "O(n log n)", "O(1)"}},
		{ID: "sample-4", Prompt: "Define idempotence.", Answer: "Applying an operation more than once has the same effect as applying it once", Difficulty: quiz.DifficultyHard},
		{ID: "sample-5", Prompt: "What port does HTTPS use by default?", Answer: "443", Difficulty: quiz.DifficultyEasy,
			Options: []string{"80", "8080", "443", "22"}},
		{ID: "sample-6", Prompt: "What does ACID stand for in databases?", Answer: "Atomicity, Consistency, Isolation, Durability", Difficulty: quiz.DifficultyHard},
	}
}
