package store

import (
	"context"
	"time"
)

// Request event sources.
const (
	SourceGateway = "gateway"
	SourceLLM     = "llm"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int    // max results (0 = unlimited)
	After  int64  // sequence > After
	Source string // empty matches every source
}

// RequestEventData captures one outbound call to the content service or an
// LLM provider.
type RequestEventData struct {
	Source    string
	Operation string

	// Target is the document ID for gateway calls, the configured model for
	// LLM calls.
	Target string

	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	StatusCode   int
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// RequestEvent is a stored RequestEventData.
type RequestEvent struct {
	RequestEventData
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append and query access to request events.
type EventRepo interface {
	// AppendRequest records an outbound request.
	AppendRequest(ctx context.Context, data RequestEventData) error

	// RecentRequests returns events newest first.
	RecentRequests(ctx context.Context, opts QueryOpts) ([]RequestEvent, error)

	// Request returns the event with the given sequence, or nil.
	Request(ctx context.Context, seq int64) (*RequestEvent, error)

	// UsageByModel sums LLM token usage per served model.
	UsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// ModelUsage is the aggregate LLM usage of one model.
type ModelUsage struct {
	Model        string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
}

// SessionRecord is one completed study session.
type SessionRecord struct {
	ID          string
	Sequence    int64
	DeckID      string
	Mode        string // "quiz" or "review"
	StartedAt   time.Time
	CompletedAt time.Time
	Total       int
	Correct     int
	Incorrect   int
	Score       int
	TimeTakenMs int64
	Submitted   bool
	SubmitError string
	Outcomes    []OutcomeRecord
}

// OutcomeRecord is one graded item of a SessionRecord.
type OutcomeRecord struct {
	Position    int
	ItemID      string
	Prompt      string
	Answer      string
	Response    string
	IsCorrect   bool
	TimeTakenMs int64
}

// HistoryRepo stores completed sessions.
type HistoryRepo interface {
	// RecordSession stores a session and its outcomes.
	RecordSession(ctx context.Context, rec SessionRecord) error

	// MarkSubmitted records the outcome of submitting a session's answers.
	// An empty submitErr marks the session as fully submitted.
	MarkSubmitted(ctx context.Context, sessionID, submitErr string) error

	// RecentSessions returns up to limit sessions, newest first, without
	// outcomes. limit <= 0 returns all.
	RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error)

	// Session returns one session with its outcomes, or nil if not found.
	Session(ctx context.Context, id string) (*SessionRecord, error)

	// Clear deletes every stored session and request event.
	Clear(ctx context.Context) error
}
