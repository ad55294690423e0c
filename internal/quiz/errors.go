package quiz

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned by StartQuiz and StartReview when the machine
// was reset while the request was in flight. The fetched items are dropped.
var ErrSuperseded = errors.New("session request superseded by reset")

// TransportError is a network or HTTP failure that happened before a
// usable response envelope existed.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: content service returned HTTP %d", e.Op, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: content service unreachable: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: content service unreachable", e.Op)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerRejection is a well-formed envelope with success=false, or one
// missing its data.
type ServerRejection struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerRejection) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request was rejected by the content service", e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// NoContentError means the source succeeded but had nothing to study.
// It calls for more content, not a retry.
type NoContentError struct {
	DocID string
}

func (e *NoContentError) Error() string {
	return fmt.Sprintf("no content available for document %s: generate more flashcards for it first", e.DocID)
}

// GenerationError wraps every failure of an item-producing request.
type GenerationError struct {
	DocID string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating items for %s: %v", e.DocID, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// StateViolation reports an action invoked from a phase that forbids it.
// It is a programming error in the caller and is never stored as the
// machine's visible error.
type StateViolation struct {
	Action string
	Phase  Phase
	Reason string
}

func (e *StateViolation) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s not allowed in %s phase: %s", e.Action, e.Phase, e.Reason)
	}
	return fmt.Sprintf("%s not allowed in %s phase", e.Action, e.Phase)
}

// IsNoContent reports whether err is, or wraps, a NoContentError.
func IsNoContent(err error) bool {
	var nc *NoContentError
	return errors.As(err, &nc)
}
