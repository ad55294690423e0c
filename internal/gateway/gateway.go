// Package gateway is the client for the remote content service that
// generates, schedules and records study items.
package gateway

import (
	"context"
	"io"

	"github.com/abhisek/studydeck/internal/quiz"
)

// Gateway is the content service as the rest of the program sees it.
// Implementations never retry.
type Gateway interface {
	quiz.ItemSource
	quiz.ReviewSource
	quiz.AnswerSink

	// ListDocuments returns every document the caller owns.
	ListDocuments(ctx context.Context) ([]Document, error)

	// UploadDocument sends a file for processing.
	UploadDocument(ctx context.Context, filename string, r io.Reader) (*Document, error)
}

// Operation names used in errors and request events.
const (
	OpGenerate = "generate items"
	OpReview   = "review batch"
	OpSubmit   = "submit answer"
	OpList     = "list documents"
	OpUpload   = "upload document"
)

// StatusCompleted is the processing status of a document that items can be
// generated from.
const StatusCompleted = "completed"

// Document is a source document held by the content service.
type Document struct {
	ID               string `json:"id"`
	Filename         string `json:"filename"`
	Title            string `json:"title,omitempty"`
	ProcessingStatus string `json:"processing_status"`
	CreatedAt        string `json:"created_at,omitempty"`
}

// Name returns the title, falling back to the filename.
func (d Document) Name() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Filename
}

// Eligible reports whether items can be generated from the document.
func (d Document) Eligible() bool {
	return d.ProcessingStatus == StatusCompleted
}

// EligibleDocuments keeps only documents that finished processing.
func EligibleDocuments(docs []Document) []Document {
	var out []Document
	for _, d := range docs {
		if d.Eligible() {
			out = append(out, d)
		}
	}
	return out
}
