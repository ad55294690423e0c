package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abhisek/studydeck/internal/quiz"
)

// Client talks to the content service over HTTP.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// NewClient creates a Client from cfg. A nil httpClient gets one with
// cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		token: cfg.Token,
		http:  httpClient,
	}, nil
}

type generateRequest struct {
	Count      int                     `json:"count"`
	Difficulty string                  `json:"difficulty,omitempty"`
	BloomLevel *quiz.BloomDistribution `json:"bloom_level,omitempty"`
}

// GenerateItems asks the service to generate items for docID.
func (c *Client) GenerateItems(ctx context.Context, docID string, opts quiz.GenerateOptions) ([]quiz.StudyItem, error) {
	body := generateRequest{
		Count:      opts.Count,
		Difficulty: string(opts.Difficulty),
		BloomLevel: opts.BloomLevel,
	}
	items, err := c.fetchItems(ctx, OpGenerate, docID, http.MethodPost, "/flashcards/generate/"+url.PathEscape(docID), body, "flashcards")
	if err != nil {
		return nil, &quiz.GenerationError{DocID: docID, Err: err}
	}
	return items, nil
}

// ReviewBatch fetches the items due for review in docID.
func (c *Client) ReviewBatch(ctx context.Context, docID string, sessionSize int) ([]quiz.StudyItem, error) {
	path := "/flashcards/review/" + url.PathEscape(docID) + "?session_size=" + strconv.Itoa(sessionSize)
	items, err := c.fetchItems(ctx, OpReview, docID, http.MethodGet, path, nil, "cards")
	if err != nil {
		return nil, &quiz.GenerationError{DocID: docID, Err: err}
	}
	return items, nil
}

func (c *Client) fetchItems(ctx context.Context, op, docID, method, path string, body any, key string) ([]quiz.StudyItem, error) {
	req, err := c.newJSONRequest(ctx, op, method, path, body)
	if err != nil {
		return nil, err
	}
	data, status, err := c.do(op, req)
	if err != nil {
		return nil, err
	}
	items, err := decodeCards(op, status, data, key)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &quiz.NoContentError{DocID: docID}
	}
	return items, nil
}

// SubmitAnswer reports one graded outcome.
func (c *Client) SubmitAnswer(ctx context.Context, sub quiz.AnswerSubmission) error {
	req, err := c.newJSONRequest(ctx, OpSubmit, http.MethodPost, "/flashcards/answer", sub)
	if err != nil {
		return err
	}
	_, _, err = c.do(OpSubmit, req)
	return err
}

// ListDocuments returns all of the caller's documents.
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	req, err := c.newJSONRequest(ctx, OpList, http.MethodGet, "/documents", nil)
	if err != nil {
		return nil, err
	}
	data, status, err := c.do(OpList, req)
	if err != nil {
		return nil, err
	}
	list, err := listField(data, "documents")
	if err != nil {
		return nil, &quiz.ServerRejection{Op: OpList, StatusCode: status, Message: err.Error()}
	}
	var wire []wireDocument
	if err := json.Unmarshal(list, &wire); err != nil {
		return nil, &quiz.ServerRejection{Op: OpList, StatusCode: status, Message: "decode documents: " + err.Error()}
	}
	docs := make([]Document, 0, len(wire))
	for _, d := range wire {
		docs = append(docs, d.document())
	}
	return docs, nil
}

// UploadDocument sends r as a multipart form file.
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader) (*Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: create form file: %w", OpUpload, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("%s: read %s: %w", OpUpload, filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: close form: %w", OpUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/documents/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", OpUpload, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	data, status, err := c.do(OpUpload, req)
	if err != nil {
		return nil, err
	}
	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &quiz.ServerRejection{Op: OpUpload, StatusCode: status, Message: "decode document: " + err.Error()}
	}
	doc := wire.document()
	return &doc, nil
}

func (c *Client) newJSONRequest(ctx context.Context, op, method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal request: %w", op, err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, r)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)
	return req, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) do(op string, req *http.Request) (json.RawMessage, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &quiz.TransportError{Op: op, Err: err}
	}
	data, err := readEnvelope(op, resp)
	return data, resp.StatusCode, err
}
