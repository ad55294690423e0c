// Package itemgen generates study items from local documents with an LLM.
package itemgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/abhisek/studydeck/internal/llm"
	"github.com/abhisek/studydeck/internal/quiz"
)

// Generator implements quiz.ItemSource over local text files. The
// document ID is the file path.
type Generator struct {
	provider llm.Provider
	config   Config

	// OnReject is called for every generated card dropped by validation.
	OnReject func(RejectedItem)

	newID func() string
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{
		provider: provider,
		config:   cfg,
		newID:    func() string { return uuid.NewString() },
	}
}

type document struct {
	name      string
	text      string
	truncated bool
}

type itemsOutput struct {
	Items []itemOutput `json:"items"`
}

type itemOutput struct {
	Prompt     string   `json:"prompt"`
	Answer     string   `json:"answer"`
	Difficulty string   `json:"difficulty"`
	BloomLevel string   `json:"bloom_level"`
	Options    []string `json:"options"`
}

// GenerateItems reads the document at docID and asks the provider for
// opts.Count cards. Cards failing validation are dropped; when none
// survive, or the document has no text, the result is a
// *quiz.NoContentError.
func (g *Generator) GenerateItems(ctx context.Context, docID string, opts quiz.GenerateOptions) ([]quiz.StudyItem, error) {
	doc, err := readDocument(docID, g.config.MaxDocumentChars)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.text) == "" {
		return nil, &quiz.NoContentError{DocID: docID}
	}
	if opts.Count <= 0 {
		opts.Count = quiz.MaxGenerateCount
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeStudyItems)
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(doc, opts)},
		},
		Schema:      ItemsSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw itemsOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	items := make([]quiz.StudyItem, 0, len(raw.Items))
	seen := make(map[string]bool, len(raw.Items))
	for _, out := range raw.Items {
		it := out.item()
		if reason := checkItem(it, opts.Difficulty, seen); reason != "" {
			if g.OnReject != nil {
				g.OnReject(RejectedItem{Prompt: it.Prompt, Reason: reason})
			}
			continue
		}
		seen[strings.ToLower(strings.TrimSpace(it.Prompt))] = true
		it.ID = g.newID()
		items = append(items, it)
		if len(items) == opts.Count {
			break
		}
	}

	if len(items) == 0 {
		return nil, &quiz.NoContentError{DocID: docID}
	}
	return items, nil
}

func (o itemOutput) item() quiz.StudyItem {
	it := quiz.StudyItem{
		Prompt:     strings.TrimSpace(o.Prompt),
		Answer:     strings.TrimSpace(o.Answer),
		Difficulty: quiz.Difficulty(strings.ToLower(o.Difficulty)),
	}
	for _, opt := range o.Options {
		if s := strings.TrimSpace(opt); s != "" {
			it.Options = append(it.Options, s)
		}
	}
	return it
}

// readDocument loads a UTF-8 text file, cutting it to maxChars bytes on a
// character boundary.
func readDocument(path string, maxChars int) (document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document{}, fmt.Errorf("document %s not found", path)
		}
		return document{}, fmt.Errorf("read document: %w", err)
	}
	if !utf8.Valid(data) {
		return document{}, fmt.Errorf("document %s is not UTF-8 text", path)
	}

	doc := document{name: filepath.Base(path), text: string(data)}
	if maxChars > 0 && len(doc.text) > maxChars {
		cut := maxChars
		for cut > 0 && !utf8.RuneStart(doc.text[cut]) {
			cut--
		}
		doc.text = doc.text[:cut]
		doc.truncated = true
	}
	return doc, nil
}
