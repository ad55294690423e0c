package itemgen

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/studydeck/internal/llm"
	"github.com/abhisek/studydeck/internal/quiz"
)

const cellText = `The mitochondrion is the powerhouse of the cell. It produces ATP
through cellular respiration. Ribosomes synthesize proteins.`

func writeDoc(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return path
}

func itemsJSON() json.RawMessage {
	return json.RawMessage(`{"items": [
		{"prompt": "What is the powerhouse of the cell?", "answer": "The mitochondrion", "difficulty": "easy", "bloom_level": "remember", "options": []},
		{"prompt": "Which molecule does cellular respiration produce?", "answer": "ATP", "difficulty": "medium", "bloom_level": "understand",
		 "options": ["ATP", "DNA", "RNA", "NADH"]},
		{"prompt": "What synthesizes proteins?", "answer": "Ribosomes", "difficulty": "easy", "bloom_level": "remember", "options": []}
	]}`)
}

func newTestGenerator(mock *llm.MockProvider) *Generator {
	g := New(mock, DefaultConfig())
	n := 0
	g.newID = func() string {
		n++
		return "card-" + string(rune('0'+n))
	}
	return g
}

func TestGenerateItems(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: itemsJSON()})
	g := newTestGenerator(mock)
	path := writeDoc(t, "cell.md", cellText)

	items, err := g.GenerateItems(context.Background(), path, quiz.GenerateOptions{Count: 5, Difficulty: quiz.DifficultyMixed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].ID != "card-1" || items[2].ID != "card-3" {
		t.Fatalf("IDs not assigned in order: %q, %q", items[0].ID, items[2].ID)
	}
	if !items[1].IsChoice() || items[1].Answer != "ATP" {
		t.Fatalf("choice item = %+v", items[1])
	}
	if items[0].IsChoice() {
		t.Fatalf("recall item has options: %+v", items[0].Options)
	}

	req := mock.Calls[0]
	if req.Schema != ItemsSchema {
		t.Fatal("expected items schema on request")
	}
	msg := req.Messages[0].Content
	for _, want := range []string{"Document: cell.md", "Cards wanted: 5", "mixed", "powerhouse of the cell"} {
		if !strings.Contains(msg, want) {
			t.Errorf("user message missing %q:\n%s", want, msg)
		}
	}
}

func TestGenerateItems_StopsAtCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: itemsJSON()})
	g := newTestGenerator(mock)

	items, err := g.GenerateItems(context.Background(), writeDoc(t, "cell.txt", cellText), quiz.GenerateOptions{Count: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
}

func TestGenerateItems_DropsInvalidCards(t *testing.T) {
	content := json.RawMessage(`{"items": [
		{"prompt": "Q1", "answer": "A1", "difficulty": "hard", "bloom_level": "apply", "options": []},
		{"prompt": "  q1 ", "answer": "A1 again", "difficulty": "hard", "bloom_level": "apply", "options": []},
		{"prompt": "Q2", "answer": "", "difficulty": "hard", "bloom_level": "apply", "options": []},
		{"prompt": "Q3", "answer": "A3", "difficulty": "easy", "bloom_level": "apply", "options": []},
		{"prompt": "Q4", "answer": "Z", "difficulty": "hard", "bloom_level": "apply", "options": ["X", "Y"]}
	]}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: content})
	g := newTestGenerator(mock)

	var rejected []RejectedItem
	g.OnReject = func(r RejectedItem) { rejected = append(rejected, r) }

	items, err := g.GenerateItems(context.Background(), writeDoc(t, "d.txt", cellText), quiz.GenerateOptions{Count: 10, Difficulty: quiz.DifficultyHard})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Prompt != "Q1" {
		t.Fatalf("items = %+v", items)
	}

	reasons := make([]string, len(rejected))
	for i, r := range rejected {
		reasons[i] = r.Reason
	}
	want := []string{"duplicate prompt", "answer is empty", `difficulty "easy", want "hard"`, "answer matches 0 options, want exactly 1"}
	if strings.Join(reasons, "|") != strings.Join(want, "|") {
		t.Fatalf("rejections = %q, want %q", reasons, want)
	}
}

func TestGenerateItems_NoContent(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		mock := llm.NewMockProvider()
		g := newTestGenerator(mock)
		_, err := g.GenerateItems(context.Background(), writeDoc(t, "blank.txt", "  \n\t"), quiz.GenerateOptions{Count: 3})
		if !quiz.IsNoContent(err) {
			t.Fatalf("expected NoContentError, got %v", err)
		}
		if mock.CallCount() != 0 {
			t.Fatal("provider should not be called for an empty document")
		}
	})

	t.Run("no cards returned", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"items": []}`)})
		g := newTestGenerator(mock)
		_, err := g.GenerateItems(context.Background(), writeDoc(t, "d.txt", cellText), quiz.GenerateOptions{Count: 3})
		var nc *quiz.NoContentError
		if !errors.As(err, &nc) {
			t.Fatalf("expected NoContentError, got %v", err)
		}
	})
}

func TestGenerateItems_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrAuth{StatusCode: 401, Err: errors.New("bad key")}})
	g := newTestGenerator(mock)

	_, err := g.GenerateItems(context.Background(), writeDoc(t, "d.txt", cellText), quiz.GenerateOptions{Count: 3})
	var auth *llm.ErrAuth
	if !errors.As(err, &auth) {
		t.Fatalf("expected ErrAuth in chain, got %v", err)
	}
}

func TestGenerateItems_SchemaMismatch(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"cards": []}`)})
	g := newTestGenerator(mock)

	_, err := g.GenerateItems(context.Background(), writeDoc(t, "d.txt", cellText), quiz.GenerateOptions{Count: 3})
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestGenerateItems_MissingFile(t *testing.T) {
	g := newTestGenerator(llm.NewMockProvider())
	_, err := g.GenerateItems(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), quiz.GenerateOptions{Count: 1})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestReadDocument_Truncates(t *testing.T) {
	path := writeDoc(t, "long.txt", "ééééé")

	doc, err := readDocument(path, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.text != "éé" || !doc.truncated {
		t.Fatalf("doc = %+v", doc)
	}

	doc, _ = readDocument(path, 0)
	if doc.truncated || doc.text != "ééééé" {
		t.Fatalf("unbounded doc = %+v", doc)
	}
}

func TestReadDocument_RejectsBinary(t *testing.T) {
	path := writeDoc(t, "bin.dat", string([]byte{0xff, 0xfe, 0x00}))
	if _, err := readDocument(path, 0); err == nil {
		t.Fatal("expected error for non UTF-8 file")
	}
}

func TestBuildUserMessage_Bloom(t *testing.T) {
	msg := buildUserMessage(document{name: "n.md", text: "body", truncated: true}, quiz.GenerateOptions{
		Count:      4,
		Difficulty: quiz.DifficultyEasy,
		BloomLevel: &quiz.BloomDistribution{Remember: 3, Apply: 1},
	})
	for _, want := range []string{"- remember: 3", "- apply: 1", "easy (every card)", "Only the beginning"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "understand") {
		t.Errorf("zero buckets should be omitted:\n%s", msg)
	}
}
