package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/studydeck/internal/quiz"
	"github.com/abhisek/studydeck/internal/schemacheck"
)

// cardsSchema describes the card list returned by generation and review.
// The service has used both question/answer and front/back naming.
var cardsSchema = &schemacheck.Schema{
	Name:        "gateway-cards",
	Description: "Study cards returned by the content service",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":         map[string]any{"type": []any{"string", "integer"}},
				"question":   map[string]any{"type": "string", "minLength": 1},
				"front":      map[string]any{"type": "string", "minLength": 1},
				"answer":     map[string]any{"type": "string"},
				"back":       map[string]any{"type": "string"},
				"difficulty": map[string]any{"type": []any{"string", "null"}},
				"options": map[string]any{
					"type":  []any{"array", "null"},
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"id"},
			"allOf": []any{
				map[string]any{"anyOf": []any{
					map[string]any{"required": []any{"question"}},
					map[string]any{"required": []any{"front"}},
				}},
				map[string]any{"anyOf": []any{
					map[string]any{"required": []any{"answer"}},
					map[string]any{"required": []any{"back"}},
				}},
			},
		},
	},
}

// flexID accepts a JSON string or number.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %s", b)
	}
	*f = flexID(n.String())
	return nil
}

type wireCard struct {
	ID         flexID   `json:"id"`
	Question   string   `json:"question"`
	Front      string   `json:"front"`
	Answer     string   `json:"answer"`
	Back       string   `json:"back"`
	Difficulty *string  `json:"difficulty"`
	Options    []string `json:"options"`
}

func (c wireCard) item() quiz.StudyItem {
	it := quiz.StudyItem{
		ID:     string(c.ID),
		Prompt: firstNonEmpty(c.Question, c.Front),
		Answer: firstNonEmpty(c.Answer, c.Back),
	}
	if c.Difficulty != nil {
		if d, err := quiz.ParseDifficulty(*c.Difficulty); err == nil {
			it.Difficulty = d
		}
	}
	if len(c.Options) > 0 {
		it.Options = append([]string(nil), c.Options...)
	}
	return it
}

// decodeCards validates and converts a card list. Schema failures become
// a ServerRejection.
func decodeCards(op string, status int, data json.RawMessage, key string) ([]quiz.StudyItem, error) {
	list, err := listField(data, key)
	if err != nil {
		return nil, &quiz.ServerRejection{Op: op, StatusCode: status, Message: err.Error()}
	}
	if err := schemacheck.Validate(cardsSchema, list); err != nil {
		return nil, &quiz.ServerRejection{Op: op, StatusCode: status, Message: "unexpected card format: " + err.Error()}
	}

	var cards []wireCard
	if err := json.Unmarshal(list, &cards); err != nil {
		return nil, &quiz.ServerRejection{Op: op, StatusCode: status, Message: "decode cards: " + err.Error()}
	}
	items := make([]quiz.StudyItem, 0, len(cards))
	for _, c := range cards {
		items = append(items, c.item())
	}
	return items, nil
}

type wireDocument struct {
	ID               flexID `json:"id"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	Title            string `json:"title"`
	ProcessingStatus string `json:"processing_status"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}

func (d wireDocument) document() Document {
	return Document{
		ID:               string(d.ID),
		Filename:         firstNonEmpty(d.Filename, d.OriginalFilename),
		Title:            d.Title,
		ProcessingStatus: strings.ToLower(firstNonEmpty(d.ProcessingStatus, d.Status)),
		CreatedAt:        d.CreatedAt,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
