package itemgen

import "github.com/abhisek/studydeck/internal/llm"

// ItemsSchema defines the JSON schema for generated study items.
var ItemsSchema = &llm.Schema{
	Name:        "study-items",
	Description: "Flashcards drawn from a study document",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt": map[string]any{
							"type":        "string",
							"description": "The question side of the card, answerable from the document alone",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The answer side of the card. For multiple choice, the exact text of the correct option.",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"easy", "medium", "hard"},
						},
						"bloom_level": map[string]any{
							"type":        "string",
							"enum":        []any{"remember", "understand", "apply", "analyze", "evaluate", "create"},
							"description": "The cognitive level the card exercises",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 options for multiple choice cards, one equal to the answer. Empty for recall cards.",
						},
					},
					"required":             []any{"prompt", "answer", "difficulty", "bloom_level", "options"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"items"},
		"additionalProperties": false,
	},
}
