package llm

import "strings"

// ModelCost is USD pricing per one million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a served model ID. Dated snapshots
// such as "claude-haiku-4-5-20251001" and OpenRouter's "vendor/model" IDs
// fall back to the base entry. It returns false for unknown models.
func LookupCost(modelID string) (ModelCost, bool) {
	id := modelID
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	for {
		if c, ok := modelCosts[id]; ok {
			return c, true
		}
		i := strings.LastIndex(id, "-")
		if i < 0 {
			return ModelCost{}, false
		}
		id = id[:i]
	}
}

// modelCosts covers the models reachable through the friendly names of
// each provider. Prices from the vendors' published rate cards.
var modelCosts = map[string]ModelCost{
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4-5": {3, 15},
	"claude-opus-4-1":   {15, 75},

	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},

	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}
