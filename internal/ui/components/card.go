package components

import "github.com/abhisek/studydeck/internal/ui/theme"

// ContentWidth returns the inner width used for cards, capped so long
// prompts wrap at a readable measure.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-8, 20), 72)
}

// Card wraps content in a rounded card of the given width. Revealed cards
// get the accent border.
func Card(content string, width int, revealed bool) string {
	style := theme.Card
	if revealed {
		style = theme.RevealedCard
	}
	return style.
		Width(width).
		Render(content)
}
