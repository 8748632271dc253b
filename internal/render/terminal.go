package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the word wrap width used for terminal output.
const DefaultWidth = 100

// Terminal renders markdown for display in a terminal, picking a dark or
// light style from the terminal background. Without a terminal the
// markdown is rendered in plain text style.
func Terminal(md string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
