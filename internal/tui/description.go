package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minDescriptionWrap keeps narrow overlays readable.
const minDescriptionWrap = 24

// descriptionRenderer renders card descriptions as markdown and rebuilds the glamour renderer when the wrap width changes.
type descriptionRenderer struct {
	width    int
	renderer *glamour.TermRenderer

	lastSource string
	lastOutput string
}

// render converts a card description into ANSI-styled text. Render failures fall back to the raw description.
func (r *descriptionRenderer) render(description string, width int) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}

	wrapWidth := max(width, minDescriptionWrap)
	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return description
		}
		r.renderer = renderer
		r.width = wrapWidth
		r.lastSource = ""
	}
	if r.lastSource == description && r.lastOutput != "" {
		return r.lastOutput
	}

	rendered, err := r.renderer.Render(description)
	if err != nil {
		return description
	}
	r.lastSource = description
	r.lastOutput = strings.Trim(rendered, "\n")
	return r.lastOutput
}
