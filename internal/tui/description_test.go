package tui

import (
	"strings"
	"testing"
)

// TestDescriptionRendererRendersMarkdown verifies markdown is styled and cached per width.
func TestDescriptionRendererRendersMarkdown(t *testing.T) {
	r := &descriptionRenderer{}
	if got := r.render("   ", 40); got != "" {
		t.Fatalf("expected blank description to render empty, got %q", got)
	}

	out := r.render("**Steps**\n\n- drag\n- drop", 40)
	if !strings.Contains(out, "Steps") || !strings.Contains(out, "drop") {
		t.Fatalf("expected rendered markdown to keep text, got %q", out)
	}
	if strings.Contains(out, "**") {
		t.Fatalf("expected markdown emphasis markers to be rendered, got %q", out)
	}
	if again := r.render("**Steps**\n\n- drag\n- drop", 40); again != out {
		t.Fatalf("expected cached output for unchanged input")
	}

	r.render("narrow", 5)
	if r.width != minDescriptionWrap {
		t.Fatalf("expected wrap width clamped to %d, got %d", minDescriptionWrap, r.width)
	}
}
