package tui

import (
	"strings"
	"testing"

	"deck-cli/internal/theme"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestMarkdownStyle_EnvOverride(t *testing.T) {
	t.Setenv("DECK_MD_STYLE", "")
	if got := markdownStyle(theme.Theme{MarkdownStyle: "dracula"}); got != "dracula" {
		t.Fatalf("expected theme style; got %q", got)
	}
	if got := markdownStyle(theme.Theme{}); got != "dark" {
		t.Fatalf("expected dark fallback; got %q", got)
	}
	t.Setenv("DECK_MD_STYLE", "NoTTY")
	if got := markdownStyle(theme.Theme{MarkdownStyle: "dracula"}); got != "notty" {
		t.Fatalf("expected env override; got %q", got)
	}
}

func TestRenderMarkdown_CachesRendererPerStyleAndWidth(t *testing.T) {
	t.Setenv("DECK_MD_STYLE", "")
	th := theme.Theme{MarkdownStyle: "notty"}

	out := renderMarkdown("# Title\n\nbody text", 40, th)
	plain := xansi.Strip(out)
	if !strings.Contains(plain, "Title") || !strings.Contains(plain, "body text") {
		t.Fatalf("unexpected render %q", plain)
	}

	mdRendererMu.Lock()
	r1 := mdRenderers["notty:40"]
	mdRendererMu.Unlock()
	if r1 == nil {
		t.Fatalf("expected renderer cached under notty:40")
	}

	_ = renderMarkdown("again", 40, th)
	mdRendererMu.Lock()
	r2 := mdRenderers["notty:40"]
	mdRendererMu.Unlock()
	if r1 != r2 {
		t.Fatalf("expected the cached renderer to be reused")
	}

	if renderMarkdown("   ", 40, th) != "" {
		t.Fatalf("expected empty output for blank markdown")
	}
}
