package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"deck-cli/internal/theme"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width + style. Creating a renderer with WithAutoStyle can trigger
	// terminal background queries that may block on some terminals, so styles are resolved
	// up front and renderers reused across frames.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderMarkdown renders one slide (or region) body at the given wrap width.
func renderMarkdown(md string, width int, th theme.Theme) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle(th)
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		cfg := markdownStyleConfig(style)
		zero := uint(0)
		// Slides are positioned by the deck layout; glamour's own margin would double it.
		cfg.Document.Margin = &zero
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(cfg),
			glamour.WithWordWrap(width),
			glamour.WithEmoji(),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		// Re-check in case a concurrent goroutine filled it.
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func markdownStyleConfig(styleName string) ansi.StyleConfig {
	switch strings.ToLower(strings.TrimSpace(styleName)) {
	case "light":
		cfg := styles.LightStyleConfig
		applyDeckMarkdownPalette(&cfg, "light")
		return cfg
	case "dracula":
		return styles.DraculaStyleConfig
	case "tokyo-night":
		return styles.TokyoNightStyleConfig
	case "notty":
		return styles.NoTTYStyleConfig
	case "ascii":
		return styles.ASCIIStyleConfig
	default:
		cfg := styles.DarkStyleConfig
		applyDeckMarkdownPalette(&cfg, "dark")
		return cfg
	}
}

// markdownStyle picks the glamour style for th. DECK_MD_STYLE overrides it for debugging and
// accessibility.
func markdownStyle(th theme.Theme) string {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("DECK_MD_STYLE"))); v != "" {
		return v
	}
	if th.MarkdownStyle != "" {
		return th.MarkdownStyle
	}
	return "dark"
}

// applyDeckMarkdownPalette gives slide headings the deck accent and keeps body text on the
// surface foreground.
func applyDeckMarkdownPalette(cfg *ansi.StyleConfig, styleName string) {
	if cfg == nil {
		return
	}
	heading := mdColor("27", "62", styleName)
	cfg.H1.Color = heading
	cfg.H1.BackgroundColor = nil
	cfg.H1.Prefix = ""
	cfg.H1.Suffix = ""
	cfg.H1.Bold = mdBoolPtr(true)
	cfg.H2.Color = heading
	cfg.H3.Color = heading

	cfg.Text.Color = mdColor("235", "252", styleName)
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	cfg.BlockQuote.Faint = mdBoolPtr(false)
}

func mdColor(light, dark, styleName string) *string {
	if styleName == "light" {
		return mdStrPtr(light)
	}
	return mdStrPtr(dark)
}

func mdStrPtr(s string) *string { return &s }
func mdBoolPtr(b bool) *bool    { return &b }
