package tui

import (
	"os"
	"strconv"
	"strings"

	"deck-cli/internal/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Chrome styles derived from the deck theme. Faint is only applied on dark backgrounds;
// faint text on light terminals is often illegible.
type palette struct {
	muted    lipgloss.Style
	accent   lipgloss.Style
	selected lipgloss.Style
	border   lipgloss.Style
	active   lipgloss.Style
	status   lipgloss.Style
	errText  lipgloss.Style
}

func newPalette(th theme.Theme) palette {
	return palette{
		muted:    faintIfDark(lipgloss.NewStyle().Foreground(th.Muted)),
		accent:   lipgloss.NewStyle().Foreground(th.Accent).Bold(true),
		selected: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(th.Selected),
		border:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(th.Muted),
		active:   lipgloss.NewStyle().Foreground(th.Accent).Bold(true),
		status:   lipgloss.NewStyle().Foreground(th.Foreground),
		errText:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "196"}),
	}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

// applyColorProfilePreference sets Lip Gloss's color profile for the presenter view.
//
// termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which can disable colors in a
// full-screen program. Only NO_COLOR and DECK_COLOR_PROFILE are honored here.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DECK_COLOR_PROFILE"))) {
	case "ascii":
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	case "ansi":
		lipgloss.SetColorProfile(termenv.ANSI)
		return
	case "ansi256", "256":
		lipgloss.SetColorProfile(termenv.ANSI256)
		return
	case "truecolor":
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}

	profile := termenv.ColorProfile()

	// Trust TERM/COLORTERM when they claim more than the detector reports.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection so adaptive colors pick the right
// variant.
//
// Priority:
// 1) DECK_THEME_MODE=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg")
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DECK_THEME_MODE"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
