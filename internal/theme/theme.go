// Package theme resolves deck theme names to terminal palettes and markdown styles.
package theme

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

type Theme struct {
	Name string
	// MarkdownStyle is a glamour standard style name.
	MarkdownStyle string

	Foreground lipgloss.TerminalColor
	Muted      lipgloss.TerminalColor
	Accent     lipgloss.TerminalColor
	Surface    lipgloss.TerminalColor
	Selected   lipgloss.TerminalColor
}

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// Builtin themes. The first entry is the fallback for unknown names.
var builtin = []Theme{
	{
		Name:          "dark",
		MarkdownStyle: "dark",
		Foreground:    lipgloss.Color("252"),
		Muted:         lipgloss.Color("243"),
		Accent:        lipgloss.Color("62"),
		Surface:       lipgloss.Color("235"),
		Selected:      lipgloss.Color("255"),
	},
	{
		Name:          "light",
		MarkdownStyle: "light",
		Foreground:    lipgloss.Color("235"),
		Muted:         lipgloss.Color("240"),
		Accent:        lipgloss.Color("27"),
		Surface:       lipgloss.Color("255"),
		Selected:      lipgloss.Color("232"),
	},
	{
		Name:          "dracula",
		MarkdownStyle: "dracula",
		Foreground:    lipgloss.Color("#f8f8f2"),
		Muted:         lipgloss.Color("#6272a4"),
		Accent:        lipgloss.Color("#bd93f9"),
		Surface:       lipgloss.Color("#282a36"),
		Selected:      lipgloss.Color("#ff79c6"),
	},
	{
		Name:          "tokyo-night",
		MarkdownStyle: "tokyo-night",
		Foreground:    lipgloss.Color("#a9b1d6"),
		Muted:         lipgloss.Color("#565f89"),
		Accent:        lipgloss.Color("#7aa2f7"),
		Surface:       lipgloss.Color("#1a1b26"),
		Selected:      lipgloss.Color("#bb9af7"),
	},
	{
		Name:          "auto",
		MarkdownStyle: "",
		Foreground:    ac("235", "252"),
		Muted:         ac("240", "243"),
		Accent:        ac("27", "62"),
		Surface:       ac("255", "235"),
		Selected:      ac("232", "255"),
	},
	{
		Name:          "notty",
		MarkdownStyle: "notty",
		Foreground:    lipgloss.NoColor{},
		Muted:         lipgloss.NoColor{},
		Accent:        lipgloss.NoColor{},
		Surface:       lipgloss.NoColor{},
		Selected:      lipgloss.NoColor{},
	},
}

// Catalog looks themes up by name.
type Catalog struct {
	themes []Theme
	log    logrus.FieldLogger
}

func NewCatalog(log logrus.FieldLogger) *Catalog {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Catalog{themes: append([]Theme(nil), builtin...), log: log}
}

func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.themes))
	for _, t := range c.themes {
		out = append(out, t.Name)
	}
	return out
}

// Load resolves name. Unknown names fall back to the first theme with a warning.
func (c *Catalog) Load(ctx context.Context, name string) (Theme, error) {
	if err := ctx.Err(); err != nil {
		return Theme{}, err
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = c.themes[0].Name
	}
	for _, t := range c.themes {
		if t.Name == key {
			return resolveAuto(t), nil
		}
	}
	fallback := c.themes[0]
	c.log.WithField("theme", name).WithField("fallback", fallback.Name).Warn("unknown theme")
	return fallback, nil
}

// resolveAuto picks the markdown style for "auto" from the terminal background.
func resolveAuto(t Theme) Theme {
	if t.MarkdownStyle != "" {
		return t
	}
	if lipgloss.HasDarkBackground() {
		t.MarkdownStyle = "dark"
	} else {
		t.MarkdownStyle = "light"
	}
	return t
}
