package cli

import (
	"io"

	"deck-cli/internal/theme"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type themeOut struct {
	Name          string `json:"name"`
	MarkdownStyle string `json:"markdownStyle,omitempty"`
	Current       bool   `json:"current"`
}

func newThemesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List built-in themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			log := logrus.New()
			log.SetOutput(io.Discard)
			cat := theme.NewCatalog(log)

			var out []themeOut
			for _, name := range cat.Names() {
				th, err := cat.Load(cmd.Context(), name)
				if err != nil {
					return writeErr(cmd, err)
				}
				out = append(out, themeOut{Name: name, MarkdownStyle: th.MarkdownStyle, Current: name == cfg.Theme})
			}
			return writeOut(cmd, app, out)
		},
	}
}
