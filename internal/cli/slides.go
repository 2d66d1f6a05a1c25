package cli

import (
	"context"
	"strings"

	"deck-cli/internal/content"
	"deck-cli/internal/deck"

	"github.com/spf13/cobra"
)

type slideOut struct {
	Index   int    `json:"index"`
	ID      string `json:"id"`
	Hash    string `json:"hash"`
	Content string `json:"content"`
	HTML    string `json:"html,omitempty"`
}

type slidesOut struct {
	Source string     `json:"source"`
	Total  int        `json:"total"`
	Slides []slideOut `json:"slides"`
}

func newSlidesCmd(app *App) *cobra.Command {
	var withHTML bool

	cmd := &cobra.Command{
		Use:   "slides [path]",
		Short: "List the slides a deck splits into",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			src := cfg.ContentPath
			if len(args) == 1 {
				src = args[0]
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			raw := cfg.Content
			if strings.TrimSpace(src) != "" {
				raw, err = content.Loader{}.Load(ctx, src)
				if err != nil {
					return writeErr(cmd, err)
				}
			} else if strings.TrimSpace(raw) == "" {
				return writeErr(cmd, errNoDeck())
			}

			slides := content.Parse(raw)
			out := slidesOut{Source: src, Total: len(slides), Slides: make([]slideOut, 0, len(slides))}
			for i, s := range slides {
				so := slideOut{Index: i, ID: s.ID, Hash: deck.FormatHash(i), Content: s.Content}
				if withHTML {
					so.HTML = s.HTML
				}
				out.Slides = append(out.Slides, so)
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().BoolVar(&withHTML, "html", false, "Include rendered HTML")
	return cmd
}
