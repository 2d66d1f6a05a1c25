package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Present with a browser remote (websocket) attached",
		Long: strings.TrimSpace(`
Runs the terminal presenter and an HTTP server for remotes. Open the server root on a phone
to get next/previous/overview buttons and the current slide's source.

Remotes can also be scripted:
  curl -X POST localhost:7077/api/command -d '{"action":"goto","index":3}'
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if strings.TrimSpace(addr) == "" {
				cfg, err := app.loadConfig()
				if err != nil {
					return writeErr(cmd, err)
				}
				addr = cfg.Remote.Addr
			}
			return present(cmd, app, path, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("DECK_REMOTE_ADDR", ""), "Listen address (default: remote.addr from the config)")
	return cmd
}
