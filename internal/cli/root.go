package cli

import (
	"fmt"
	"os"
	"strings"

	"deck-cli/internal/config"
	"deck-cli/internal/format"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X deck-cli/internal/cli.Version=...".
var Version = "dev"

type App struct {
	ConfigPath string
	Theme      string
	LogLevel   string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "deck [path]",
		Short:        "Markdown slide decks in the terminal",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Present a deck (slides separated by ---)
  deck talk.md

  # Present every chapter in order
  deck 'chapters/**/*.md'

  # Present and accept a phone remote on the LAN
  deck serve talk.md --addr 0.0.0.0:7077

  # Inspect how a deck was split
  deck slides talk.md --pretty
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return present(cmd, app, path, "")
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("DECK_CONFIG", config.DefaultPath()), "Path to deck.yml")
	cmd.PersistentFlags().StringVar(&app.Theme, "theme", envOr("DECK_THEME", ""), "Theme name (overrides the config file)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("DECK_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DECK_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newSlidesCmd(app))
	cmd.AddCommand(newThemesCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newVersionCmd(app))

	return cmd
}

// loadConfig reads the config file and applies flag overrides.
func (app *App) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(app.Theme); v != "" {
		cfg.Theme = v
	}
	if v := strings.TrimSpace(app.LogLevel); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, errInvalidConfig(app.ConfigPath, err)
	}
	return cfg, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
