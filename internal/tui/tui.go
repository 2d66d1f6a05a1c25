// Package tui is the terminal presenter view for a running deck engine.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run draws the deck until the user quits or ctx is done. The engine must already be started.
func Run(ctx context.Context, opts Options) error {
	if opts.Engine == nil {
		return errors.New("tui: missing engine")
	}
	applyThemePreference()
	applyColorProfilePreference()

	m := newAppModel(opts)
	_, err := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
