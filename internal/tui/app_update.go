package tui

import (
	"strings"

	"deck-cli/internal/deck"
	"deck-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.Width = msg.Width - len(m.prompt.Prompt) - 2
		return m, nil

	case taskMsg:
		if msg.fn != nil {
			msg.fn()
		}
		cmd := tea.Batch(m.waitTask(), m.maybeTick())
		return m, cmd

	case animTickMsg:
		m.ticking = false
		cmd := m.maybeTick()
		return m, cmd

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case ":":
			if m.loc != nil && m.eng.Mode() != model.ModeOverview {
				m.prompting = true
				m.prompt.SetValue("")
				return m, m.prompt.Focus()
			}
			return m, nil
		}
		if k, ok := deckKey(msg); ok {
			m.eng.HandleKey(k)
		}
		cmd := m.maybeTick()
		return m, cmd

	case tea.MouseMsg:
		m.handleMouse(msg)
		cmd := m.maybeTick()
		return m, cmd
	}
	return m, nil
}

func (m appModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	case tea.KeyEnter:
		v := strings.TrimPrefix(strings.TrimSpace(m.prompt.Value()), "#")
		m.prompting = false
		m.prompt.Blur()
		if v == "" {
			return m, nil
		}
		// The hash listener navigates; unknown hashes are ignored by the engine.
		m.loc.Navigate("#" + v)
		cmd := m.maybeTick()
		return m, cmd
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// deckKey translates a terminal key into the engine's KeyboardEvent-style name.
func deckKey(msg tea.KeyMsg) (deck.Key, bool) {
	switch msg.Type {
	case tea.KeyRight, tea.KeyPgDown:
		return deck.KeyRight, true
	case tea.KeyLeft, tea.KeyPgUp:
		return deck.KeyLeft, true
	case tea.KeyUp:
		return deck.KeyUp, true
	case tea.KeyDown:
		return deck.KeyDown, true
	case tea.KeySpace:
		return deck.KeySpace, true
	case tea.KeyHome:
		return deck.KeyHome, true
	case tea.KeyEnd:
		return deck.KeyEnd, true
	case tea.KeyEnter:
		return deck.KeyEnter, true
	case tea.KeyEsc:
		return deck.KeyEscape, true
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && !msg.Alt {
			return deck.Key(string(msg.Runes)), true
		}
	}
	return "", false
}

func (m appModel) handleMouse(msg tea.MouseMsg) {
	if msg.Button == tea.MouseButtonWheelDown && msg.Action == tea.MouseActionPress {
		m.eng.HandleKey(deck.KeyDown)
		return
	}
	if msg.Button == tea.MouseButtonWheelUp && msg.Action == tea.MouseActionPress {
		m.eng.HandleKey(deck.KeyUp)
		return
	}

	if m.eng.Mode() == model.ModeOverview {
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
			m.clickOverview(msg.X, msg.Y)
		}
		return
	}

	x := float64(msg.X * cellPixelsX)
	y := float64(msg.Y * cellPixelsY)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.eng.TouchStart(x, y)
		}
	case tea.MouseActionRelease:
		m.eng.TouchEnd(x, y)
	}
}

// clickOverview hit-tests a terminal cell against the thumbnail grid.
func (m appModel) clickOverview(x, y int) {
	ov := m.eng.Overview()
	panel := ov.Panel()
	if panel == nil || m.width <= 0 {
		return
	}
	lay := m.layout()
	thumbs := panel.ByClass("overview-thumbnail")
	g := newOverviewGeometry(m.width, lay.stageHeight, len(thumbs), ov.Columns(), ov.SelectedIndex())
	if i := g.hit(x, y-lay.stageTop, len(thumbs)); i >= 0 {
		thumbs[i].Click()
	}
}
