package tui

import (
	"time"

	"deck-cli/internal/deck"
	"deck-cli/internal/location"
	"deck-cli/internal/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

const (
	// animFrame is the redraw interval while a slide transition is running.
	animFrame = 33 * time.Millisecond

	// Touch coordinates are reported in pixels; a terminal cell is roughly this large.
	cellPixelsX = 8
	cellPixelsY = 16
)

// Options wires a started engine into the presenter view.
type Options struct {
	Engine *deck.Engine
	// Tasks and Done come from the real-time scheduler. Every task runs inside Update so the
	// engine is only ever touched from the program's goroutine.
	Tasks <-chan func()
	Done  <-chan struct{}
	// Location is the in-memory hash the goto prompt navigates.
	Location *location.Memory
	Now      func() time.Time
	Logger   logrus.FieldLogger
}

type appModel struct {
	eng   *deck.Engine
	tasks <-chan func()
	done  <-chan struct{}
	loc   *location.Memory
	now   func() time.Time
	log   logrus.FieldLogger

	theme theme.Theme
	pal   palette

	width  int
	height int

	prompt    textinput.Model
	prompting bool

	ticking  bool
	quitting bool
}

type taskMsg struct{ fn func() }

type animTickMsg time.Time

func newAppModel(opts Options) appModel {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = opts.Engine.Logger()
	}
	th := opts.Engine.Theme()

	in := textinput.New()
	in.Prompt = "go to #"
	in.Placeholder = "slide number"
	in.CharLimit = 8

	return appModel{
		eng:    opts.Engine,
		tasks:  opts.Tasks,
		done:   opts.Done,
		loc:    opts.Location,
		now:    now,
		log:    log,
		theme:  th,
		pal:    newPalette(th),
		prompt: in,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.waitTask(), m.maybeTick())
}

// waitTask blocks until the scheduler has a callback ready.
func (m appModel) waitTask() tea.Cmd {
	if m.tasks == nil {
		return nil
	}
	tasks, done := m.tasks, m.done
	return func() tea.Msg {
		select {
		case fn := <-tasks:
			return taskMsg{fn: fn}
		case <-done:
			return nil
		}
	}
}

func animTick() tea.Cmd {
	return tea.Tick(animFrame, func(t time.Time) tea.Msg { return animTickMsg(t) })
}

// animating reports whether any displayed slide is mid-transition.
func (m appModel) animating() bool {
	now := m.now()
	for _, el := range m.eng.SlideElements() {
		if el.Style("display") == "none" {
			continue
		}
		if slideFrame(el, now).Animating {
			return true
		}
		// Waiting out the start delay: the transition style is set but nothing moved yet.
		if el.Style("transition") != "" {
			return true
		}
	}
	return false
}

// maybeTick starts the redraw ticker if a transition is running and none is scheduled.
func (m *appModel) maybeTick() tea.Cmd {
	if m.ticking || !m.animating() {
		return nil
	}
	m.ticking = true
	return animTick()
}
