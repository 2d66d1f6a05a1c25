package deck

import (
	"time"

	"deck-cli/internal/dom"
	"deck-cli/internal/sched"
)

const (
	helpAutoHideDelay = 3000 * time.Millisecond
	// helpFadeDuration must match the fade-out CSS transition.
	helpFadeDuration = 300 * time.Millisecond
)

// Help is the keyboard reference overlay.
type Help struct {
	doc    *dom.Document
	parent *dom.Element
	sched  sched.Scheduler

	el      *dom.Element
	visible bool

	autoHide sched.Timer
	fadeIn   sched.Timer
	removal  sched.Timer

	hiddenForOverview bool
	restoreOnExit     bool
}

func NewHelp(doc *dom.Document, parent *dom.Element, s sched.Scheduler) *Help {
	return &Help{doc: doc, parent: parent, sched: s}
}

func (h *Help) IsVisible() bool { return h.visible }

// Element returns the overlay element while it is in the document.
func (h *Help) Element() *dom.Element {
	if h.el == nil || !h.el.IsConnected() {
		return nil
	}
	return h.el
}

func (h *Help) build() *dom.Element {
	el := keyHelpPanel(h.doc, "help-overlay", "Keyboard shortcuts", normalKeyHelp)
	el.SetID("deck-help")
	return el
}

// Show appends the overlay and adds fade-in on the next frame.
func (h *Help) Show() {
	if h.visible {
		return
	}
	h.visible = true
	sched.Stop(h.removal)
	h.removal = nil

	if h.el == nil {
		h.el = h.build()
	}
	h.el.RemoveClass("fade-out")
	if !h.el.IsConnected() {
		h.parent.AppendChild(h.el)
	}
	el := h.el
	sched.Stop(h.fadeIn)
	h.fadeIn = h.sched.RequestFrame(func() {
		el.AddClass("fade-in")
	})
}

// ShowInitial shows help and hides it after helpAutoHideDelay unless dismissed first.
func (h *Help) ShowInitial() {
	h.Show()
	sched.Stop(h.autoHide)
	h.autoHide = h.sched.AfterFunc(helpAutoHideDelay, func() {
		h.autoHide = nil
		h.Hide()
	})
}

// Hide fades out, then removes the element after helpFadeDuration.
func (h *Help) Hide() {
	if !h.visible {
		return
	}
	h.visible = false
	sched.Stop(h.autoHide)
	h.autoHide = nil
	sched.Stop(h.fadeIn)
	h.fadeIn = nil

	el := h.el
	el.AddClass("fade-out")
	el.RemoveClass("fade-in")
	h.removal = h.sched.AfterFunc(helpFadeDuration, func() {
		h.removal = nil
		el.Remove()
	})
}

func (h *Help) Toggle() {
	if h.visible {
		h.Hide()
		return
	}
	h.Show()
}

// Dismiss reacts to user interaction: help shown at start goes away early.
func (h *Help) Dismiss() {
	if h.autoHide == nil {
		return
	}
	h.Hide()
}

// HideForOverview hides help and remembers whether it was visible. Repeated calls are no-ops.
func (h *Help) HideForOverview() {
	if h.hiddenForOverview {
		return
	}
	h.hiddenForOverview = true
	h.restoreOnExit = h.visible
	if h.visible {
		h.Hide()
	}
}

// RestoreAfterOverview re-shows help if it was visible before the overview. The flag is one-shot.
func (h *Help) RestoreAfterOverview() {
	if !h.hiddenForOverview {
		return
	}
	h.hiddenForOverview = false
	restore := h.restoreOnExit
	h.restoreOnExit = false
	if restore {
		h.Show()
	}
}

// Stop cancels pending timers and removes the overlay immediately.
func (h *Help) Stop() {
	for _, t := range []sched.Timer{h.autoHide, h.fadeIn, h.removal} {
		sched.Stop(t)
	}
	h.autoHide, h.fadeIn, h.removal = nil, nil, nil
	if h.el != nil {
		h.el.Remove()
	}
	h.visible = false
}
