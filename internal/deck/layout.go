package deck

import (
	"deck-cli/internal/dom"
	"deck-cli/internal/model"
	"deck-cli/internal/sched"
)

// Stabilizer keeps the visible slide's content aligned while its subtree changes.
// It writes only flex-direction, justify-content and align-items.
type Stabilizer struct {
	cfg       model.CenterContentConfig
	sched     sched.Scheduler
	container *dom.Element

	observer *dom.Observer
	frame    sched.Timer

	// isUpdating drops the records produced by our own style writes.
	isUpdating bool
	// scheduled coalesces a burst of records into one recompute per frame.
	scheduled bool

	recomputes int
}

func NewStabilizer(cfg model.CenterContentConfig, s sched.Scheduler, container *dom.Element) *Stabilizer {
	return &Stabilizer{cfg: cfg, sched: s, container: container}
}

// Enabled is decided once from the config; with both axes off nothing is ever written.
func (s *Stabilizer) Enabled() bool { return s.cfg.Enabled() }

func (s *Stabilizer) Start() {
	if !s.Enabled() || s.observer != nil {
		return
	}
	s.observer = s.container.Document().NewObserver(s.onMutation)
	s.observer.Observe(s.container, dom.ObserveOptions{
		ChildList:       true,
		Subtree:         true,
		Attributes:      true,
		AttributeFilter: []string{"style"},
	})
}

func (s *Stabilizer) onMutation(_ []dom.MutationRecord, _ *dom.Observer) {
	if s.isUpdating {
		return
	}
	if s.scheduled {
		return
	}
	s.scheduled = true
	s.frame = s.sched.RequestFrame(func() {
		s.scheduled = false
		s.frame = nil
		s.Recompute()
	})
}

// Recompute applies the alignment table to every visible slide.
func (s *Stabilizer) Recompute() {
	if !s.Enabled() {
		return
	}
	s.isUpdating = true
	defer func() { s.isUpdating = false }()
	s.recomputes++

	justify, align := s.alignment()
	for _, el := range s.container.ByClass("slide") {
		if el.Style("display") == "none" {
			continue
		}
		el.SetStyle("flex-direction", "column")
		el.SetStyle("justify-content", justify)
		el.SetStyle("align-items", align)
	}
}

// alignment returns justify-content (main, vertical) and align-items (cross, horizontal).
func (s *Stabilizer) alignment() (justify, align string) {
	switch {
	case s.cfg.Vertical && s.cfg.Horizontal:
		return "center", "center"
	case s.cfg.Vertical:
		return "center", "flex-start"
	default:
		return "flex-start", "center"
	}
}

func (s *Stabilizer) Stop() {
	if s.observer != nil {
		s.observer.Disconnect()
		s.observer = nil
	}
	sched.Stop(s.frame)
	s.frame = nil
	s.scheduled = false
}
