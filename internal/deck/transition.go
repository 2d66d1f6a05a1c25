package deck

import (
	"fmt"
	"time"

	"deck-cli/internal/dom"
	"deck-cli/internal/model"
	"deck-cli/internal/sched"
)

// transitionStartDelay lets the off-stage placement paint before the target values are set.
const transitionStartDelay = 50 * time.Millisecond

// Transitioner animates the swap between two slide elements. It writes only display,
// transform, opacity and transition; layout properties belong to the Stabilizer.
type Transitioner struct {
	spec   model.TransitionSpec
	sched  sched.Scheduler
	slides []*dom.Element

	active *animation
	queued [][2]int
	// latest is the most recent target dropped under OverlapIgnore, or -1.
	latest int
}

type animation struct {
	from, to int
	timers   []sched.Timer
}

func NewTransitioner(spec model.TransitionSpec, s sched.Scheduler) *Transitioner {
	return &Transitioner{spec: spec.Normalize(), sched: s, latest: -1}
}

func (t *Transitioner) Spec() model.TransitionSpec { return t.spec }

func (t *Transitioner) SetSlides(els []*dom.Element) {
	t.slides = els
}

func (t *Transitioner) animating() bool { return t.active != nil }

// Animate swaps fromIndex for toIndex. Equal indices show the target without animating.
func (t *Transitioner) Animate(from, to int) {
	if to < 0 || to >= len(t.slides) {
		return
	}
	if t.active != nil {
		switch t.spec.Overlap {
		case model.OverlapQueue:
			t.queued = append(t.queued, [2]int{from, to})
			return
		case model.OverlapIgnore:
			t.latest = to
			return
		default:
			t.cancel()
		}
	}
	t.start(from, to)
}

func (t *Transitioner) start(from, to int) {
	if from == to || from < 0 || from >= len(t.slides) {
		t.showOnly(to)
		return
	}

	leaving := t.slides[from]
	entering := t.slides[to]

	for i, el := range t.slides {
		if i != from && i != to {
			el.SetStyle("display", "none")
		}
	}
	for _, el := range []*dom.Element{leaving, entering} {
		el.ClearStyles("transition", "transform", "opacity")
	}

	isNext := to > from
	prop, offStage, exit, rest := t.geometry(isNext)

	entering.SetStyle(prop, offStage)
	entering.SetStyle("display", "block")
	leaving.SetStyle("display", "block")

	// Commit the off-stage position before the transition style exists, or the
	// start and end states land in the same frame and nothing animates.
	_ = entering.OffsetHeight()

	tr := fmt.Sprintf("%s %dms %s", prop, t.spec.Duration.Milliseconds(), t.spec.Easing)
	leaving.SetStyle("transition", tr)
	entering.SetStyle("transition", tr)

	a := &animation{from: from, to: to}
	t.active = a
	a.timers = append(a.timers, t.sched.AfterFunc(transitionStartDelay, func() {
		leaving.SetStyle(prop, exit)
		entering.SetStyle(prop, rest)
		a.timers = append(a.timers, t.sched.AfterFunc(t.spec.Duration, func() {
			t.finish(a)
		}))
	}))
}

// geometry returns the animated property and its off-stage, exit and rest values.
func (t *Transitioner) geometry(isNext bool) (prop, offStage, exit, rest string) {
	sign := func(next bool) string {
		if next {
			return "100%"
		}
		return "-100%"
	}
	switch t.spec.Type {
	case model.TransitionFade:
		return "opacity", "0", "0", "1"
	case model.TransitionVertical:
		return "transform", "translateY(" + sign(isNext) + ")", "translateY(" + sign(!isNext) + ")", "translateY(0)"
	default:
		// horizontal and slide share this path.
		return "transform", "translateX(" + sign(isNext) + ")", "translateX(" + sign(!isNext) + ")", "translateX(0)"
	}
}

func (t *Transitioner) finish(a *animation) {
	if t.active != a {
		return
	}
	t.settle(a)
	t.active = nil

	if len(t.queued) > 0 {
		next := t.queued[0]
		t.queued = t.queued[1:]
		t.start(next[0], next[1])
		return
	}
	if t.latest >= 0 {
		latest := t.latest
		t.latest = -1
		if latest != a.to {
			t.showOnly(latest)
		}
	}
}

// settle puts both elements of a at rest: leaving hidden, inline overrides removed.
func (t *Transitioner) settle(a *animation) {
	leaving := t.slides[a.from]
	entering := t.slides[a.to]
	leaving.SetStyle("display", "none")
	entering.SetStyle("display", "block")
	for _, el := range []*dom.Element{leaving, entering} {
		el.ClearStyles("transition", "transform", "opacity")
	}
}

// cancel stops the running animation and settles it immediately.
func (t *Transitioner) cancel() {
	a := t.active
	if a == nil {
		return
	}
	for _, tm := range a.timers {
		tm.Stop()
	}
	t.settle(a)
	t.active = nil
}

// Stop cancels in-flight work and drops anything queued.
func (t *Transitioner) Stop() {
	t.cancel()
	t.queued = nil
	t.latest = -1
}

func (t *Transitioner) showOnly(i int) {
	for j, el := range t.slides {
		el.ClearStyles("transition", "transform", "opacity")
		if j == i {
			el.SetStyle("display", "block")
		} else {
			el.SetStyle("display", "none")
		}
	}
}
