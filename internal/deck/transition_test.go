package deck

import (
	"testing"
	"time"

	"deck-cli/internal/dom"
	"deck-cli/internal/model"
	"deck-cli/internal/sched"
)

func newTransitionFixture(n int, spec model.TransitionSpec) (*Transitioner, []*dom.Element, *dom.Document, *sched.Manual) {
	s := sched.NewManual(time.Time{})
	doc := dom.NewDocument(s.Now)
	els := make([]*dom.Element, n)
	for i := range els {
		els[i] = doc.CreateElement("section")
		els[i].AddClass("slide")
		doc.Body().AppendChild(els[i])
	}
	tr := NewTransitioner(spec, s)
	tr.SetSlides(els)
	tr.Animate(0, 0)
	return tr, els, doc, s
}

func TestTransition_SameIndexShowsOnly(t *testing.T) {
	tr, els, _, s := newTransitionFixture(3, model.TransitionSpec{Type: model.TransitionHorizontal, Duration: 300 * time.Millisecond})
	els[2].SetStyle("transform", "translateX(50%)")
	els[2].SetStyle("opacity", "0.5")

	tr.Animate(2, 2)
	for i, el := range els {
		want := "none"
		if i == 2 {
			want = "block"
		}
		if el.Style("display") != want {
			t.Fatalf("slide %d: expected display %s; got %q", i, want, el.Style("display"))
		}
	}
	if els[2].Style("transform") != "" || els[2].Style("opacity") != "" {
		t.Fatalf("expected overrides cleared on show-only")
	}
	if s.Pending() != 0 {
		t.Fatalf("expected no timers for show-only")
	}
}

func TestTransition_HorizontalSequence(t *testing.T) {
	tr, els, doc, s := newTransitionFixture(3, model.TransitionSpec{Type: model.TransitionHorizontal, Duration: 400 * time.Millisecond})
	layouts := doc.LayoutCount()

	tr.Animate(0, 1)
	leaving, entering := els[0], els[1]
	if entering.Style("display") != "block" || entering.Style("transform") != "translateX(100%)" {
		t.Fatalf("expected entering off-stage right; got display=%q transform=%q", entering.Style("display"), entering.Style("transform"))
	}
	if doc.LayoutCount() != layouts+1 {
		t.Fatalf("expected one forced layout")
	}
	if got := entering.Style("transition"); got != "transform 400ms ease-in-out" {
		t.Fatalf("unexpected transition style %q", got)
	}

	s.Advance(49 * time.Millisecond)
	if leaving.Style("transform") != "" {
		t.Fatalf("expected exit values to wait for the start delay")
	}
	s.Advance(time.Millisecond)
	if leaving.Style("transform") != "translateX(-100%)" || entering.Style("transform") != "translateX(0)" {
		t.Fatalf("unexpected values after start delay: leaving=%q entering=%q", leaving.Style("transform"), entering.Style("transform"))
	}
	if c, ok := entering.Transition("transform"); !ok || c.From != "translateX(100%)" {
		t.Fatalf("expected the entering write to be recorded as a transition; got %+v", c)
	}

	s.Advance(400 * time.Millisecond)
	if leaving.Style("display") != "none" || entering.Style("display") != "block" {
		t.Fatalf("expected leaving hidden after duration")
	}
	for _, el := range []*dom.Element{leaving, entering} {
		if el.Style("transform") != "" || el.Style("transition") != "" || el.Style("opacity") != "" {
			t.Fatalf("expected inline animation styles reset")
		}
	}
	if tr.animating() {
		t.Fatalf("expected idle after completion")
	}
}

func TestTransition_DirectionAndTypes(t *testing.T) {
	cases := []struct {
		typ      model.TransitionType
		from, to int
		prop     string
		offStage string
		exit     string
	}{
		{model.TransitionHorizontal, 2, 1, "transform", "translateX(-100%)", "translateX(100%)"},
		{model.TransitionSlide, 0, 2, "transform", "translateX(100%)", "translateX(-100%)"},
		{model.TransitionSlide, 2, 0, "transform", "translateX(-100%)", "translateX(100%)"},
		{model.TransitionVertical, 0, 1, "transform", "translateY(100%)", "translateY(-100%)"},
		{model.TransitionVertical, 1, 0, "transform", "translateY(-100%)", "translateY(100%)"},
		{model.TransitionFade, 0, 1, "opacity", "0", "0"},
	}
	for _, c := range cases {
		t.Run(string(c.typ), func(t *testing.T) {
			tr, els, _, s := newTransitionFixture(3, model.TransitionSpec{Type: c.typ, Duration: 100 * time.Millisecond})
			tr.Animate(0, c.from)
			s.Advance(time.Second)

			tr.Animate(c.from, c.to)
			if got := els[c.to].Style(c.prop); got != c.offStage {
				t.Fatalf("expected off-stage %s=%q; got %q", c.prop, c.offStage, got)
			}
			s.Advance(transitionStartDelay)
			if got := els[c.from].Style(c.prop); got != c.exit {
				t.Fatalf("expected exit %s=%q; got %q", c.prop, c.exit, got)
			}
		})
	}
}

func TestTransition_SlideUsesItsOwnEasingDefault(t *testing.T) {
	slide := NewTransitioner(model.TransitionSpec{Type: model.TransitionSlide}, sched.NewManual(time.Time{}))
	horiz := NewTransitioner(model.TransitionSpec{Type: model.TransitionHorizontal}, sched.NewManual(time.Time{}))
	if slide.Spec().Easing == horiz.Spec().Easing {
		t.Fatalf("expected slide and horizontal easing defaults to differ")
	}
}

func TestTransition_OverlapRestart(t *testing.T) {
	tr, els, _, s := newTransitionFixture(3, model.TransitionSpec{Type: model.TransitionHorizontal, Duration: 400 * time.Millisecond})
	tr.Animate(0, 1)
	s.Advance(100 * time.Millisecond)
	tr.Animate(1, 2)

	if els[0].Style("display") != "none" {
		t.Fatalf("expected the interrupted animation to settle")
	}
	s.Advance(time.Second)
	if vis := visibleOf(els); len(vis) != 1 || vis[0] != 2 {
		t.Fatalf("expected only slide 2 visible; got %v", vis)
	}
	if s.Pending() != 0 {
		t.Fatalf("expected no leftover timers; got %d", s.Pending())
	}
}

func TestTransition_OverlapQueue(t *testing.T) {
	tr, els, _, s := newTransitionFixture(3, model.TransitionSpec{Type: model.TransitionHorizontal, Duration: 400 * time.Millisecond, Overlap: model.OverlapQueue})
	tr.Animate(0, 1)
	tr.Animate(1, 2)
	if els[2].Style("display") == "block" {
		t.Fatalf("expected queued animation not to start yet")
	}
	s.Advance(450 * time.Millisecond)
	if els[2].Style("transform") != "translateX(100%)" {
		t.Fatalf("expected queued animation to start after the first; got %q", els[2].Style("transform"))
	}
	s.Advance(time.Second)
	if vis := visibleOf(els); len(vis) != 1 || vis[0] != 2 {
		t.Fatalf("expected only slide 2 visible; got %v", vis)
	}
}

func TestTransition_OverlapIgnoreSnapsToLatest(t *testing.T) {
	tr, els, _, s := newTransitionFixture(4, model.TransitionSpec{Type: model.TransitionHorizontal, Duration: 400 * time.Millisecond, Overlap: model.OverlapIgnore})
	tr.Animate(0, 1)
	tr.Animate(1, 2)
	tr.Animate(2, 3)
	if els[3].Style("display") == "block" {
		t.Fatalf("expected ignored requests not to touch the DOM")
	}
	s.Advance(time.Second)
	if vis := visibleOf(els); len(vis) != 1 || vis[0] != 3 {
		t.Fatalf("expected snap to latest target 3; got %v", vis)
	}
}

func visibleOf(els []*dom.Element) []int {
	var out []int
	for i, el := range els {
		if el.Style("display") == "block" {
			out = append(out, i)
		}
	}
	return out
}
