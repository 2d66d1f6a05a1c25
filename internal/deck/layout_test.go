package deck

import (
	"testing"
	"time"

	"deck-cli/internal/dom"
	"deck-cli/internal/model"
	"deck-cli/internal/sched"
)

func newLayoutFixture(cfg model.CenterContentConfig) (*Stabilizer, *dom.Element, []*dom.Element, *sched.Manual) {
	s := sched.NewManual(time.Time{})
	doc := dom.NewDocument(s.Now)
	container := doc.CreateElement("div")
	doc.Body().AppendChild(container)
	slides := make([]*dom.Element, 2)
	for i := range slides {
		slides[i] = doc.CreateElement("section")
		slides[i].AddClass("slide")
		container.AppendChild(slides[i])
	}
	slides[0].SetStyle("display", "block")
	slides[1].SetStyle("display", "none")
	return NewStabilizer(cfg, s, container), container, slides, s
}

func TestStabilizer_AlignmentTable(t *testing.T) {
	cases := []struct {
		cfg            model.CenterContentConfig
		justify, align string
	}{
		{model.CenterContentConfig{Vertical: true, Horizontal: true}, "center", "center"},
		{model.CenterContentConfig{Vertical: true}, "center", "flex-start"},
		{model.CenterContentConfig{Horizontal: true}, "flex-start", "center"},
	}
	for _, c := range cases {
		st, _, slides, _ := newLayoutFixture(c.cfg)
		st.Recompute()
		el := slides[0]
		if el.Style("flex-direction") != "column" || el.Style("justify-content") != c.justify || el.Style("align-items") != c.align {
			t.Fatalf("%+v: expected column/%s/%s; got %s/%s/%s", c.cfg, c.justify, c.align,
				el.Style("flex-direction"), el.Style("justify-content"), el.Style("align-items"))
		}
		if slides[1].Style("justify-content") != "" {
			t.Fatalf("expected hidden slide untouched")
		}
	}
}

func TestStabilizer_DisabledWritesNothing(t *testing.T) {
	st, container, slides, s := newLayoutFixture(model.CenterContentConfig{})
	st.Start()
	st.Recompute()
	p := container.Document().CreateElement("p")
	slides[0].AppendChild(p)
	s.Advance(time.Second)
	for _, prop := range []string{"flex-direction", "justify-content", "align-items"} {
		if slides[0].Style(prop) != "" {
			t.Fatalf("expected %s untouched when disabled", prop)
		}
	}
	if s.Pending() != 0 {
		t.Fatalf("expected no frames scheduled when disabled")
	}
}

func TestStabilizer_BurstCoalescesIntoOneFrame(t *testing.T) {
	st, container, slides, s := newLayoutFixture(model.CenterContentConfig{Vertical: true, Horizontal: true})
	st.Start()
	doc := container.Document()
	for i := 0; i < 5; i++ {
		slides[0].AppendChild(doc.CreateElement("p"))
	}
	slides[0].SetStyle("color", "red")
	if s.Pending() != 1 {
		t.Fatalf("expected one frame for the burst; got %d", s.Pending())
	}
	s.Frame()
	if st.recomputes != 1 {
		t.Fatalf("expected one recompute; got %d", st.recomputes)
	}
	if slides[0].Style("justify-content") != "center" {
		t.Fatalf("expected alignment applied")
	}
}

func TestStabilizer_OwnWritesDoNotRetrigger(t *testing.T) {
	st, _, slides, s := newLayoutFixture(model.CenterContentConfig{Vertical: true})
	st.Start()
	slides[0].SetAttr("data-x", "1")
	slides[0].SetStyle("color", "blue")
	s.Frame()
	if st.recomputes != 1 {
		t.Fatalf("expected one recompute; got %d", st.recomputes)
	}
	s.Advance(time.Second)
	if st.recomputes != 1 || s.Pending() != 0 {
		t.Fatalf("expected the recompute's own writes not to schedule another; recomputes=%d pending=%d", st.recomputes, s.Pending())
	}
}

func TestStabilizer_StopDisconnects(t *testing.T) {
	st, _, slides, s := newLayoutFixture(model.CenterContentConfig{Vertical: true})
	st.Start()
	slides[0].SetStyle("color", "blue")
	st.Stop()
	s.Advance(time.Second)
	slides[0].SetStyle("color", "green")
	s.Advance(time.Second)
	if st.recomputes != 0 {
		t.Fatalf("expected no recompute after Stop; got %d", st.recomputes)
	}
}
