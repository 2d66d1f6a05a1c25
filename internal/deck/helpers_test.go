package deck

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"deck-cli/internal/dom"
	"deck-cli/internal/location"
	"deck-cli/internal/model"
	"deck-cli/internal/sched"
)

type harness struct {
	e      *Engine
	s      *sched.Manual
	loc    *location.Memory
	doc    *dom.Document
	events []model.Event
}

func deckMarkdown(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("# Slide %d", i+1)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

func newDocument(s *sched.Manual) *dom.Document {
	doc := dom.NewDocument(s.Now)
	c := doc.CreateElement("div")
	c.SetID("deck")
	doc.Body().AppendChild(c)
	return doc
}

func baseOptions(n int) Options {
	return Options{
		Content:       deckMarkdown(n),
		Navigation:    model.NavigationConfig{Keyboard: true, Touch: true},
		Transition:    model.TransitionSpec{Type: model.TransitionHorizontal, Duration: 500 * time.Millisecond},
		CenterContent: model.CenterContentConfig{Vertical: true, Horizontal: true},
	}
}

// startDeck starts an engine with n slides; mutate adjusts options before New.
func startDeck(t *testing.T, n int, mutate func(*Options)) *harness {
	t.Helper()
	s := sched.NewManual(time.Time{})
	h := &harness{s: s, loc: location.NewMemory(""), doc: newDocument(s)}

	opts := baseOptions(n)
	opts.Document = h.doc
	opts.Scheduler = s
	opts.Location = h.loc
	if mutate != nil {
		mutate(&opts)
	}
	e, err := New(opts)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	e.On(model.EventSlideChange, func(ev model.Event) { h.events = append(h.events, ev) })
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.e = e
	return h
}

// settle lets every pending transition and fade finish.
func (h *harness) settle() { h.s.Advance(5 * time.Second) }

func visibleSlides(e *Engine) []int {
	var out []int
	for i, el := range e.SlideElements() {
		if el.Style("display") == "block" {
			out = append(out, i)
		}
	}
	return out
}
