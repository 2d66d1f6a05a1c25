package builtin

import (
	"context"
	"strings"
	"testing"
	"time"

	"deck-cli/internal/deck"
	"deck-cli/internal/dom"
	"deck-cli/internal/model"
	"deck-cli/internal/plugin"
	"deck-cli/internal/sched"
)

func startWithPlugins(t *testing.T, n int, plugins map[string]plugin.Config) (*deck.Engine, *sched.Manual) {
	t.Helper()
	s := sched.NewManual(time.Time{})
	doc := dom.NewDocument(s.Now)
	c := doc.CreateElement("div")
	c.SetID("deck")
	doc.Body().AppendChild(c)

	parts := make([]string, n)
	for i := range parts {
		parts[i] = "# slide"
	}
	e, err := deck.New(deck.Options{
		Document:   doc,
		Scheduler:  s,
		Content:    strings.Join(parts, "\n---\n"),
		Navigation: model.NavigationConfig{Keyboard: true},
		Transition: model.TransitionSpec{Type: model.TransitionFade, Duration: 100 * time.Millisecond},
		Registry:   Registry(),
		Plugins:    plugins,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return e, s
}

func only(t *testing.T, e *deck.Engine, class string) *dom.Element {
	t.Helper()
	els := e.Container().ByClass(class)
	if len(els) != 1 {
		t.Fatalf("expected one .%s; got %d", class, len(els))
	}
	return els[0]
}

func TestRegisterAll_Duplicate(t *testing.T) {
	reg := Registry()
	if got := strings.Join(reg.Names(), ","); got != "counter,progress,timer" {
		t.Fatalf("unexpected names %q", got)
	}
	if err := RegisterAll(reg); err == nil {
		t.Fatalf("expected registering the builtins twice to fail")
	}
}

func TestProgressAndCounter_TrackSlides(t *testing.T) {
	e, _ := startWithPlugins(t, 4, map[string]plugin.Config{
		ProgressName: {Enabled: true},
		CounterName:  {Enabled: true},
	})
	bar := only(t, e, "deck-progress-bar")
	counter := only(t, e, "deck-counter")
	if bar.Style("width") != "25.00%" || counter.Text() != "1 / 4" {
		t.Fatalf("expected initial 25.00%% and 1 / 4; got %q %q", bar.Style("width"), counter.Text())
	}

	e.GoToSlide(3)
	if bar.Style("width") != "100.00%" || counter.Text() != "4 / 4" {
		t.Fatalf("expected 100.00%% and 4 / 4; got %q %q", bar.Style("width"), counter.Text())
	}

	e.Destroy()
	if len(e.Container().ByClass("deck-progress")) != 0 || len(e.Container().ByClass("deck-counter")) != 0 {
		t.Fatalf("expected plugin elements removed on destroy")
	}
}

func TestCounter_Format(t *testing.T) {
	e, _ := startWithPlugins(t, 3, map[string]plugin.Config{
		CounterName: {Enabled: true, Options: map[string]any{"format": "slide %d of %d"}},
	})
	e.NextSlide()
	if got := only(t, e, "deck-counter").Text(); got != "slide 2 of 3" {
		t.Fatalf("unexpected counter text %q", got)
	}
}

func TestTimer_CountsUpAfterFirstChange(t *testing.T) {
	e, s := startWithPlugins(t, 3, map[string]plugin.Config{TimerName: {Enabled: true}})
	el := only(t, e, "deck-timer")

	s.Advance(10 * time.Second)
	if el.Text() != "00:00" {
		t.Fatalf("expected the clock to wait for the first slide change; got %q", el.Text())
	}
	e.NextSlide()
	s.Advance(65 * time.Second)
	if el.Text() != "01:05" {
		t.Fatalf("expected 01:05; got %q", el.Text())
	}
}

func TestTimer_CountdownWarningAndPause(t *testing.T) {
	e, s := startWithPlugins(t, 3, map[string]plugin.Config{
		TimerName: {Enabled: true, Options: map[string]any{"minutes": 2, "warn_seconds": "30", "autostart": true}},
	})
	el := only(t, e, "deck-timer")
	var tm *Timer
	for _, p := range e.Plugins() {
		if x, ok := p.(*Timer); ok {
			tm = x
		}
	}
	if tm == nil {
		t.Fatalf("expected timer plugin instance")
	}

	s.Advance(60 * time.Second)
	if el.Text() != "01:00" || el.HasClass("warning") {
		t.Fatalf("expected 01:00 without warning; got %q %v", el.Text(), el.Classes())
	}

	tm.SetEnabled(false)
	s.Advance(5 * time.Minute)
	if el.Text() != "01:00" || !el.HasClass("paused") {
		t.Fatalf("expected paused clock; got %q %v", el.Text(), el.Classes())
	}

	tm.SetEnabled(true)
	s.Advance(35 * time.Second)
	if el.Text() != "00:25" || !el.HasClass("warning") {
		t.Fatalf("expected warning at 00:25; got %q %v", el.Text(), el.Classes())
	}

	s.Advance(30 * time.Second)
	if el.Text() != "-00:05" || !el.HasClass("overtime") {
		t.Fatalf("expected overtime; got %q", el.Text())
	}

	e.Destroy()
	if s.Pending() != 0 {
		t.Fatalf("expected timer ticks cancelled on destroy; pending=%d", s.Pending())
	}
}

func TestTimer_RejectsNegativeBudget(t *testing.T) {
	e, _ := startWithPlugins(t, 2, map[string]plugin.Config{
		TimerName: {Enabled: true, Options: map[string]any{"minutes": -1}},
	})
	if len(e.Plugins()) != 0 {
		t.Fatalf("expected a failed init to leave no live plugin")
	}
}

func TestTimer_PauseKeyAndSetPluginEnabled(t *testing.T) {
	e, s := startWithPlugins(t, 3, map[string]plugin.Config{
		TimerName:   {Enabled: true, Options: map[string]any{"autostart": true}},
		CounterName: {Enabled: true},
	})
	el := only(t, e, "deck-timer")

	s.Advance(10 * time.Second)
	if !e.HandleKey(deck.Key("p")) {
		t.Fatalf("expected p to be consumed")
	}
	s.Advance(30 * time.Second)
	if el.Text() != "00:10" || !el.HasClass("paused") {
		t.Fatalf("expected paused at 00:10; got %q %v", el.Text(), el.Classes())
	}
	if e.CurrentSlide() != 0 {
		t.Fatalf("expected p not to navigate; got %d", e.CurrentSlide())
	}

	if e.SetPluginEnabled(CounterName, false) {
		t.Fatalf("expected counter not to be toggleable")
	}
	if !e.SetPluginEnabled(TimerName, true) {
		t.Fatalf("expected timer to be toggleable")
	}
	s.Advance(5 * time.Second)
	if el.Text() != "00:15" || el.HasClass("paused") {
		t.Fatalf("expected running at 00:15; got %q %v", el.Text(), el.Classes())
	}
}
