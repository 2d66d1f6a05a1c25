package builtin

import (
	"fmt"
	"time"

	"deck-cli/internal/dom"
	"deck-cli/internal/model"
	"deck-cli/internal/plugin"
	"deck-cli/internal/sched"
)

const TimerName = "timer"

const timerTick = time.Second

// Timer shows the talk clock. With a "minutes" option it counts down and marks the last
// "warn_seconds" (default 60) with a warning class; otherwise it counts up.
// It starts on the first slide change unless "autostart" is set.
type Timer struct {
	el    *dom.Element
	sched sched.Scheduler

	budget  time.Duration
	warn    time.Duration
	elapsed time.Duration

	running bool
	enabled bool
	tick    sched.Timer
	last    time.Time
}

func (t *Timer) Name() string { return TimerName }

func (t *Timer) Init(h plugin.Host, cfg plugin.Config) error {
	c := h.Container()
	if c == nil {
		return fmt.Errorf("no container")
	}
	minutes := cfg.Int("minutes", 0)
	if minutes < 0 {
		return fmt.Errorf("minutes must be non-negative, got %d", minutes)
	}
	t.sched = h.Scheduler()
	t.budget = time.Duration(minutes) * time.Minute
	t.warn = time.Duration(cfg.Int("warn_seconds", 60)) * time.Second
	t.enabled = true

	t.el = c.Document().CreateElement("div")
	t.el.AddClass("deck-timer")
	c.AppendChild(t.el)
	t.render()

	if cfg.Bool("autostart", false) {
		t.start()
	}
	h.On(model.EventSlideChange, func(model.Event) {
		if !t.running && t.enabled {
			t.start()
		}
	})
	return nil
}

// Elapsed is the running time excluding pauses.
func (t *Timer) Elapsed() time.Duration { return t.elapsed }

func (t *Timer) IsEnabled() bool { return t.enabled }

// SetEnabled pauses or resumes the clock.
func (t *Timer) SetEnabled(on bool) {
	if on == t.enabled {
		return
	}
	t.enabled = on
	if on {
		t.start()
		return
	}
	t.stop()
	if t.el != nil {
		t.el.AddClass("paused")
	}
}

func (t *Timer) start() {
	if t.running || t.sched == nil {
		return
	}
	t.running = true
	t.last = t.sched.Now()
	if t.el != nil {
		t.el.RemoveClass("paused")
	}
	t.schedule()
}

func (t *Timer) schedule() {
	t.tick = t.sched.AfterFunc(timerTick, func() {
		now := t.sched.Now()
		t.elapsed += now.Sub(t.last)
		t.last = now
		t.render()
		if t.running {
			t.schedule()
		}
	})
}

func (t *Timer) stop() {
	if !t.running {
		return
	}
	t.running = false
	sched.Stop(t.tick)
	t.tick = nil
	t.elapsed += t.sched.Now().Sub(t.last)
	t.render()
}

func (t *Timer) render() {
	if t.el == nil {
		return
	}
	if t.budget <= 0 {
		t.el.SetText(clock(t.elapsed))
		return
	}
	remaining := t.budget - t.elapsed
	if remaining < 0 {
		t.el.SetText("-" + clock(-remaining))
		t.el.AddClass("overtime")
	} else {
		t.el.SetText(clock(remaining))
	}
	t.el.ToggleClass("warning", remaining <= t.warn)
}

func (t *Timer) Destroy() {
	t.running = false
	sched.Stop(t.tick)
	t.tick = nil
	if t.el != nil {
		t.el.Remove()
	}
	t.el = nil
}

func clock(d time.Duration) string {
	s := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
