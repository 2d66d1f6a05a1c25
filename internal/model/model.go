package model

import (
	"strings"
	"time"
)

type Slide struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	HTML    string `json:"html"`
}

type TransitionType string

const (
	TransitionHorizontal TransitionType = "horizontal"
	TransitionVertical   TransitionType = "vertical"
	TransitionFade       TransitionType = "fade"
	// TransitionSlide shares the horizontal geometry; only its default easing differs.
	TransitionSlide TransitionType = "slide"
)

func ParseTransitionType(s string) (TransitionType, bool) {
	switch TransitionType(strings.ToLower(strings.TrimSpace(s))) {
	case TransitionHorizontal:
		return TransitionHorizontal, true
	case TransitionVertical:
		return TransitionVertical, true
	case TransitionFade:
		return TransitionFade, true
	case TransitionSlide:
		return TransitionSlide, true
	}
	return "", false
}

const (
	DefaultTransitionDuration = 500 * time.Millisecond
	DefaultEasing             = "ease-in-out"
	DefaultSlideEasing        = "cubic-bezier(0.25, 0.46, 0.45, 0.94)"
)

// OverlapPolicy decides what happens when a transition is requested while another is still running.
type OverlapPolicy string

const (
	// OverlapRestart cancels the running animation and starts the new one from a clean state.
	OverlapRestart OverlapPolicy = "restart"
	// OverlapQueue runs animations one after another.
	OverlapQueue OverlapPolicy = "queue"
	// OverlapIgnore drops requests while animating and snaps to the latest target afterwards.
	OverlapIgnore OverlapPolicy = "ignore"
)

func ParseOverlapPolicy(s string) (OverlapPolicy, bool) {
	switch OverlapPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", OverlapRestart:
		return OverlapRestart, true
	case OverlapQueue:
		return OverlapQueue, true
	case OverlapIgnore:
		return OverlapIgnore, true
	}
	return "", false
}

type TransitionSpec struct {
	Type     TransitionType
	Duration time.Duration
	Easing   string
	Overlap  OverlapPolicy
}

// Normalize fills defaults. An empty easing picks the per-type default.
func (t TransitionSpec) Normalize() TransitionSpec {
	if t.Type == "" {
		t.Type = TransitionHorizontal
	}
	if t.Duration < 0 {
		t.Duration = 0
	}
	if strings.TrimSpace(t.Easing) == "" {
		if t.Type == TransitionSlide {
			t.Easing = DefaultSlideEasing
		} else {
			t.Easing = DefaultEasing
		}
	}
	if t.Overlap == "" {
		t.Overlap = OverlapRestart
	}
	return t
}

type NavigationConfig struct {
	Keyboard bool
	Touch    bool
	Loop     bool
}

type CenterContentConfig struct {
	Vertical   bool
	Horizontal bool
}

func (c CenterContentConfig) Enabled() bool { return c.Vertical || c.Horizontal }

type Mode int

const (
	ModeNormal Mode = iota
	ModeOverview
	// ModeHelp is the help overlay on top of normal mode.
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeOverview:
		return "overview"
	case ModeHelp:
		return "help"
	default:
		return "normal"
	}
}

const (
	EventReady       = "ready"
	EventSlideChange = "slidechange"
)

type Event struct {
	Type         string `json:"type"`
	CurrentSlide int    `json:"currentSlide"`
	TotalSlides  int    `json:"totalSlides"`
	Slide        *Slide `json:"slide,omitempty"`
}

type Listener func(Event)
