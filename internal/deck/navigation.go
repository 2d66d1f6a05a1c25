package deck

import (
	"math"

	"deck-cli/internal/model"
)

// SwipeThreshold is the minimum travel along the dominant axis for a touch to count as a swipe.
const SwipeThreshold = 50

// Navigator turns keyboard and touch input into target indices. It never moves the deck
// itself: every target goes through the navigate callback, which owns the index.
type Navigator struct {
	cfg      model.NavigationConfig
	size     int
	current  int
	navigate func(int)

	touching       bool
	touchX, touchY float64
}

func NewNavigator(cfg model.NavigationConfig, navigate func(int)) *Navigator {
	return &Navigator{cfg: cfg, navigate: navigate}
}

func (n *Navigator) SetDeckSize(size int) {
	if size < 0 {
		size = 0
	}
	n.size = size
}

func (n *Navigator) SetCurrentIndex(i int) { n.current = i }

func (n *Navigator) CurrentIndex() int { return n.current }

// GoToIndex drops out-of-range targets silently. It reports whether navigation was requested.
func (n *Navigator) GoToIndex(i int) bool {
	if i < 0 || i >= n.size {
		return false
	}
	if n.navigate != nil {
		n.navigate(i)
	}
	return true
}

func (n *Navigator) NextSlide() bool {
	if n.size == 0 {
		return false
	}
	t := n.current + 1
	if t >= n.size {
		if !n.cfg.Loop {
			return false
		}
		t = 0
	}
	return n.GoToIndex(t)
}

func (n *Navigator) PreviousSlide() bool {
	if n.size == 0 {
		return false
	}
	t := n.current - 1
	if t < 0 {
		if !n.cfg.Loop {
			return false
		}
		t = n.size - 1
	}
	return n.GoToIndex(t)
}

func (n *Navigator) GoToFirst() bool { return n.GoToIndex(0) }

func (n *Navigator) GoToLast() bool { return n.GoToIndex(n.size - 1) }

// HandleKey maps a key to navigation. It reports whether the key was one of ours.
func (n *Navigator) HandleKey(k Key) bool {
	if !n.cfg.Keyboard {
		return false
	}
	switch k {
	case KeyRight, KeyDown, KeySpace:
		n.NextSlide()
	case KeyLeft, KeyUp:
		n.PreviousSlide()
	case KeyHome:
		n.GoToFirst()
	case KeyEnd:
		n.GoToLast()
	default:
		return false
	}
	return true
}

func (n *Navigator) TouchStart(x, y float64) {
	if !n.cfg.Touch {
		return
	}
	n.touching = true
	n.touchX, n.touchY = x, y
}

// TouchEnd classifies the gesture. Swipes below the threshold are ignored.
func (n *Navigator) TouchEnd(x, y float64) {
	if !n.cfg.Touch || !n.touching {
		return
	}
	n.touching = false
	dx := x - n.touchX
	dy := y - n.touchY
	adx, ady := math.Abs(dx), math.Abs(dy)

	switch {
	case adx > ady && adx > SwipeThreshold:
		if dx < 0 {
			n.NextSlide()
		} else {
			n.PreviousSlide()
		}
	case ady > adx && ady > SwipeThreshold:
		if dy < 0 {
			n.NextSlide()
		} else {
			n.PreviousSlide()
		}
	}
}
