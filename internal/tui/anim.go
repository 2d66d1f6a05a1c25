package tui

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"deck-cli/internal/dom"
)

// transitionDecl is one parsed "prop 500ms easing" transition style.
type transitionDecl struct {
	Prop     string
	Duration time.Duration
	Easing   string
}

func parseTransition(s string) (transitionDecl, bool) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) < 2 {
		return transitionDecl{}, false
	}
	d, err := time.ParseDuration(fields[1])
	if err != nil {
		return transitionDecl{}, false
	}
	easing := "ease"
	if len(fields) > 2 {
		easing = strings.Join(fields[2:], " ")
	}
	return transitionDecl{Prop: fields[0], Duration: d, Easing: easing}, true
}

var bezierPattern = regexp.MustCompile(`^cubic-bezier\(\s*([-0-9.]+)\s*,\s*([-0-9.]+)\s*,\s*([-0-9.]+)\s*,\s*([-0-9.]+)\s*\)$`)

// easingFunc maps a CSS timing function name to a curve on [0,1]. Unknown names are linear.
func easingFunc(name string) func(float64) float64 {
	switch strings.TrimSpace(name) {
	case "linear":
		return func(t float64) float64 { return t }
	case "ease":
		return cubicBezier(0.25, 0.1, 0.25, 1)
	case "ease-in":
		return cubicBezier(0.42, 0, 1, 1)
	case "ease-out":
		return cubicBezier(0, 0, 0.58, 1)
	case "ease-in-out":
		return cubicBezier(0.42, 0, 0.58, 1)
	}
	if m := bezierPattern.FindStringSubmatch(strings.TrimSpace(name)); m != nil {
		var p [4]float64
		for i := range p {
			v, err := strconv.ParseFloat(m[i+1], 64)
			if err != nil {
				return func(t float64) float64 { return t }
			}
			p[i] = v
		}
		return cubicBezier(p[0], p[1], p[2], p[3])
	}
	return func(t float64) float64 { return t }
}

// cubicBezier returns y(x) for the curve through (0,0), (x1,y1), (x2,y2), (1,1).
func cubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(t float64) float64 { return ((ax*t+bx)*t + cx) * t }
	sampleY := func(t float64) float64 { return ((ay*t+by)*t + cy) * t }
	slopeX := func(t float64) float64 { return (3*ax*t+2*bx)*t + cx }

	solve := func(x float64) float64 {
		t := x
		for i := 0; i < 8; i++ {
			err := sampleX(t) - x
			if math.Abs(err) < 1e-6 {
				return t
			}
			d := slopeX(t)
			if math.Abs(d) < 1e-6 {
				break
			}
			t -= err / d
		}
		// Newton stalled; bisect.
		lo, hi := 0.0, 1.0
		t = x
		for i := 0; i < 32; i++ {
			v := sampleX(t)
			if math.Abs(v-x) < 1e-6 {
				break
			}
			if v < x {
				lo = t
			} else {
				hi = t
			}
			t = (lo + hi) / 2
		}
		return t
	}

	return func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		if x >= 1 {
			return 1
		}
		return sampleY(solve(x))
	}
}

// progress reports how far change has run at now, eased. active is false once the
// transition is over (or the record is not a timed transition).
func progress(change dom.StyleChange, now time.Time) (p float64, active bool) {
	decl, ok := parseTransition(change.Transition)
	if !ok || decl.Duration <= 0 {
		return 1, false
	}
	elapsed := now.Sub(change.At)
	if elapsed >= decl.Duration {
		return 1, false
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return easingFunc(decl.Easing)(float64(elapsed) / float64(decl.Duration)), true
}

var translatePattern = regexp.MustCompile(`^translate([XY])\(\s*(-?[0-9.]+)%?\s*\)$`)

// parseTranslate reads "translateX(-100%)" as ('X', -100). Empty or unknown values are no offset.
func parseTranslate(v string) (axis byte, pct float64) {
	m := translatePattern.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return 0, 0
	}
	f, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0
	}
	return m[1][0], f
}

func parseOpacity(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 1
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 1
	}
	return math.Max(0, math.Min(1, f))
}

// frameState is where a slide element is drawn at a given instant.
type frameState struct {
	// DX and DY are offsets as fractions of the viewport (1 = one full width or height).
	DX, DY    float64
	Opacity   float64
	Animating bool
}

func lerp(a, b, p float64) float64 { return a + (b-a)*p }

// slideFrame interpolates el's transform and opacity from its recorded style transitions.
func slideFrame(el *dom.Element, now time.Time) frameState {
	st := frameState{Opacity: parseOpacity(el.Style("opacity"))}

	axis, pct := parseTranslate(el.Style("transform"))
	if ch, ok := el.Transition("transform"); ok {
		if p, active := progress(ch, now); active {
			fromAxis, from := parseTranslate(ch.From)
			toAxis, to := parseTranslate(ch.To)
			if toAxis != 0 {
				axis = toAxis
			} else {
				axis = fromAxis
			}
			pct = lerp(from, to, p)
			st.Animating = true
		}
	}
	switch axis {
	case 'X':
		st.DX = pct / 100
	case 'Y':
		st.DY = pct / 100
	}

	if ch, ok := el.Transition("opacity"); ok {
		if p, active := progress(ch, now); active {
			st.Opacity = lerp(parseOpacity(ch.From), parseOpacity(ch.To), p)
			st.Animating = true
		}
	}
	return st
}
