package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and height lines tall.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")

	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i := range lines {
		lines[i] = fitLine(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func fitLine(ln string, width int) string {
	// Bound the width computation on very long raw lines.
	if width > 0 && len(ln) > 8192 {
		ln = xansi.Cut(ln, 0, width)
	}
	w := xansi.StringWidth(ln)
	if w > width {
		switch {
		case width <= 0:
			ln = ""
		case width == 1:
			ln = xansi.Cut(ln, 0, 1)
		default:
			ln = xansi.Cut(ln, 0, width-1) + "…"
		}
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

// shiftX moves a normalized pane dx columns to the right (negative: left). Columns pushed out
// of [0,width) are dropped and the gap is blank.
func shiftX(pane string, width, dx int) string {
	if dx == 0 {
		return pane
	}
	lines := strings.Split(pane, "\n")
	for i, ln := range lines {
		switch {
		case dx >= width || -dx >= width:
			lines[i] = strings.Repeat(" ", width)
		case dx > 0:
			lines[i] = strings.Repeat(" ", dx) + xansi.Cut(ln, 0, width-dx)
		default:
			lines[i] = xansi.Cut(ln, -dx, width) + strings.Repeat(" ", -dx)
		}
	}
	return strings.Join(lines, "\n")
}

// shiftY moves a normalized pane dy rows down (negative: up).
func shiftY(pane string, width, height, dy int) string {
	if dy == 0 {
		return pane
	}
	blank := strings.Repeat(" ", width)
	lines := strings.Split(pane, "\n")
	out := make([]string, height)
	for i := range out {
		src := i - dy
		if src >= 0 && src < len(lines) {
			out[i] = lines[src]
		} else {
			out[i] = blank
		}
	}
	return strings.Join(out, "\n")
}

// mergePanes overlays top on base: every column of top that is not a blank is taken from top.
// Both panes must be normalized to the same size.
func mergePanes(base, top string) string {
	bl := strings.Split(base, "\n")
	tl := strings.Split(top, "\n")
	for i := range bl {
		if i >= len(tl) {
			break
		}
		bl[i] = mergeLine(bl[i], tl[i])
	}
	return strings.Join(bl, "\n")
}

func mergeLine(base, top string) string {
	if strings.TrimSpace(xansi.Strip(top)) == "" {
		return base
	}
	if strings.TrimSpace(xansi.Strip(base)) == "" {
		return top
	}
	// Both sides carry text. Split at the first column where top has content, which is
	// exact for the horizontal slide case where the two panes never overlap.
	stripped := xansi.Strip(top)
	w := xansi.StringWidth(stripped)
	lead := w - xansi.StringWidth(strings.TrimLeft(stripped, " "))
	trail := w - xansi.StringWidth(strings.TrimRight(stripped, " "))
	if lead > 0 {
		return xansi.Cut(base, 0, lead) + xansi.Cut(top, lead, w)
	}
	if trail > 0 {
		return xansi.Cut(top, 0, w-trail) + xansi.Cut(base, w-trail, w)
	}
	return top
}

// overlayCenter draws box centered over the normalized pane bg.
func overlayCenter(bg, box string, width, height int) string {
	bl := strings.Split(bg, "\n")
	boxLines := strings.Split(box, "\n")
	bw := 0
	for _, l := range boxLines {
		if w := xansi.StringWidth(l); w > bw {
			bw = w
		}
	}
	if bw > width {
		bw = width
	}
	top := (height - len(boxLines)) / 2
	if top < 0 {
		top = 0
	}
	left := (width - bw) / 2
	for i, l := range boxLines {
		row := top + i
		if row >= len(bl) {
			break
		}
		l = fitLine(l, bw)
		bl[row] = xansi.Cut(bl[row], 0, left) + l + xansi.Cut(bl[row], left+bw, width)
	}
	return strings.Join(bl, "\n")
}

// place pads content into a width x height box aligned per the flex properties the layout
// stabilizer writes. Slides are column flex boxes, so justify is vertical and align is
// horizontal; "center" centers and anything else starts at the edge.
func place(content string, width, height int, justify, align string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height && height > 0 {
		lines = lines[:height]
	}
	cw := 0
	for _, l := range lines {
		if w := xansi.StringWidth(l); w > cw {
			cw = w
		}
	}
	padLeft := 0
	if align == "center" && cw < width {
		padLeft = (width - cw) / 2
	}
	padTop := 0
	if justify == "center" && len(lines) < height {
		padTop = (height - len(lines)) / 2
	}
	out := make([]string, 0, height)
	for i := 0; i < padTop; i++ {
		out = append(out, "")
	}
	prefix := strings.Repeat(" ", padLeft)
	for _, l := range lines {
		out = append(out, prefix+l)
	}
	return normalizePane(strings.Join(out, "\n"), width, height)
}
