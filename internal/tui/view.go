package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"deck-cli/internal/dom"
	"deck-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// slidePadding is the horizontal inset of slide text inside the stage.
const slidePadding = 4

func (m appModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width <= 0 || m.height <= 0 {
		return "loading…"
	}
	now := m.now()
	lay := m.layout()

	parts := make([]string, 0, 5)
	if lay.header != "" {
		parts = append(parts, lay.header)
	}

	var stage string
	if m.eng.Mode() == model.ModeOverview {
		stage = m.viewOverview(lay)
	} else {
		stage = m.viewSlides(now, lay.stageHeight)
	}
	if help := m.eng.Help().Element(); help != nil {
		stage = overlayCenter(stage, m.viewHelp(help), m.width, lay.stageHeight)
	}
	parts = append(parts, stage)

	if lay.footer != "" {
		parts = append(parts, lay.footer)
	}
	parts = append(parts, m.viewStatus())
	if m.prompting {
		parts = append(parts, normalizePane(m.prompt.View(), m.width, 1))
	}
	return strings.Join(parts, "\n")
}

// screenLayout splits the terminal into header, stage, footer and bottom lines.
type screenLayout struct {
	header      string
	footer      string
	stageTop    int
	stageHeight int
}

func (m appModel) layout() screenLayout {
	var lay screenLayout
	budget := m.height - 1 // status line
	if m.prompting {
		budget--
	}
	// Header and footer together never take more than a third of the screen.
	regionMax := budget / 6
	if h := m.region(m.eng.Header(), regionMax); h != "" {
		lay.header = h
		lay.stageTop = lipgloss.Height(h)
		budget -= lay.stageTop
	}
	if f := m.region(m.eng.Footer(), regionMax); f != "" {
		lay.footer = f
		budget -= lipgloss.Height(f)
	}
	if budget < 1 {
		budget = 1
	}
	lay.stageHeight = budget
	return lay
}

func (m appModel) region(el *dom.Element, maxLines int) string {
	if el == nil || maxLines <= 0 {
		return ""
	}
	md := el.Attr("data-markdown")
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out := renderMarkdown(md, m.width-2*slidePadding, m.theme)
	lines := strings.Split(out, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return place(strings.Join(lines, "\n"), m.width, len(lines), "", "center")
}

type slidePane struct {
	text    string
	opacity float64
}

// viewSlides composes every displayed slide at its interpolated position.
func (m appModel) viewSlides(now time.Time, height int) string {
	var panes []slidePane
	for _, el := range m.eng.SlideElements() {
		if el.Style("display") == "none" {
			continue
		}
		fr := slideFrame(el, now)
		body := renderMarkdown(el.Attr("data-markdown"), m.width-2*slidePadding, m.theme)
		pane := place(body, m.width, height, el.Style("justify-content"), el.Style("align-items"))
		pane = shiftX(pane, m.width, int(math.Round(fr.DX*float64(m.width))))
		pane = shiftY(pane, m.width, height, int(math.Round(fr.DY*float64(height))))
		panes = append(panes, slidePane{text: pane, opacity: fr.Opacity})
	}

	stage := normalizePane("", m.width, height)
	if len(panes) == 0 {
		return stage
	}

	// A terminal cannot blend two slides. While fading, draw the more opaque one and dim it
	// until it is mostly in.
	fading := false
	for _, p := range panes {
		if p.opacity < 1 {
			fading = true
		}
	}
	if fading {
		best := panes[0]
		for _, p := range panes[1:] {
			if p.opacity > best.opacity {
				best = p
			}
		}
		if best.opacity < 0.15 {
			return stage
		}
		if best.opacity < 0.6 {
			return dim(best.text)
		}
		return best.text
	}

	for _, p := range panes {
		stage = mergePanes(stage, p.text)
	}
	return stage
}

func dim(pane string) string {
	st := lipgloss.NewStyle().Faint(true)
	lines := strings.Split(pane, "\n")
	for i, l := range lines {
		lines[i] = st.Render(xansi.Strip(l))
	}
	return strings.Join(lines, "\n")
}

// overviewGeometry is the grid placement shared by rendering and mouse hit testing.
type overviewGeometry struct {
	columns  int
	cellW    int
	cellH    int
	firstRow int
	rows     int
}

func newOverviewGeometry(width, height, n, columns, selected int) overviewGeometry {
	if columns <= 0 {
		columns = 1
	}
	g := overviewGeometry{columns: columns}
	g.cellW = width / columns
	if g.cellW < 8 {
		g.cellW = 8
	}
	g.cellH = 7
	if height < g.cellH {
		g.cellH = height
	}
	if g.cellH < 3 {
		g.cellH = 3
	}
	g.rows = height / g.cellH
	if g.rows < 1 {
		g.rows = 1
	}
	selRow := 0
	if selected > 0 {
		selRow = selected / columns
	}
	if selRow >= g.rows {
		g.firstRow = selRow - g.rows + 1
	}
	return g
}

// hit returns the thumbnail index under stage-relative cell (x, y), or -1.
func (g overviewGeometry) hit(x, y, n int) int {
	if x < 0 || y < 0 {
		return -1
	}
	col := x / g.cellW
	row := y/g.cellH + g.firstRow
	if col >= g.columns || y/g.cellH >= g.rows {
		return -1
	}
	i := row*g.columns + col
	if i >= n {
		return -1
	}
	return i
}

func (m appModel) viewOverview(lay screenLayout) string {
	ov := m.eng.Overview()
	panel := ov.Panel()
	if panel == nil {
		return normalizePane("", m.width, lay.stageHeight)
	}
	thumbs := panel.ByClass("overview-thumbnail")
	g := newOverviewGeometry(m.width, lay.stageHeight, len(thumbs), ov.Columns(), ov.SelectedIndex())

	var rows []string
	for r := g.firstRow; r < g.firstRow+g.rows; r++ {
		var cells []string
		for c := 0; c < g.columns; c++ {
			i := r*g.columns + c
			if i >= len(thumbs) {
				break
			}
			cells = append(cells, m.viewThumbnail(thumbs[i], g.cellW, g.cellH))
		}
		if len(cells) == 0 {
			break
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return normalizePane(strings.Join(rows, "\n"), m.width, lay.stageHeight)
}

func (m appModel) viewThumbnail(th *dom.Element, w, h int) string {
	innerW := w - 2
	innerH := h - 2
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}

	var num, md string
	for _, c := range th.Children() {
		switch {
		case c.HasClass("overview-thumbnail-number"):
			num = c.Text()
		case c.HasClass("overview-thumbnail-content"):
			md = c.Attr("data-markdown")
		}
	}

	label := num
	if th.HasClass("active") {
		label = m.pal.active.Render(num + " •")
	}
	lines := []string{fitLine(label, innerW)}
	for _, l := range thumbnailLines(md, innerH-1) {
		lines = append(lines, fitLine(l, innerW))
	}
	body := normalizePane(strings.Join(lines, "\n"), innerW, innerH)

	st := m.pal.border
	if th.HasClass("selected") {
		st = m.pal.selected
	}
	return st.Render(body)
}

// thumbnailLines is a plain-text digest of a slide: headings without their markers, then
// the first non-empty body lines.
func thumbnailLines(md string, n int) []string {
	var out []string
	inFence := false
	for _, l := range strings.Split(md, "\n") {
		if len(out) >= n {
			break
		}
		t := strings.TrimSpace(l)
		if strings.HasPrefix(t, "```") {
			inFence = !inFence
			continue
		}
		if t == "" || inFence {
			continue
		}
		out = append(out, strings.TrimSpace(strings.TrimLeft(t, "#")))
	}
	return out
}

func (m appModel) viewHelp(el *dom.Element) string {
	var lines []string
	keyW := 0
	type row struct{ keys, desc string }
	var rows []row
	title := ""
	for _, c := range el.Children() {
		if c.Tag() == "h3" {
			title = c.Text()
			continue
		}
		if c.HasClass("help-row") {
			r := row{keys: c.Attr("data-keys"), desc: c.Text()}
			if w := lipgloss.Width(r.keys); w > keyW {
				keyW = w
			}
			rows = append(rows, r)
		}
	}
	if title != "" {
		lines = append(lines, m.pal.accent.Render(title), "")
	}
	for _, r := range rows {
		lines = append(lines, m.pal.accent.Render(r.keys)+strings.Repeat(" ", keyW-lipgloss.Width(r.keys)+2)+r.desc)
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Accent).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
	// Not yet faded in, or on its way out.
	if !el.HasClass("fade-in") || el.HasClass("fade-out") {
		return dim(box)
	}
	return box
}

// viewStatus renders plugin elements, the slide position and hints on one line.
func (m appModel) viewStatus() string {
	container := m.eng.Container()
	var left []string

	if bars := container.ByClass("deck-progress-bar"); len(bars) > 0 {
		left = append(left, m.progressBar(bars[0].Style("width"), 20))
	}
	if counters := container.ByClass("deck-counter"); len(counters) > 0 {
		left = append(left, m.pal.status.Render(counters[0].Text()))
	} else {
		left = append(left, m.pal.status.Render(fmt.Sprintf("%d / %d", m.eng.CurrentSlide()+1, m.eng.TotalSlides())))
	}
	if timers := container.ByClass("deck-timer"); len(timers) > 0 {
		t := timers[0]
		st := m.pal.muted
		switch {
		case t.HasClass("overtime"):
			st = m.pal.errText
		case t.HasClass("warning"):
			st = m.pal.accent
		}
		txt := t.Text()
		if t.HasClass("paused") {
			txt += " ⏸"
		}
		left = append(left, st.Render(txt))
	}
	if m.loc != nil {
		left = append(left, m.pal.muted.Render(m.loc.Hash()))
	}

	mode := m.eng.Mode()
	hints := "o overview  ? help  : goto  q quit"
	if mode == model.ModeOverview {
		hints = "enter open  esc close  q quit"
	}
	right := m.pal.muted.Render(mode.String() + "  " + hints)

	l := strings.Join(left, "  ")
	gap := m.width - lipgloss.Width(l) - lipgloss.Width(right)
	if gap < 1 {
		return fitLine(l, m.width)
	}
	return l + strings.Repeat(" ", gap) + right
}

// progressBar draws a width-cell bar from a CSS percentage such as "37.50%".
func (m appModel) progressBar(pct string, width int) string {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(pct), "%"), 64)
	if err != nil {
		v = 0
	}
	v = math.Max(0, math.Min(100, v))
	filled := int(math.Round(v / 100 * float64(width)))
	return m.pal.accent.Render(strings.Repeat("█", filled)) + m.pal.muted.Render(strings.Repeat("░", width-filled))
}
