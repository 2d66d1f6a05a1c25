package deck

import (
	"strconv"

	"deck-cli/internal/dom"
	"deck-cli/internal/model"
)

const defaultOverviewColumns = 4

// Overview is the thumbnail grid mode. While active it consumes every key.
type Overview struct {
	doc     *dom.Document
	parent  *dom.Element
	slides  func() []model.Slide
	columns int

	onSelect func(int)
	onExit   func()

	active   bool
	selected int
	panel    *dom.Element
	thumbs   []*dom.Element
}

func NewOverview(doc *dom.Document, parent *dom.Element, slides func() []model.Slide, columns int, onSelect func(int), onExit func()) *Overview {
	if columns <= 0 {
		columns = defaultOverviewColumns
	}
	return &Overview{
		doc:      doc,
		parent:   parent,
		slides:   slides,
		columns:  columns,
		onSelect: onSelect,
		onExit:   onExit,
	}
}

func (o *Overview) IsActive() bool { return o.active }

// SelectedIndex is meaningful only while active.
func (o *Overview) SelectedIndex() int { return o.selected }

func (o *Overview) Columns() int { return o.columns }

// Panel returns the overview root while active.
func (o *Overview) Panel() *dom.Element { return o.panel }

func (o *Overview) Enter(current int) {
	if o.active {
		return
	}
	slides := o.slides()
	o.active = true
	o.selected = clamp(current, 0, len(slides)-1)

	panel := o.doc.CreateElement("div")
	panel.SetID("deck-overview")
	panel.AddClass("overview")

	grid := o.doc.CreateElement("div")
	grid.AddClass("overview-grid")
	grid.SetAttr("data-columns", strconv.Itoa(o.columns))
	panel.AppendChild(grid)

	o.thumbs = make([]*dom.Element, len(slides))
	for i, s := range slides {
		th := o.thumbnail(i, s)
		if i == current {
			th.AddClass("active")
		}
		o.thumbs[i] = th
		grid.AppendChild(th)
	}

	closeBtn := o.doc.CreateElement("button")
	closeBtn.AddClass("overview-close")
	closeBtn.SetAttr("aria-label", "Close overview")
	closeBtn.SetText("×")
	closeBtn.OnClick(o.Exit)
	panel.AppendChild(closeBtn)

	panel.AppendChild(keyHelpPanel(o.doc, "overview-help", "Overview", overviewKeyHelp))

	o.panel = panel
	o.parent.AppendChild(panel)
	o.markSelected()
}

// thumbnail renders a read-only copy from the slide record, never from the live slide node.
func (o *Overview) thumbnail(i int, s model.Slide) *dom.Element {
	th := o.doc.CreateElement("div")
	th.AddClass("overview-thumbnail")
	th.SetAttr("data-index", strconv.Itoa(i))
	th.SetAttr("data-slide-id", s.ID)

	body := o.doc.CreateElement("div")
	body.AddClass("overview-thumbnail-content")
	body.SetHTML(s.HTML)
	body.SetAttr("data-markdown", s.Content)
	th.AppendChild(body)

	num := o.doc.CreateElement("div")
	num.AddClass("overview-thumbnail-number")
	num.SetText(strconv.Itoa(i + 1))
	th.AppendChild(num)

	th.OnClick(func() {
		if !o.active {
			return
		}
		o.selected = i
		o.markSelected()
		o.commit()
	})
	return th
}

func (o *Overview) Exit() {
	if !o.active {
		return
	}
	o.active = false
	if o.panel != nil {
		o.panel.Remove()
	}
	o.panel = nil
	o.thumbs = nil
	if o.onExit != nil {
		o.onExit()
	}
}

func (o *Overview) HandleKey(k Key) bool {
	if !o.active {
		return false
	}
	last := len(o.thumbs) - 1
	switch {
	case k == KeyRight:
		o.Select(o.selected + 1)
	case k == KeyLeft:
		o.Select(o.selected - 1)
	case k == KeyDown:
		o.Select(o.selected + o.columns)
	case k == KeyUp:
		o.Select(o.selected - o.columns)
	case k == KeyHome:
		o.Select(0)
	case k == KeyEnd:
		o.Select(last)
	case k == KeyEnter:
		o.commit()
	case k == KeyEscape || isOverviewToggle(k):
		o.Exit()
	}
	return true
}

// Select moves the cursor, clamped to the deck.
func (o *Overview) Select(i int) {
	if !o.active || len(o.thumbs) == 0 {
		return
	}
	i = clamp(i, 0, len(o.thumbs)-1)
	if i == o.selected && o.thumbs[i].HasClass("selected") {
		return
	}
	o.selected = i
	o.markSelected()
}

func (o *Overview) markSelected() {
	for i, th := range o.thumbs {
		th.ToggleClass("selected", i == o.selected)
	}
	if o.selected >= 0 && o.selected < len(o.thumbs) {
		o.thumbs[o.selected].ScrollIntoView()
	}
}

func (o *Overview) commit() {
	sel := o.selected
	if o.onSelect != nil {
		o.onSelect(sel)
	}
	o.Exit()
}

func keyHelpPanel(doc *dom.Document, class, title string, lines []KeyHelp) *dom.Element {
	panel := doc.CreateElement("div")
	panel.AddClass(class)
	h := doc.CreateElement("h3")
	h.SetText(title)
	panel.AppendChild(h)
	for _, l := range lines {
		row := doc.CreateElement("div")
		row.AddClass("help-row")
		row.SetAttr("data-keys", l.Keys)
		row.SetText(l.Desc)
		panel.AppendChild(row)
	}
	return panel
}

func clamp(i, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}
