package builtin

import (
	"fmt"
	"strconv"

	"deck-cli/internal/dom"
	"deck-cli/internal/model"
	"deck-cli/internal/plugin"
)

const (
	ProgressName = "progress"
	CounterName  = "counter"
)

// Progress draws a bar whose width tracks the position in the deck.
type Progress struct {
	el  *dom.Element
	bar *dom.Element
}

func (p *Progress) Name() string { return ProgressName }

func (p *Progress) Init(h plugin.Host, cfg plugin.Config) error {
	c := h.Container()
	if c == nil {
		return fmt.Errorf("no container")
	}
	doc := c.Document()
	p.el = doc.CreateElement("div")
	p.el.AddClass("deck-progress")
	p.el.SetAttr("data-position", cfg.String("position", "bottom"))
	p.bar = doc.CreateElement("div")
	p.bar.AddClass("deck-progress-bar")
	p.el.AppendChild(p.bar)
	c.AppendChild(p.el)

	update := func(ev model.Event) { p.update(ev.CurrentSlide, ev.TotalSlides) }
	h.On(model.EventReady, update)
	h.On(model.EventSlideChange, update)
	p.update(h.CurrentSlide(), h.TotalSlides())
	return nil
}

func (p *Progress) update(current, total int) {
	if p.bar == nil {
		return
	}
	pct := 0.0
	if total > 0 {
		pct = float64(current+1) / float64(total) * 100
	}
	p.bar.SetStyle("width", strconv.FormatFloat(pct, 'f', 2, 64)+"%")
}

func (p *Progress) Destroy() {
	if p.el != nil {
		p.el.Remove()
	}
	p.el, p.bar = nil, nil
}

// Counter shows "current / total".
type Counter struct {
	el     *dom.Element
	format string
}

func (c *Counter) Name() string { return CounterName }

func (c *Counter) Init(h plugin.Host, cfg plugin.Config) error {
	container := h.Container()
	if container == nil {
		return fmt.Errorf("no container")
	}
	c.format = cfg.String("format", "%d / %d")
	c.el = container.Document().CreateElement("div")
	c.el.AddClass("deck-counter")
	container.AppendChild(c.el)

	update := func(ev model.Event) { c.update(ev.CurrentSlide, ev.TotalSlides) }
	h.On(model.EventReady, update)
	h.On(model.EventSlideChange, update)
	c.update(h.CurrentSlide(), h.TotalSlides())
	return nil
}

func (c *Counter) update(current, total int) {
	if c.el == nil {
		return
	}
	c.el.SetText(fmt.Sprintf(c.format, current+1, total))
}

func (c *Counter) Destroy() {
	if c.el != nil {
		c.el.Remove()
	}
	c.el = nil
}
