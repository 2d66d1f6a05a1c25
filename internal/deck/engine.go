// Package deck is the presentation engine: the slide deck, its navigation, transition,
// overview, help, URL hash and layout controllers, and the plugin lifecycle.
//
// All methods must be called from the scheduler's UI turn; the engine does no locking.
package deck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"deck-cli/internal/content"
	"deck-cli/internal/dom"
	"deck-cli/internal/location"
	"deck-cli/internal/model"
	"deck-cli/internal/plugin"
	"deck-cli/internal/sched"
	"deck-cli/internal/theme"

	"github.com/sirupsen/logrus"
)

var (
	ErrNoContainer = errors.New("deck: container element not found")
	ErrNoContent   = errors.New("deck: neither content nor content path given")
	ErrNoSlides    = errors.New("deck: content has no slides")
	ErrDestroyed   = errors.New("deck: engine destroyed")
)

// SessionState is a caller-owned handle used to resume at the last viewed slide.
type SessionState interface {
	LastSlide() (int, bool)
	SetLastSlide(i int)
}

type ContentLoader interface {
	Load(ctx context.Context, src string) (string, error)
}

type ThemeLoader interface {
	Load(ctx context.Context, name string) (theme.Theme, error)
}

type Options struct {
	Document    *dom.Document
	ContainerID string
	Scheduler   sched.Scheduler
	Location    location.Location
	Session     SessionState
	Logger      logrus.FieldLogger

	Theme  string
	Themes ThemeLoader

	// Content wins over ContentPath when both are set.
	Content     string
	ContentPath string
	HeaderPath  string
	FooterPath  string
	Loader      ContentLoader
	Parse       func(raw string) []model.Slide

	Navigation      model.NavigationConfig
	Transition      model.TransitionSpec
	CenterContent   model.CenterContentConfig
	URLHash         bool
	ShowHelpOnStart bool
	OverviewColumns int

	Registry *plugin.Registry
	Plugins  map[string]plugin.Config
}

// SlideDeck is the ordered slide list and the current position.
type SlideDeck struct {
	Slides       []model.Slide
	CurrentIndex int
}

type Engine struct {
	opts  Options
	log   logrus.FieldLogger
	doc   *dom.Document
	sched sched.Scheduler

	container *dom.Element
	header    *dom.Element
	slidesEl  *dom.Element
	footer    *dom.Element
	slideEls  []*dom.Element

	deck  SlideDeck
	theme theme.Theme

	nav      *Navigator
	trans    *Transitioner
	overview *Overview
	help     *Help
	hash     *HashSync
	layout   *Stabilizer

	listeners map[string][]model.Listener
	plugins   []plugin.Plugin

	started   bool
	destroyed bool
}

func New(opts Options) (*Engine, error) {
	if opts.Document == nil {
		return nil, fmt.Errorf("deck: missing document")
	}
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("deck: missing scheduler")
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.Themes == nil {
		opts.Themes = theme.NewCatalog(opts.Logger)
	}
	if opts.Loader == nil {
		opts.Loader = content.Loader{}
	}
	if opts.Parse == nil {
		opts.Parse = content.Parse
	}
	if opts.Location == nil {
		opts.Location = location.NewMemory("")
	}
	if strings.TrimSpace(opts.ContainerID) == "" {
		opts.ContainerID = "deck"
	}
	e := &Engine{
		opts:      opts,
		log:       opts.Logger,
		doc:       opts.Document,
		sched:     opts.Scheduler,
		listeners: map[string][]model.Listener{},
	}
	return e, nil
}

// Start loads theme and content, renders the deck and emits "ready".
func (e *Engine) Start(ctx context.Context) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if e.started {
		return nil
	}

	container := e.doc.GetElementByID(e.opts.ContainerID)
	if container == nil {
		return fmt.Errorf("%w: #%s", ErrNoContainer, e.opts.ContainerID)
	}
	e.container = container

	th, err := e.opts.Themes.Load(ctx, e.opts.Theme)
	if err != nil {
		return fmt.Errorf("load theme: %w", err)
	}
	e.theme = th

	raw, err := e.loadContent(ctx)
	if err != nil {
		return err
	}
	slides := e.opts.Parse(raw)
	if len(slides) == 0 {
		return ErrNoSlides
	}
	e.deck = SlideDeck{Slides: slides}

	e.render(ctx)
	e.wire()
	e.initPlugins()

	start := e.initialIndex()
	e.deck.CurrentIndex = start
	e.nav.SetCurrentIndex(start)
	e.trans.Animate(start, start)
	e.hash.Write(start)
	if e.opts.Session != nil {
		e.opts.Session.SetLastSlide(start)
	}
	e.layout.Start()
	e.layout.Recompute()
	e.hash.Start()

	if e.opts.ShowHelpOnStart {
		e.help.ShowInitial()
	}

	e.started = true
	e.log.WithField("slides", len(slides)).WithField("theme", th.Name).WithField("start", start).Debug("deck ready")
	e.Emit(model.EventReady, model.Event{
		Type:         model.EventReady,
		CurrentSlide: start,
		TotalSlides:  len(slides),
	})
	return nil
}

func (e *Engine) loadContent(ctx context.Context) (string, error) {
	if strings.TrimSpace(e.opts.Content) != "" {
		return e.opts.Content, nil
	}
	if strings.TrimSpace(e.opts.ContentPath) == "" {
		return "", ErrNoContent
	}
	raw, err := e.opts.Loader.Load(ctx, e.opts.ContentPath)
	if err != nil {
		return "", fmt.Errorf("load content %s: %w", e.opts.ContentPath, err)
	}
	return raw, nil
}

// loadRegion loads header/footer markdown. Failures leave the region empty.
func (e *Engine) loadRegion(ctx context.Context, kind, path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	raw, err := e.opts.Loader.Load(ctx, path)
	if err != nil {
		e.log.WithField("region", kind).WithField("path", path).WithError(err).Warn("region content not loaded")
		return ""
	}
	return strings.TrimSpace(raw)
}

func (e *Engine) render(ctx context.Context) {
	c := e.container
	c.RemoveChildren()
	c.AddClass("deck")
	c.SetAttr("data-theme", e.theme.Name)

	e.header = e.region(ctx, "header", e.opts.HeaderPath)
	c.AppendChild(e.header)

	e.slidesEl = e.doc.CreateElement("div")
	e.slidesEl.AddClass("slides")
	e.slideEls = make([]*dom.Element, len(e.deck.Slides))
	for i, s := range e.deck.Slides {
		el := e.doc.CreateElement("section")
		el.AddClass("slide")
		el.SetID(s.ID)
		el.SetAttr("data-index", strconv.Itoa(i))
		el.SetAttr("data-markdown", s.Content)
		el.SetHTML(s.HTML)
		el.SetStyle("display", "none")
		e.slideEls[i] = el
		e.slidesEl.AppendChild(el)
	}
	c.AppendChild(e.slidesEl)

	e.footer = e.region(ctx, "footer", e.opts.FooterPath)
	c.AppendChild(e.footer)
}

func (e *Engine) region(ctx context.Context, kind, path string) *dom.Element {
	el := e.doc.CreateElement(kind)
	el.AddClass("deck-" + kind)
	if md := e.loadRegion(ctx, kind, path); md != "" {
		el.SetAttr("data-markdown", md)
		el.SetHTML(content.RenderHTML(md))
	}
	return el
}

func (e *Engine) wire() {
	e.nav = NewNavigator(e.opts.Navigation, e.GoToSlide)
	e.nav.SetDeckSize(len(e.deck.Slides))

	e.trans = NewTransitioner(e.opts.Transition, e.sched)
	e.trans.SetSlides(e.slideEls)

	e.help = NewHelp(e.doc, e.container, e.sched)
	e.overview = NewOverview(e.doc, e.container, e.Slides, e.opts.OverviewColumns, e.GoToSlide, func() {
		e.help.RestoreAfterOverview()
		e.layout.Recompute()
	})

	e.hash = NewHashSync(e.opts.URLHash, e.opts.Location, e.GoToSlide)
	e.layout = NewStabilizer(e.opts.CenterContent, e.sched, e.slidesEl)
}

func (e *Engine) initPlugins() {
	names := make([]string, 0, len(e.opts.Plugins))
	for name, cfg := range e.opts.Plugins {
		if cfg.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		log := e.log.WithField("plugin", name)
		p, err := e.opts.Registry.New(name)
		if err != nil {
			log.WithError(err).Error("plugin not created")
			continue
		}
		undo := e.checkpoint()
		if err := plugin.SafeInit(p, e, e.opts.Plugins[name]); err != nil {
			log.WithError(err).Error("plugin init failed")
			undo()
			plugin.SafeDestroy(p, e.log)
			continue
		}
		e.plugins = append(e.plugins, p)
	}
}

// checkpoint records the listeners and the nodes under the container and body. The returned
// func drops whatever was added since, so a plugin whose Init fails leaves nothing behind.
func (e *Engine) checkpoint() func() {
	counts := make(map[string]int, len(e.listeners))
	for ev, fns := range e.listeners {
		counts[ev] = len(fns)
	}
	roots := []*dom.Element{e.container, e.doc.Body()}
	before := map[*dom.Element]bool{}
	for _, r := range roots {
		for _, c := range r.Children() {
			before[c] = true
		}
	}
	return func() {
		for ev, fns := range e.listeners {
			n, ok := counts[ev]
			if !ok || n == 0 {
				delete(e.listeners, ev)
				continue
			}
			e.listeners[ev] = fns[:n]
		}
		for _, r := range roots {
			for _, c := range r.Children() {
				if !before[c] {
					c.Remove()
				}
			}
		}
	}
}

// initialIndex prefers the URL hash, then the session, then the first slide.
func (e *Engine) initialIndex() int {
	n := len(e.deck.Slides)
	if i, ok := e.hash.Read(); ok && i < n {
		return i
	}
	if e.opts.Session != nil {
		if i, ok := e.opts.Session.LastSlide(); ok && i >= 0 && i < n {
			return i
		}
	}
	return 0
}

// GoToSlide moves to index i. Out-of-range indices are ignored.
func (e *Engine) GoToSlide(i int) {
	if !e.started || e.destroyed {
		return
	}
	if i < 0 || i >= len(e.deck.Slides) {
		return
	}
	prev := e.deck.CurrentIndex
	e.deck.CurrentIndex = i
	e.nav.SetCurrentIndex(i)
	if e.opts.Session != nil {
		e.opts.Session.SetLastSlide(i)
	}

	e.trans.Animate(prev, i)
	e.hash.Write(i)
	e.layout.Recompute()

	s := e.deck.Slides[i]
	e.Emit(model.EventSlideChange, model.Event{
		Type:         model.EventSlideChange,
		CurrentSlide: i,
		TotalSlides:  len(e.deck.Slides),
		Slide:        &s,
	})
}

func (e *Engine) NextSlide() {
	if e.ready() {
		e.nav.NextSlide()
	}
}

func (e *Engine) PreviousSlide() {
	if e.ready() {
		e.nav.PreviousSlide()
	}
}

func (e *Engine) ToggleOverview() {
	if !e.ready() {
		return
	}
	if e.overview.IsActive() {
		e.overview.Exit()
		return
	}
	e.help.HideForOverview()
	e.overview.Enter(e.deck.CurrentIndex)
}

// ToggleHelp shows or hides the help overlay. Help never overlays the overview.
func (e *Engine) ToggleHelp() {
	if !e.ready() || e.overview.IsActive() {
		return
	}
	e.help.Toggle()
}

// HandleKey routes one key press. It reports whether the key was consumed.
func (e *Engine) HandleKey(k Key) bool {
	if !e.ready() {
		return false
	}
	if e.overview.IsActive() {
		return e.overview.HandleKey(k)
	}
	switch {
	case isHelpToggle(k):
		e.help.Toggle()
		return true
	case isOverviewToggle(k):
		e.ToggleOverview()
		return true
	case isPluginToggle(k):
		e.TogglePlugins()
		return true
	case k == KeyEscape && e.help.IsVisible():
		e.help.Hide()
		return true
	}
	e.help.Dismiss()
	return e.nav.HandleKey(k)
}

func (e *Engine) TouchStart(x, y float64) {
	if !e.ready() || e.overview.IsActive() {
		return
	}
	e.nav.TouchStart(x, y)
}

func (e *Engine) TouchEnd(x, y float64) {
	if !e.ready() || e.overview.IsActive() {
		return
	}
	e.help.Dismiss()
	e.nav.TouchEnd(x, y)
}

func (e *Engine) ready() bool { return e.started && !e.destroyed }

func (e *Engine) CurrentSlide() int { return e.deck.CurrentIndex }

func (e *Engine) TotalSlides() int { return len(e.deck.Slides) }

func (e *Engine) Slides() []model.Slide {
	out := make([]model.Slide, len(e.deck.Slides))
	copy(out, e.deck.Slides)
	return out
}

func (e *Engine) Container() *dom.Element { return e.container }

func (e *Engine) Document() *dom.Document { return e.doc }

func (e *Engine) Scheduler() sched.Scheduler { return e.sched }

func (e *Engine) Logger() logrus.FieldLogger { return e.log }

func (e *Engine) Theme() theme.Theme { return e.theme }

// SlideElements returns the rendered slide nodes in deck order.
func (e *Engine) SlideElements() []*dom.Element {
	out := make([]*dom.Element, len(e.slideEls))
	copy(out, e.slideEls)
	return out
}

func (e *Engine) Header() *dom.Element { return e.header }
func (e *Engine) Footer() *dom.Element { return e.footer }

// Overview exposes the overview controller for renderers and pointer input.
func (e *Engine) Overview() *Overview { return e.overview }

// Help exposes the help controller for renderers.
func (e *Engine) Help() *Help { return e.help }

func (e *Engine) Mode() model.Mode {
	switch {
	case e.overview != nil && e.overview.IsActive():
		return model.ModeOverview
	case e.help != nil && e.help.IsVisible():
		return model.ModeHelp
	default:
		return model.ModeNormal
	}
}

// SetPluginEnabled pauses or resumes the named plugin. It reports false when no initialized
// plugin of that name supports toggling.
func (e *Engine) SetPluginEnabled(name string, on bool) bool {
	for _, p := range e.plugins {
		if p.Name() != name {
			continue
		}
		t, ok := p.(plugin.Toggler)
		if !ok {
			return false
		}
		t.SetEnabled(on)
		return true
	}
	return false
}

// TogglePlugins flips every toggleable plugin. When they disagree, all are enabled.
func (e *Engine) TogglePlugins() {
	var ts []plugin.Toggler
	allOn := true
	for _, p := range e.plugins {
		if t, ok := p.(plugin.Toggler); ok {
			ts = append(ts, t)
			allOn = allOn && t.IsEnabled()
		}
	}
	for _, t := range ts {
		t.SetEnabled(!allOn)
	}
}

// Plugins lists the successfully initialized plugins.
func (e *Engine) Plugins() []plugin.Plugin {
	return append([]plugin.Plugin(nil), e.plugins...)
}

func (e *Engine) On(event string, fn model.Listener) {
	if fn == nil || e.destroyed {
		return
	}
	e.listeners[event] = append(e.listeners[event], fn)
}

// Emit calls every listener of event in registration order. A panicking listener is logged and skipped.
func (e *Engine) Emit(event string, ev model.Event) {
	for _, fn := range append([]model.Listener(nil), e.listeners[event]...) {
		e.call(event, fn, ev)
	}
}

func (e *Engine) call(event string, fn model.Listener, ev model.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.WithField("event", event).Errorf("listener panicked: %v", rec)
		}
	}()
	fn(ev)
}

// Destroy detaches every listener, observer and timer and destroys plugins.
// The deck itself stays readable.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	if e.started {
		if e.overview.IsActive() {
			e.overview.Exit()
		}
		e.hash.Stop()
		e.layout.Stop()
		e.trans.Stop()
		e.help.Stop()
	}
	for i := len(e.plugins) - 1; i >= 0; i-- {
		plugin.SafeDestroy(e.plugins[i], e.log)
	}
	e.plugins = nil
	e.listeners = map[string][]model.Listener{}
}
