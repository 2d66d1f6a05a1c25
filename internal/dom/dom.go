// Package dom is a small in-memory element tree standing in for the browser document.
//
// It keeps exactly what the deck engine needs from a DOM: inline styles, classes, attributes,
// an opaque inner HTML string, click handlers, a forced layout read and mutation observers.
// Observers are notified synchronously after each mutation; writing a style or attribute to
// the value it already has is not a mutation.
package dom

import (
	"strings"
	"time"
)

type Document struct {
	body      *Element
	observers []*Observer
	now       func() time.Time

	layouts  int
	scrolled *Element
}

// NewDocument creates an empty document. now stamps style transitions; nil uses time.Now.
func NewDocument(now func() time.Time) *Document {
	if now == nil {
		now = time.Now
	}
	d := &Document{now: now}
	d.body = d.CreateElement("body")
	d.body.connected = true
	return d
}

func (d *Document) Body() *Element { return d.body }

func (d *Document) CreateElement(tag string) *Element {
	return &Element{
		doc:    d,
		tag:    strings.ToLower(strings.TrimSpace(tag)),
		styles: map[string]string{},
		attrs:  map[string]string{},
	}
}

// GetElementByID searches the connected tree.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	return d.body.Find(func(e *Element) bool { return e.id == id })
}

// LayoutCount reports how many synchronous layouts (reflows) were forced.
func (d *Document) LayoutCount() int { return d.layouts }

// LastScrolledIntoView returns the element of the most recent ScrollIntoView call.
func (d *Document) LastScrolledIntoView() *Element { return d.scrolled }

// Element is a node of the tree. The zero value is not usable; use Document.CreateElement.
type Element struct {
	doc       *Document
	tag       string
	id        string
	classes   []string
	styles    map[string]string
	attrs     map[string]string
	text      string
	html      string
	parent    *Element
	children  []*Element
	connected bool
	onClick   []func()

	transitions map[string]StyleChange
}

// StyleChange records a style write made while the element had a transition style set.
type StyleChange struct {
	From       string
	To         string
	At         time.Time
	Transition string
}

func (e *Element) Document() *Document { return e.doc }
func (e *Element) Tag() string         { return e.tag }
func (e *Element) ID() string          { return e.id }
func (e *Element) Parent() *Element    { return e.parent }
func (e *Element) IsConnected() bool   { return e.connected }

func (e *Element) SetID(id string) {
	if e.id == id {
		return
	}
	old := e.id
	e.id = id
	e.doc.notify(MutationRecord{Type: MutationAttributes, Target: e, AttributeName: "id", OldValue: old})
}

func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

func (e *Element) Text() string { return e.text }

func (e *Element) SetText(s string) {
	if e.text == s {
		return
	}
	e.text = s
	e.doc.notify(MutationRecord{Type: MutationChildList, Target: e})
}

// HTML returns the opaque inner markup.
func (e *Element) HTML() string { return e.html }

func (e *Element) SetHTML(s string) {
	if e.html == s {
		return
	}
	e.html = s
	e.doc.notify(MutationRecord{Type: MutationChildList, Target: e})
}

func (e *Element) Attr(name string) string { return e.attrs[name] }

func (e *Element) SetAttr(name, value string) {
	old, ok := e.attrs[name]
	if ok && old == value {
		return
	}
	e.attrs[name] = value
	e.doc.notify(MutationRecord{Type: MutationAttributes, Target: e, AttributeName: name, OldValue: old})
}

func (e *Element) RemoveAttr(name string) {
	old, ok := e.attrs[name]
	if !ok {
		return
	}
	delete(e.attrs, name)
	e.doc.notify(MutationRecord{Type: MutationAttributes, Target: e, AttributeName: name, OldValue: old})
}

// Style returns the inline value of prop, or "".
func (e *Element) Style(prop string) string { return e.styles[prop] }

// SetStyle writes one inline style property. An empty value removes it.
func (e *Element) SetStyle(prop, value string) {
	old := e.styles[prop]
	if old == value {
		return
	}
	if value == "" {
		delete(e.styles, prop)
	} else {
		e.styles[prop] = value
	}
	if tr := e.styles["transition"]; tr != "" && prop != "transition" {
		if e.transitions == nil {
			e.transitions = map[string]StyleChange{}
		}
		e.transitions[prop] = StyleChange{From: old, To: value, At: e.doc.now(), Transition: tr}
	} else if prop != "transition" {
		delete(e.transitions, prop)
	}
	e.doc.notify(MutationRecord{Type: MutationAttributes, Target: e, AttributeName: "style", OldValue: old})
}

// SetStyles writes several properties; each change is its own mutation record.
func (e *Element) SetStyles(props map[string]string) {
	for _, k := range sortedKeys(props) {
		e.SetStyle(k, props[k])
	}
}

// ClearStyles removes the given inline properties.
func (e *Element) ClearStyles(props ...string) {
	for _, p := range props {
		e.SetStyle(p, "")
	}
}

// Transition returns the last transitioned write of prop, if any.
func (e *Element) Transition(prop string) (StyleChange, bool) {
	c, ok := e.transitions[prop]
	return c, ok
}

func (e *Element) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

func (e *Element) HasClass(name string) bool {
	for _, c := range e.classes {
		if c == name {
			return true
		}
	}
	return false
}

func (e *Element) AddClass(names ...string) {
	changed := false
	old := strings.Join(e.classes, " ")
	for _, n := range names {
		if n == "" || e.HasClass(n) {
			continue
		}
		e.classes = append(e.classes, n)
		changed = true
	}
	if changed {
		e.doc.notify(MutationRecord{Type: MutationAttributes, Target: e, AttributeName: "class", OldValue: old})
	}
}

func (e *Element) RemoveClass(names ...string) {
	old := strings.Join(e.classes, " ")
	kept := e.classes[:0]
	for _, c := range e.classes {
		if !contains(names, c) {
			kept = append(kept, c)
		}
	}
	e.classes = kept
	if strings.Join(e.classes, " ") != old {
		e.doc.notify(MutationRecord{Type: MutationAttributes, Target: e, AttributeName: "class", OldValue: old})
	}
}

// ToggleClass adds name when on is true and removes it otherwise.
func (e *Element) ToggleClass(name string, on bool) {
	if on {
		e.AddClass(name)
		return
	}
	e.RemoveClass(name)
}

func (e *Element) AppendChild(c *Element) {
	if c == nil || c == e {
		return
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = e
	e.children = append(e.children, c)
	c.setConnected(e.connected)
	e.doc.notify(MutationRecord{Type: MutationChildList, Target: e, Added: []*Element{c}})
}

func (e *Element) RemoveChild(c *Element) {
	for i, ch := range e.children {
		if ch != c {
			continue
		}
		e.children = append(e.children[:i], e.children[i+1:]...)
		c.parent = nil
		c.setConnected(false)
		e.doc.notify(MutationRecord{Type: MutationChildList, Target: e, Removed: []*Element{c}})
		return
	}
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

// RemoveChildren detaches every child.
func (e *Element) RemoveChildren() {
	for len(e.children) > 0 {
		e.RemoveChild(e.children[len(e.children)-1])
	}
}

func (e *Element) setConnected(v bool) {
	e.connected = v
	for _, c := range e.children {
		c.setConnected(v)
	}
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Find returns the first element (depth-first, including e) matching pred.
func (e *Element) Find(pred func(*Element) bool) *Element {
	if pred(e) {
		return e
	}
	for _, c := range e.children {
		if f := c.Find(pred); f != nil {
			return f
		}
	}
	return nil
}

// FindAll returns every matching element in document order, including e.
func (e *Element) FindAll(pred func(*Element) bool) []*Element {
	var out []*Element
	e.walk(func(n *Element) {
		if pred(n) {
			out = append(out, n)
		}
	})
	return out
}

// ByClass returns descendants (and e) carrying class name.
func (e *Element) ByClass(name string) []*Element {
	return e.FindAll(func(n *Element) bool { return n.HasClass(name) })
}

func (e *Element) walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.children {
		c.walk(fn)
	}
}

func (e *Element) OnClick(fn func()) {
	if fn != nil {
		e.onClick = append(e.onClick, fn)
	}
}

// Click runs the element's click handlers.
func (e *Element) Click() {
	for _, fn := range append([]func(){}, e.onClick...) {
		fn()
	}
}

func (e *Element) ScrollIntoView() {
	e.doc.scrolled = e
}

// OffsetHeight forces a synchronous layout, committing pending style writes before later ones.
func (e *Element) OffsetHeight() int {
	e.doc.layouts++
	if e.Style("display") == "none" {
		return 0
	}
	return 1
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
