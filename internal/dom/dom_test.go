package dom

import (
	"testing"
	"time"
)

func TestSetStyle_SameValueIsNotAMutation(t *testing.T) {
	d := NewDocument(nil)
	el := d.CreateElement("div")
	d.Body().AppendChild(el)

	var n int
	obs := d.NewObserver(func(recs []MutationRecord, _ *Observer) { n += len(recs) })
	obs.Observe(d.Body(), ObserveOptions{Subtree: true, Attributes: true, AttributeFilter: []string{"style"}})

	el.SetStyle("display", "block")
	el.SetStyle("display", "block")
	if n != 1 {
		t.Fatalf("expected 1 record; got %d", n)
	}
	el.SetStyle("display", "")
	if n != 2 || el.Style("display") != "" {
		t.Fatalf("expected removal to be recorded; n=%d display=%q", n, el.Style("display"))
	}
}

func TestObserver_FilterAndSubtree(t *testing.T) {
	d := NewDocument(nil)
	container := d.CreateElement("div")
	d.Body().AppendChild(container)
	child := d.CreateElement("section")
	container.AppendChild(child)

	var types []MutationType
	obs := d.NewObserver(func(recs []MutationRecord, _ *Observer) {
		for _, r := range recs {
			types = append(types, r.Type)
		}
	})
	obs.Observe(container, ObserveOptions{ChildList: true, Attributes: true, AttributeFilter: []string{"style"}})

	child.SetStyle("opacity", "1") // not subtree: ignored
	child.AddClass("x")           // not subtree: ignored
	container.AppendChild(d.CreateElement("p"))
	if len(types) != 1 || types[0] != MutationChildList {
		t.Fatalf("expected one childList record; got %v", types)
	}

	obs.Observe(container, ObserveOptions{ChildList: true, Subtree: true, Attributes: true, AttributeFilter: []string{"style"}})
	child.SetStyle("opacity", "0")
	child.AddClass("y") // filtered out
	if len(types) != 2 || types[1] != MutationAttributes {
		t.Fatalf("expected subtree style record; got %v", types)
	}

	obs.Disconnect()
	child.SetStyle("opacity", "1")
	if len(types) != 2 {
		t.Fatalf("expected no records after disconnect; got %v", types)
	}
}

func TestRemoveDisconnectsSubtree(t *testing.T) {
	d := NewDocument(nil)
	panel := d.CreateElement("div")
	inner := d.CreateElement("span")
	panel.AppendChild(inner)
	if panel.IsConnected() || inner.IsConnected() {
		t.Fatalf("expected detached elements before append")
	}
	d.Body().AppendChild(panel)
	if !inner.IsConnected() {
		t.Fatalf("expected descendant to be connected")
	}
	panel.SetID("panel")
	if d.GetElementByID("panel") != panel {
		t.Fatalf("expected lookup by id")
	}
	panel.Remove()
	if inner.IsConnected() || d.GetElementByID("panel") != nil {
		t.Fatalf("expected removed subtree to be disconnected")
	}
}

func TestTransitionIsRecordedOnlyWithTransitionStyle(t *testing.T) {
	now := time.Unix(100, 0)
	d := NewDocument(func() time.Time { return now })
	el := d.CreateElement("section")

	el.SetStyle("transform", "translateX(100%)")
	if _, ok := el.Transition("transform"); ok {
		t.Fatalf("expected no transition without a transition style")
	}
	el.SetStyle("transition", "transform 500ms ease")
	el.SetStyle("transform", "translateX(0)")
	c, ok := el.Transition("transform")
	if !ok || c.From != "translateX(100%)" || c.To != "translateX(0)" || !c.At.Equal(now) {
		t.Fatalf("unexpected transition record: %+v ok=%v", c, ok)
	}
	el.SetStyle("transition", "")
	el.SetStyle("transform", "")
	if _, ok := el.Transition("transform"); ok {
		t.Fatalf("expected reset write to clear transition record")
	}
}

func TestClassesAndClick(t *testing.T) {
	d := NewDocument(nil)
	el := d.CreateElement("div")
	el.AddClass("a", "b", "a")
	el.ToggleClass("b", false)
	el.ToggleClass("c", true)
	if got := el.Classes(); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("unexpected classes: %v", got)
	}
	clicks := 0
	el.OnClick(func() { clicks++ })
	el.Click()
	if clicks != 1 {
		t.Fatalf("expected click handler to run once; got %d", clicks)
	}
}
