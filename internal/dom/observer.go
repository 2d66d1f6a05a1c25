package dom

import "sort"

type MutationType string

const (
	MutationChildList  MutationType = "childList"
	MutationAttributes MutationType = "attributes"
)

type MutationRecord struct {
	Type          MutationType
	Target        *Element
	AttributeName string
	OldValue      string
	Added         []*Element
	Removed       []*Element
}

type ObserveOptions struct {
	ChildList  bool
	Subtree    bool
	Attributes bool
	// AttributeFilter limits attribute records to these names. Empty means all.
	AttributeFilter []string
}

type Observer struct {
	doc     *Document
	fn      func([]MutationRecord, *Observer)
	targets map[*Element]ObserveOptions
}

func (d *Document) NewObserver(fn func([]MutationRecord, *Observer)) *Observer {
	return &Observer{doc: d, fn: fn, targets: map[*Element]ObserveOptions{}}
}

func (o *Observer) Observe(target *Element, opts ObserveOptions) {
	if target == nil {
		return
	}
	if len(o.targets) == 0 {
		o.doc.observers = append(o.doc.observers, o)
	}
	o.targets[target] = opts
}

func (o *Observer) Disconnect() {
	if len(o.targets) == 0 {
		return
	}
	o.targets = map[*Element]ObserveOptions{}
	kept := o.doc.observers[:0]
	for _, x := range o.doc.observers {
		if x != o {
			kept = append(kept, x)
		}
	}
	o.doc.observers = kept
}

func (o *Observer) matches(rec MutationRecord) bool {
	for target, opts := range o.targets {
		if rec.Target != target && !(opts.Subtree && target.Contains(rec.Target)) {
			continue
		}
		switch rec.Type {
		case MutationChildList:
			if opts.ChildList {
				return true
			}
		case MutationAttributes:
			if !opts.Attributes {
				continue
			}
			if len(opts.AttributeFilter) == 0 || contains(opts.AttributeFilter, rec.AttributeName) {
				return true
			}
		}
	}
	return false
}

func (d *Document) notify(rec MutationRecord) {
	if len(d.observers) == 0 {
		return
	}
	for _, o := range append([]*Observer{}, d.observers...) {
		if o.matches(rec) {
			o.fn([]MutationRecord{rec}, o)
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
