// Package location models the address bar fragment the deck mirrors its position into.
package location

// Location is the part of window.location + history the deck uses.
type Location interface {
	Hash() string
	// ReplaceHash rewrites the fragment without firing hash change listeners.
	ReplaceHash(hash string)
	// OnHashChange registers fn and returns a function that unregisters it.
	OnHashChange(fn func(hash string)) (unsubscribe func())
}

// Memory is an in-process Location. Navigate simulates the user editing the fragment.
type Memory struct {
	hash      string
	nextID    int
	listeners map[int]func(string)
	order     []int
	replaces  int
}

func NewMemory(initial string) *Memory {
	return &Memory{hash: normalize(initial), listeners: map[int]func(string){}}
}

func (m *Memory) Hash() string { return m.hash }

func (m *Memory) ReplaceHash(hash string) {
	m.hash = normalize(hash)
	m.replaces++
}

// ReplaceCount reports how many times ReplaceHash was called.
func (m *Memory) ReplaceCount() int { return m.replaces }

// Navigate sets the fragment and fires listeners when it changed.
func (m *Memory) Navigate(hash string) {
	hash = normalize(hash)
	if hash == m.hash {
		return
	}
	m.hash = hash
	for _, id := range append([]int{}, m.order...) {
		if fn, ok := m.listeners[id]; ok {
			fn(hash)
		}
	}
}

func (m *Memory) OnHashChange(fn func(string)) func() {
	m.nextID++
	id := m.nextID
	m.listeners[id] = fn
	m.order = append(m.order, id)
	return func() {
		delete(m.listeners, id)
		for i, x := range m.order {
			if x == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
}

// ListenerCount reports the registered hash change listeners.
func (m *Memory) ListenerCount() int { return len(m.listeners) }

func normalize(h string) string {
	if h == "" || h == "#" {
		return ""
	}
	if h[0] != '#' {
		return "#" + h
	}
	return h
}
