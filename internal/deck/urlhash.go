package deck

import (
	"regexp"
	"strconv"

	"deck-cli/internal/location"
)

var hashPattern = regexp.MustCompile(`^#(?:slide-)?(\d+)$`)

// ParseHash reads "#n" or "#slide-n" (1-based) into a 0-based index.
func ParseHash(hash string) (int, bool) {
	m := hashPattern.FindStringSubmatch(hash)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

// FormatHash is the inverse of ParseHash for the "#n" form.
func FormatHash(index int) string {
	return "#" + strconv.Itoa(index+1)
}

// HashSync mirrors the current index into the location fragment and back.
type HashSync struct {
	enabled  bool
	loc      location.Location
	navigate func(int)

	unsubscribe func()
}

func NewHashSync(enabled bool, loc location.Location, navigate func(int)) *HashSync {
	return &HashSync{enabled: enabled && loc != nil, loc: loc, navigate: navigate}
}

func (h *HashSync) Enabled() bool { return h.enabled }

// Read returns the index encoded in the current fragment.
func (h *HashSync) Read() (int, bool) {
	if !h.enabled {
		return 0, false
	}
	return ParseHash(h.loc.Hash())
}

// Write replaces the fragment only when it differs, so no hash change loop starts.
func (h *HashSync) Write(index int) {
	if !h.enabled {
		return
	}
	want := FormatHash(index)
	if h.loc.Hash() == want {
		return
	}
	h.loc.ReplaceHash(want)
}

func (h *HashSync) Start() {
	if !h.enabled || h.unsubscribe != nil {
		return
	}
	h.unsubscribe = h.loc.OnHashChange(func(hash string) {
		if i, ok := ParseHash(hash); ok && h.navigate != nil {
			h.navigate(i)
		}
	})
}

func (h *HashSync) Stop() {
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
}
