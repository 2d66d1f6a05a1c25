package deck

// MemorySession is a SessionState that lives as long as the caller keeps it.
// Reusing one value across engines resumes at the last viewed slide.
type MemorySession struct {
	index int
	set   bool
}

func (m *MemorySession) LastSlide() (int, bool) { return m.index, m.set }

func (m *MemorySession) SetLastSlide(i int) {
	m.index = i
	m.set = true
}
