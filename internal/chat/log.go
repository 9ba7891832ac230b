package chat

import "sync"

// Log is the message log a Controller renders into. Implementations are only
// ever called from the goroutine the Controller dispatches onto.
type Log interface {
	// Append adds e after every existing entry. Text is plain content.
	Append(e Entry)
	// ScrollToEnd brings the most recent entry into view.
	ScrollToEnd()
}

// MemoryLog is an in-memory Log. It records the scroll position as an entry
// index so callers can check the view is anchored at the bottom.
type MemoryLog struct {
	mu      sync.Mutex
	entries []Entry
	scroll  int
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (m *MemoryLog) Append(e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
}

func (m *MemoryLog) ScrollToEnd() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scroll = m.maxScroll()
}

// Entries returns a copy of the log in insertion order.
func (m *MemoryLog) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Scroll returns the current scroll position and its maximum.
func (m *MemoryLog) Scroll() (pos, max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scroll, m.maxScroll()
}

func (m *MemoryLog) maxScroll() int {
	if len(m.entries) == 0 {
		return 0
	}
	return len(m.entries) - 1
}
