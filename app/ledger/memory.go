package ledger

import "sync"

// MemoryLedger keeps the same bounded, most-recent-wins semantics as
// FileLedger without touching disk.
type MemoryLedger struct {
	maxEntries int

	mu    sync.Mutex
	order []string
	seen  map[string]struct{}
}

func NewMemory(maxEntries int, urls ...string) *MemoryLedger {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	m := &MemoryLedger{maxEntries: maxEntries, seen: make(map[string]struct{})}
	for _, u := range urls {
		m.Record(u)
	}
	return m
}

func (m *MemoryLedger) Contains(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.seen[url]
	return ok
}

func (m *MemoryLedger) Record(url string) error {
	if url == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seen[url] = struct{}{}
	m.order = append(m.order, url)
	return nil
}

func (m *MemoryLedger) Trim() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.order) <= m.maxEntries {
		return nil
	}

	m.order = append([]string(nil), m.order[len(m.order)-m.maxEntries:]...)
	m.seen = make(map[string]struct{}, len(m.order))
	for _, u := range m.order {
		m.seen[u] = struct{}{}
	}
	return nil
}

func (m *MemoryLedger) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.seen)
}

// Entries returns the recorded URLs, oldest first.
func (m *MemoryLedger) Entries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.order...)
}
