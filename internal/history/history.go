// Package history keeps a bounded ring of whole-canvas snapshots for undo.
package history

import (
	"fmt"

	pimage "magic-paint/internal/image"
)

// DefaultCapacity is the number of checkpoints kept.
const DefaultCapacity = 20

// Entry is one checkpoint: every layer's buffer encoded at the same instant,
// keyed by layer id.
type Entry map[string][]byte

// Manager is a fixed-capacity ring buffer of entries. The oldest entry is
// evicted when a capture arrives at capacity. The oldest surviving entry is
// the undo floor.
type Manager struct {
	entries []Entry
	start   int // index of the oldest entry
	count   int
}

// New creates a Manager holding at most capacity entries.
func New(capacity int) *Manager {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Manager{entries: make([]Entry, capacity)}
}

// Cap returns the capacity.
func (m *Manager) Cap() int {
	return len(m.entries)
}

// Len returns the number of entries held.
func (m *Manager) Len() int {
	return m.count
}

// Capture snapshots every layer into a new entry. Nothing is recorded if any
// layer fails to encode, so entries are never partial.
func (m *Manager) Capture(layers []*pimage.Layer) error {
	e := make(Entry, len(layers))
	for _, l := range layers {
		data, err := l.Buffer.Encode()
		if err != nil {
			return fmt.Errorf("capture layer %q: %w", l.ID, err)
		}
		e[l.ID] = data
	}
	m.push(e)
	return nil
}

func (m *Manager) push(e Entry) {
	capacity := len(m.entries)
	if m.count == capacity {
		m.entries[m.start] = e
		m.start = (m.start + 1) % capacity
		return
	}
	m.entries[(m.start+m.count)%capacity] = e
	m.count++
}

// Latest returns the newest entry.
func (m *Manager) Latest() (Entry, bool) {
	if m.count == 0 {
		return nil, false
	}
	return m.entries[(m.start+m.count-1)%len(m.entries)], true
}

// Undo drops the newest entry and restores every layer from the one before
// it. With one entry or fewer it does nothing and reports false. Layers
// missing from the entry (added after it was taken) are left as they are.
func (m *Manager) Undo(layers []*pimage.Layer) (bool, error) {
	if m.count <= 1 {
		return false, nil
	}
	newest := (m.start + m.count - 1) % len(m.entries)
	m.entries[newest] = nil
	m.count--

	e, _ := m.Latest()
	if err := Restore(e, layers); err != nil {
		return true, err
	}
	return true, nil
}

// Restore writes an entry back into the layers it covers.
func Restore(e Entry, layers []*pimage.Layer) error {
	for _, l := range layers {
		data, ok := e[l.ID]
		if !ok {
			continue
		}
		if err := l.Buffer.Decode(data); err != nil {
			return fmt.Errorf("restore layer %q: %w", l.ID, err)
		}
	}
	return nil
}

// Reset discards every entry and seeds the history with the current state,
// which becomes the new undo floor.
func (m *Manager) Reset(layers []*pimage.Layer) error {
	clear(m.entries)
	m.start, m.count = 0, 0
	return m.Capture(layers)
}
