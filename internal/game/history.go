package game

// History is a bounded LIFO of state snapshots used for undo.
// Snapshots must be deep copies; History stores them as given.
type History[T any] struct {
	items []T
	limit int
}

// NewHistory creates a history keeping at most limit snapshots. When full,
// the oldest snapshot is discarded. A limit of zero or less is unbounded.
func NewHistory[T any](limit int) *History[T] {
	return &History[T]{limit: limit}
}

// Push records a snapshot.
func (h *History[T]) Push(snapshot T) {
	if h.limit > 0 && len(h.items) == h.limit {
		var zero T
		h.items[0] = zero
		h.items = h.items[1:]
	}
	h.items = append(h.items, snapshot)
}

// Pop removes and returns the most recent snapshot.
func (h *History[T]) Pop() (T, bool) {
	var zero T
	if len(h.items) == 0 {
		return zero, false
	}
	last := h.items[len(h.items)-1]
	h.items[len(h.items)-1] = zero
	h.items = h.items[:len(h.items)-1]
	return last, true
}

// Peek returns the most recent snapshot without removing it.
func (h *History[T]) Peek() (T, bool) {
	if len(h.items) == 0 {
		var zero T
		return zero, false
	}
	return h.items[len(h.items)-1], true
}

// Len returns the number of snapshots held.
func (h *History[T]) Len() int {
	return len(h.items)
}

// Clear drops every snapshot.
func (h *History[T]) Clear() {
	clear(h.items)
	h.items = h.items[:0]
}
