package game

import "testing"

func TestHistoryLIFO(t *testing.T) {
	t.Parallel()

	h := NewHistory[int](0)
	for i := 1; i <= 5; i++ {
		h.Push(i)
	}
	if h.Len() != 5 {
		t.Fatalf("Len = %d, want 5", h.Len())
	}
	if top, _ := h.Peek(); top != 5 {
		t.Errorf("Peek = %d, want 5", top)
	}
	for want := 5; want >= 1; want-- {
		got, ok := h.Pop()
		if !ok || got != want {
			t.Fatalf("Pop = %d, %v; want %d", got, ok, want)
		}
	}
	if _, ok := h.Pop(); ok {
		t.Error("Pop on empty history succeeded")
	}
}

func TestHistoryLimitDropsOldest(t *testing.T) {
	t.Parallel()

	h := NewHistory[string](2)
	h.Push("a")
	h.Push("b")
	h.Push("c")

	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}
	if got, _ := h.Pop(); got != "c" {
		t.Errorf("Pop = %q, want c", got)
	}
	if got, _ := h.Pop(); got != "b" {
		t.Errorf("Pop = %q, want b", got)
	}
}

func TestHistoryClear(t *testing.T) {
	t.Parallel()

	h := NewHistory[int](3)
	h.Push(1)
	h.Push(2)
	h.Clear()
	if h.Len() != 0 {
		t.Errorf("Len after Clear = %d", h.Len())
	}
	if _, ok := h.Peek(); ok {
		t.Error("Peek after Clear succeeded")
	}
}
