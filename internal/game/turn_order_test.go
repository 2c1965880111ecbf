package game

import (
	"slices"
	"testing"
)

func TestOccupiedClockwiseFrom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		seating  *Seating
		from     int
		expected []int
	}{
		{"wraps around", NewSeating(6, 1, 3, 5), 3, []int{5, 1, 3}},
		{"from empty seat", NewSeating(6, 1, 3, 5), 4, []int{5, 1, 3}},
		{"from last seat", NewSeating(9, 2, 9), 9, []int{2, 9}},
		{"nobody seated", NewSeating(6), 1, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := OccupiedClockwiseFrom(tt.seating, tt.from)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("OccupiedClockwiseFrom(%d) = %v, want %v", tt.from, got, tt.expected)
			}
		})
	}
}

func TestBlindSeatsAndFirstToAct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		seating  *Seating
		button   int
		sb, bb   int
		preflop  int
		postflop int
	}{
		{"three handed", NewSeating(9, 2, 5, 8), 2, 5, 8, 2, 5},
		{"six handed wraps", NewSeating(6, 1, 2, 3, 4, 5, 6), 5, 6, 1, 2, 6},
		{"button on empty seat", NewSeating(9, 1, 4, 7), 3, 4, 7, 1, 4},
		{"heads-up button low seat", NewSeating(9, 3, 7), 3, 3, 7, 3, 7},
		{"heads-up button high seat", NewSeating(9, 3, 7), 7, 7, 3, 7, 3},
		{"heads-up adjacent seats", NewSeating(2, 1, 2), 2, 2, 1, 2, 1},
		{"heads-up button on empty seat", NewSeating(9, 3, 7), 5, 7, 3, 7, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sb, bb := BlindSeats(tt.seating, tt.button)
			if sb != tt.sb || bb != tt.bb {
				t.Errorf("BlindSeats = (%d, %d), want (%d, %d)", sb, bb, tt.sb, tt.bb)
			}
			if got := SmallBlindSeat(tt.seating, tt.button); got != tt.sb {
				t.Errorf("SmallBlindSeat = %d, want %d", got, tt.sb)
			}
			if got := BigBlindSeat(tt.seating, tt.button); got != tt.bb {
				t.Errorf("BigBlindSeat = %d, want %d", got, tt.bb)
			}
			if got := FirstToActPreflop(tt.seating, tt.button); got != tt.preflop {
				t.Errorf("FirstToActPreflop = %d, want %d", got, tt.preflop)
			}
			if got := FirstToActPostflop(tt.seating, tt.button); got != tt.postflop {
				t.Errorf("FirstToActPostflop = %d, want %d", got, tt.postflop)
			}
		})
	}
}

func TestHeadsUpReversal(t *testing.T) {
	t.Parallel()

	// Both seatings of the same two players.
	for _, button := range []int{4, 8} {
		seating := NewSeating(9, 4, 8)
		other := 12 - button

		if !IsHeadsUp(seating) {
			t.Fatal("expected heads-up")
		}
		sb, bb := BlindSeats(seating, button)
		if sb != button || bb != other {
			t.Errorf("button %d: blinds (%d, %d), want button as small blind", button, sb, bb)
		}
		if got := FirstToActPreflop(seating, button); got != sb {
			t.Errorf("button %d: preflop first = %d, want small blind %d", button, got, sb)
		}
		if got := FirstToActPostflop(seating, button); got != bb {
			t.Errorf("button %d: postflop first = %d, want big blind %d", button, got, bb)
		}
	}
}

func TestBlindSeatsNeedTwoPlayers(t *testing.T) {
	t.Parallel()

	seating := NewSeating(6, 2)
	sb, bb := BlindSeats(seating, 2)
	if sb != NoSeat || bb != NoSeat {
		t.Errorf("BlindSeats with one player = (%d, %d)", sb, bb)
	}
	if got := FirstToActPreflop(seating, 2); got != NoSeat {
		t.Errorf("FirstToActPreflop with one player = %d", got)
	}
}

func TestNextActingSeat(t *testing.T) {
	t.Parallel()

	seating := NewSeating(6, 1, 2, 4, 6)
	allIn := map[int]bool{2: true, 6: true}
	canAct := func(seat int) bool { return !allIn[seat] }

	if got := NextActingSeat(seating, 1, canAct); got != 4 {
		t.Errorf("NextActingSeat(1) = %d, want 4", got)
	}
	if got := NextActingSeat(seating, 4, canAct); got != 1 {
		t.Errorf("NextActingSeat(4) = %d, want 1", got)
	}
	if got := FirstActingFrom(seating, 4, canAct); got != 4 {
		t.Errorf("FirstActingFrom(4) = %d, want 4", got)
	}
	if got := FirstActingFrom(seating, 2, canAct); got != 4 {
		t.Errorf("FirstActingFrom(2) = %d, want 4", got)
	}
	if got := NextActingSeat(seating, 1, func(int) bool { return false }); got != NoSeat {
		t.Errorf("NextActingSeat with nobody able = %d, want NoSeat", got)
	}
}

func TestSeatingCount(t *testing.T) {
	t.Parallel()

	s := NewSeating(4, 1, 3, 9, 0)
	if s.Count() != 2 {
		t.Errorf("Count = %d, want 2", s.Count())
	}
	if s.IsOccupied(9) || s.IsOccupied(0) {
		t.Error("seats out of range reported occupied")
	}
}
