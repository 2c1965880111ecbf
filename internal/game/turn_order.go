package game

// NoSeat marks the absence of a seat. Seats are numbered from 1.
const NoSeat = 0

// SeatMap reports occupancy of the numbered seats 1..NumSeats.
type SeatMap interface {
	NumSeats() int
	IsOccupied(seat int) bool
}

// Seating is a fixed SeatMap.
type Seating struct {
	size     int
	occupied []bool
}

// NewSeating creates a seating of size seats with the given seats occupied.
// Seats outside 1..size are ignored.
func NewSeating(size int, occupied ...int) *Seating {
	s := &Seating{size: size, occupied: make([]bool, size+1)}
	for _, seat := range occupied {
		if seat >= 1 && seat <= size {
			s.occupied[seat] = true
		}
	}
	return s
}

func (s *Seating) NumSeats() int { return s.size }

func (s *Seating) IsOccupied(seat int) bool {
	return seat >= 1 && seat <= s.size && s.occupied[seat]
}

// Count returns the number of occupied seats.
func (s *Seating) Count() int {
	n := 0
	for _, o := range s.occupied {
		if o {
			n++
		}
	}
	return n
}

// clockwise returns the seat step places after seat, wrapping at n.
func clockwise(seat, step, n int) int {
	return ((seat-1+step)%n+n)%n + 1
}

// OccupiedClockwiseFrom lists occupied seats starting after seat and
// wrapping around; seat itself comes last if occupied.
func OccupiedClockwiseFrom(sm SeatMap, seat int) []int {
	n := sm.NumSeats()
	if n <= 0 {
		return nil
	}
	out := make([]int, 0, n)
	for step := 1; step <= n; step++ {
		s := clockwise(seat, step, n)
		if sm.IsOccupied(s) {
			out = append(out, s)
		}
	}
	return out
}

// NextOccupiedSeat returns the first occupied seat after seat, or NoSeat.
func NextOccupiedSeat(sm SeatMap, seat int) int {
	occ := OccupiedClockwiseFrom(sm, seat)
	if len(occ) == 0 {
		return NoSeat
	}
	return occ[0]
}

// BlindSeats returns the small and big blind seats for a button position.
//
// With three or more seats the small blind is the first occupied seat
// clockwise of the button and the big blind the second. Heads-up the
// button itself posts the small blind and the other seat the big blind.
func BlindSeats(sm SeatMap, button int) (sb, bb int) {
	occ := OccupiedClockwiseFrom(sm, button)
	switch {
	case len(occ) < 2:
		return NoSeat, NoSeat
	case len(occ) == 2 && sm.IsOccupied(button):
		return button, occ[0]
	default:
		return occ[0], occ[1]
	}
}

// IsHeadsUp reports whether exactly two seats are occupied.
func IsHeadsUp(sm SeatMap) bool {
	n := 0
	for seat := 1; seat <= sm.NumSeats(); seat++ {
		if sm.IsOccupied(seat) {
			n++
		}
	}
	return n == 2
}

// SmallBlindSeat returns the seat posting the small blind.
func SmallBlindSeat(sm SeatMap, button int) int {
	sb, _ := BlindSeats(sm, button)
	return sb
}

// BigBlindSeat returns the seat posting the big blind.
func BigBlindSeat(sm SeatMap, button int) int {
	_, bb := BlindSeats(sm, button)
	return bb
}

// FirstToActPreflop is the seat after the big blind (UTG), or the small
// blind when heads-up.
func FirstToActPreflop(sm SeatMap, button int) int {
	occ := OccupiedClockwiseFrom(sm, button)
	if len(occ) < 2 {
		return NoSeat
	}
	sb, _ := BlindSeats(sm, button)
	if len(occ) == 2 {
		return sb
	}
	return occ[2]
}

// FirstToActPostflop is the small blind, or the big blind when heads-up.
func FirstToActPostflop(sm SeatMap, button int) int {
	occ := OccupiedClockwiseFrom(sm, button)
	if len(occ) < 2 {
		return NoSeat
	}
	sb, bb := BlindSeats(sm, button)
	if len(occ) == 2 {
		return bb
	}
	return sb
}

// NextActingSeat returns the next occupied seat clockwise of from that
// satisfies canAct, or NoSeat if none does. from itself is checked last.
func NextActingSeat(sm SeatMap, from int, canAct func(seat int) bool) int {
	for _, seat := range OccupiedClockwiseFrom(sm, from) {
		if canAct(seat) {
			return seat
		}
	}
	return NoSeat
}

// FirstActingFrom is like NextActingSeat but considers seat itself first.
func FirstActingFrom(sm SeatMap, seat int, canAct func(seat int) bool) int {
	if sm.IsOccupied(seat) && canAct(seat) {
		return seat
	}
	return NextActingSeat(sm, seat, canAct)
}
