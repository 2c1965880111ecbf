package game

import (
	"fmt"
	"slices"
)

// Payout is what one winner receives from a pot.
type Payout struct {
	Seat   int
	Amount int
}

// SplitPot divides amount between the winning seats.
//
// Every winner gets floor(amount/k) rounded down to a multiple of unit, the
// smallest chip in play. The remaining whole units go one each to winners in
// seat order starting with the seat immediately clockwise of the button. A
// sub-unit leftover goes to the first winner in that order. The payouts sum
// to amount exactly and are returned in that order.
func SplitPot(amount int, winners []int, button, numSeats, unit int) ([]Payout, error) {
	if len(winners) == 0 {
		return nil, ErrNoWinners
	}
	if amount < 0 {
		return nil, fmt.Errorf("negative pot amount %d", amount)
	}
	if numSeats <= 0 {
		return nil, fmt.Errorf("invalid seat count %d", numSeats)
	}
	if unit <= 0 {
		unit = 1
	}

	ordered := slices.Clone(winners)
	slices.SortFunc(ordered, func(a, b int) int {
		return clockwiseDistance(button, a, numSeats) - clockwiseDistance(button, b, numSeats)
	})
	for i := 1; i < len(ordered); i++ {
		if ordered[i] == ordered[i-1] {
			return nil, fmt.Errorf("seat %d declared twice", ordered[i])
		}
	}
	for _, seat := range ordered {
		if seat < 1 || seat > numSeats {
			return nil, fmt.Errorf("winner seat %d out of range", seat)
		}
	}

	k := len(ordered)
	share := (amount / k) / unit * unit
	remainder := amount - share*k
	units := remainder / unit
	leftover := remainder % unit

	payouts := make([]Payout, k)
	for i, seat := range ordered {
		payouts[i] = Payout{Seat: seat, Amount: share}
		if i < units {
			payouts[i].Amount += unit
		}
	}
	payouts[0].Amount += leftover

	return payouts, nil
}

// clockwiseDistance counts steps from the seat after button to seat: the
// seat immediately clockwise of the button is 0 and the button is n-1.
func clockwiseDistance(button, seat, n int) int {
	return ((seat-button-1)%n + n) % n
}
