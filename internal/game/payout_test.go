package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		amount  int
		winners []int
		button  int
		seats   int
		unit    int
		want    []Payout
	}{
		{
			name:    "single winner takes all",
			amount:  500,
			winners: []int{3},
			button:  1, seats: 6, unit: 25,
			want: []Payout{{Seat: 3, Amount: 500}},
		},
		{
			name:    "odd chip to first seat after button",
			amount:  101,
			winners: []int{2, 5},
			button:  3, seats: 6, unit: 1,
			want: []Payout{{Seat: 5, Amount: 51}, {Seat: 2, Amount: 50}},
		},
		{
			name:    "odd chip when winner is on the button",
			amount:  101,
			winners: []int{3, 4},
			button:  3, seats: 6, unit: 1,
			want: []Payout{{Seat: 4, Amount: 51}, {Seat: 3, Amount: 50}},
		},
		{
			name:    "remainder in chip units",
			amount:  1000,
			winners: []int{1, 2, 3},
			button:  6, seats: 6, unit: 25,
			want: []Payout{{Seat: 1, Amount: 350}, {Seat: 2, Amount: 325}, {Seat: 3, Amount: 325}},
		},
		{
			name:    "sub-unit leftover to first winner",
			amount:  110,
			winners: []int{4, 2},
			button:  1, seats: 4, unit: 25,
			want: []Payout{{Seat: 2, Amount: 60}, {Seat: 4, Amount: 50}},
		},
		{
			name:    "non-positive unit treated as one",
			amount:  7,
			winners: []int{1, 2},
			button:  2, seats: 2, unit: 0,
			want: []Payout{{Seat: 1, Amount: 4}, {Seat: 2, Amount: 3}},
		},
		{
			name:    "empty pot",
			amount:  0,
			winners: []int{1, 2},
			button:  1, seats: 2, unit: 5,
			want: []Payout{{Seat: 2, Amount: 0}, {Seat: 1, Amount: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := SplitPot(tt.amount, tt.winners, tt.button, tt.seats, tt.unit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			sum := 0
			for _, p := range got {
				sum += p.Amount
			}
			assert.Equal(t, tt.amount, sum)
		})
	}
}

func TestSplitPotConservation(t *testing.T) {
	t.Parallel()

	winnerSets := [][]int{{1}, {1, 2}, {2, 5, 7}, {1, 3, 4, 6, 8}, {1, 2, 3, 4, 5, 6, 7, 8, 9}}
	for amount := 0; amount <= 300; amount += 7 {
		for _, unit := range []int{1, 5, 25, 100} {
			for button := 1; button <= 9; button++ {
				for _, winners := range winnerSets {
					payouts, err := SplitPot(amount, winners, button, 9, unit)
					if err != nil {
						t.Fatalf("SplitPot(%d, %v, %d, 9, %d): %v", amount, winners, button, unit, err)
					}
					sum := 0
					for _, p := range payouts {
						sum += p.Amount
					}
					if sum != amount {
						t.Fatalf("SplitPot(%d, %v, %d, 9, %d) distributed %d", amount, winners, button, unit, sum)
					}
				}
			}
		}
	}
}

func TestSplitPotErrors(t *testing.T) {
	t.Parallel()

	_, err := SplitPot(100, nil, 1, 6, 1)
	assert.True(t, errors.Is(err, ErrNoWinners))

	_, err = SplitPot(100, []int{2, 2}, 1, 6, 1)
	assert.Error(t, err)

	_, err = SplitPot(100, []int{7}, 1, 6, 1)
	assert.Error(t, err)

	_, err = SplitPot(-1, []int{1}, 1, 6, 1)
	assert.Error(t, err)
}
