// Package statistics summarizes pot sizes over many hands.
package statistics

import (
	"fmt"
	"math"
	"slices"
)

// bigPotBB is the size, in big blinds, from which a pot counts as big.
const bigPotBB = 50

// HandResult is what a finished hand contributes to the summary.
type HandResult struct {
	Pot      int  // Chips contested, refunds excluded
	BigBlind int  // Big blind the hand was played at
	Showdown bool // False when everyone else folded
	SidePots int  // Pots beyond the main pot
	Refunded int  // Uncalled chips returned
}

// Statistics accumulates pot sizes in big blinds.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64   // Sum of squares for variance calculation
	Values []float64 // Store all values for median/percentile calculation

	Showdowns     int
	Uncontested   int
	ShowdownBB    float64
	UncontestedBB float64

	SidePots int
	Refunded int

	MaxPotChips int
	MaxPotBB    float64
	BigPots     int // Pots of at least 50bb
}

// Add incorporates a new hand result into the statistics
func (s *Statistics) Add(result HandResult) {
	potBB := 0.0
	if result.BigBlind > 0 {
		potBB = float64(result.Pot) / float64(result.BigBlind)
	}
	s.Hands++
	s.SumBB += potBB
	s.SumBB2 += potBB * potBB
	s.Values = append(s.Values, potBB)

	if result.Showdown {
		s.Showdowns++
		s.ShowdownBB += potBB
	} else {
		s.Uncontested++
		s.UncontestedBB += potBB
	}
	s.SidePots += result.SidePots
	s.Refunded += result.Refunded

	if result.Pot > s.MaxPotChips {
		s.MaxPotChips = result.Pot
		s.MaxPotBB = potBB
	}
	if potBB >= bigPotBB {
		s.BigPots++
	}
}

// Merge adds other's hands to s.
func (s *Statistics) Merge(other *Statistics) {
	s.Hands += other.Hands
	s.SumBB += other.SumBB
	s.SumBB2 += other.SumBB2
	s.Values = append(s.Values, other.Values...)
	s.Showdowns += other.Showdowns
	s.Uncontested += other.Uncontested
	s.ShowdownBB += other.ShowdownBB
	s.UncontestedBB += other.UncontestedBB
	s.SidePots += other.SidePots
	s.Refunded += other.Refunded
	if other.MaxPotChips > s.MaxPotChips {
		s.MaxPotChips = other.MaxPotChips
		s.MaxPotBB = other.MaxPotBB
	}
	s.BigPots += other.BigPots
}

// Mean returns the average pot in big blinds
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of pot sizes
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of pot sizes
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(0, s.Variance()))
}

// Median returns the median pot in big blinds
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks that the counters agree with each other
func (s *Statistics) Validate() error {
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)",
			len(s.Values), s.Hands)
	}
	if s.Showdowns+s.Uncontested != s.Hands {
		return fmt.Errorf("showdowns (%d) and uncontested (%d) do not add up to %d hands",
			s.Showdowns, s.Uncontested, s.Hands)
	}
	if math.Abs(s.SumBB-s.ShowdownBB-s.UncontestedBB) > 1e-6 {
		return fmt.Errorf("pot totals mismatch: all=%.6f, showdown=%.6f, uncontested=%.6f",
			s.SumBB, s.ShowdownBB, s.UncontestedBB)
	}
	return nil
}
