package game

import (
	"fmt"
	"maps"
	"slices"
)

// Contribution is one player's total commitment for a hand.
type Contribution struct {
	Player    PlayerID
	Committed int
	Folded    bool
}

// Pot represents a pot (main or side)
type Pot struct {
	ID       string     // "main", "side1", "side2", ...
	Amount   int        // Chips in the pot
	Eligible []PlayerID // Players who can win it, in contribution order
}

// IsEligible reports whether player may be awarded this pot.
func (p Pot) IsEligible(player PlayerID) bool {
	return slices.Contains(p.Eligible, player)
}

// Settlement is the result of partitioning a hand's commitments.
type Settlement struct {
	Pots     []Pot
	Refunds  map[PlayerID]int // Uncalled excess returned to its owner
	Total    int              // Sum of all pot amounts
	Refunded int              // Sum of all refunds
}

// Clone returns a deep copy of the settlement.
func (s Settlement) Clone() Settlement {
	out := Settlement{
		Pots:     make([]Pot, len(s.Pots)),
		Refunds:  maps.Clone(s.Refunds),
		Total:    s.Total,
		Refunded: s.Refunded,
	}
	if out.Refunds == nil {
		out.Refunds = map[PlayerID]int{}
	}
	for i, p := range s.Pots {
		out.Pots[i] = Pot{ID: p.ID, Amount: p.Amount, Eligible: slices.Clone(p.Eligible)}
	}
	return out
}

// PotOption configures BuildPots.
type PotOption func(*potConfig)

type potConfig struct {
	mergeTiers bool
}

// WithTierMerge controls whether adjacent tiers with an identical eligible
// set are merged into a single pot. Merging is on by default.
func WithTierMerge(enabled bool) PotOption {
	return func(c *potConfig) {
		c.mergeTiers = enabled
	}
}

// BuildPots partitions committed chips into a main pot and side pots.
//
// Distinct commitment levels are walked from lowest to highest. Each level
// contributes (level - previous) chips from every player committed at least
// that much. A tier reached by a single player is an uncalled excess and is
// refunded to that player. A tier whose contributors all folded is dead money.
// It joins the nearest pot below it. With no pot below, every contributor has
// folded, so each gets back its share of the dead tiers. Contesting players
// only shrink as the level rises, so a pot never forms above a dead tier.
//
// BuildPots is pure. It returns ErrPotConservation if the chips in pots and
// refunds do not add up to the chips committed.
func BuildPots(contributions []Contribution, opts ...PotOption) (Settlement, error) {
	cfg := potConfig{mergeTiers: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	result := Settlement{Refunds: map[PlayerID]int{}}

	live := make([]Contribution, 0, len(contributions))
	committed := 0
	for _, c := range contributions {
		if c.Player == "" || c.Committed <= 0 {
			continue
		}
		live = append(live, c)
		committed += c.Committed
	}
	if len(live) == 0 {
		return result, nil
	}

	levels := make([]int, 0, len(live))
	for _, c := range live {
		levels = append(levels, c.Committed)
	}
	slices.Sort(levels)
	levels = slices.Compact(levels)

	var tiers []Pot
	deadBy := map[PlayerID]int{}
	prev := 0

	for _, level := range levels {
		delta := level - prev
		prev = level

		contesting := make([]Contribution, 0, len(live))
		for _, c := range live {
			if c.Committed >= level {
				contesting = append(contesting, c)
			}
		}
		amount := delta * len(contesting)

		if len(contesting) == 1 {
			result.Refunds[contesting[0].Player] += amount
			result.Refunded += amount
			continue
		}

		eligible := make([]PlayerID, 0, len(contesting))
		for _, c := range contesting {
			if !c.Folded {
				eligible = append(eligible, c.Player)
			}
		}

		if len(eligible) == 0 {
			if len(tiers) > 0 {
				tiers[len(tiers)-1].Amount += amount
				continue
			}
			for _, c := range contesting {
				deadBy[c.Player] += delta
			}
			continue
		}

		tiers = append(tiers, Pot{Amount: amount, Eligible: eligible})
	}

	for player, amount := range deadBy {
		result.Refunds[player] += amount
		result.Refunded += amount
	}

	if cfg.mergeTiers {
		tiers = mergeTiers(tiers)
	}

	for i := range tiers {
		tiers[i].ID = potID(i)
		result.Total += tiers[i].Amount
	}
	result.Pots = tiers

	if result.Total+result.Refunded != committed {
		return result, fmt.Errorf("%w: pots %d + refunds %d != committed %d",
			ErrPotConservation, result.Total, result.Refunded, committed)
	}

	return result, nil
}

func mergeTiers(tiers []Pot) []Pot {
	merged := make([]Pot, 0, len(tiers))
	for _, t := range tiers {
		if n := len(merged); n > 0 && slices.Equal(merged[n-1].Eligible, t.Eligible) {
			merged[n-1].Amount += t.Amount
			continue
		}
		merged = append(merged, t)
	}
	return merged
}

func potID(i int) string {
	if i == 0 {
		return "main"
	}
	return fmt.Sprintf("side%d", i)
}
