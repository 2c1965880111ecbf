package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dcthang03/hand-counter/internal/game"
)

// PotsCmd is a one-shot pot calculator.
type PotsCmd struct {
	Commitments []string `arg:"" help:"Player commitments as NAME=CHIPS, suffix :folded for folded players"`
	NoMerge     bool     `help:"Keep adjacent tiers with the same eligible players apart"`
}

func (c *PotsCmd) Run(g *Globals) error {
	contributions, err := parseContributions(c.Commitments)
	if err != nil {
		return err
	}

	s, err := game.BuildPots(contributions, game.WithTierMerge(!c.NoMerge))
	if err != nil {
		return err
	}
	fmt.Println(formatSettlement(s))
	return nil
}

// parseContributions reads NAME=CHIPS[:folded] arguments.
func parseContributions(args []string) ([]game.Contribution, error) {
	out := make([]game.Contribution, 0, len(args))
	seen := map[string]bool{}
	for _, arg := range args {
		name, rest, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid commitment %q, want NAME=CHIPS", arg)
		}
		if seen[name] {
			return nil, fmt.Errorf("player %s listed twice", name)
		}
		seen[name] = true

		chips, flag, _ := strings.Cut(rest, ":")
		folded := false
		switch flag {
		case "":
		case "folded", "f":
			folded = true
		default:
			return nil, fmt.Errorf("invalid flag %q in %q", flag, arg)
		}

		n, err := strconv.Atoi(chips)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid chips in %q", arg)
		}
		out = append(out, game.Contribution{Player: game.PlayerID(name), Committed: n, Folded: folded})
	}
	return out, nil
}

func formatSettlement(s game.Settlement) string {
	f := game.NewEventFormatter(game.FormattingOptions{})

	var b strings.Builder
	for _, p := range s.Pots {
		b.WriteString(f.FormatPot(p))
		b.WriteByte('\n')
	}
	for _, c := range sortedRefunds(s.Refunds) {
		fmt.Fprintf(&b, "refund %s %d\n", c.Player, c.Committed)
	}
	fmt.Fprintf(&b, "total %d", s.Total)
	if s.Refunded > 0 {
		fmt.Fprintf(&b, ", returned %d", s.Refunded)
	}
	return b.String()
}

func sortedRefunds(refunds map[game.PlayerID]int) []game.Contribution {
	out := make([]game.Contribution, 0, len(refunds))
	for p, n := range refunds {
		out = append(out, game.Contribution{Player: p, Committed: n})
	}
	slices.SortFunc(out, func(a, b game.Contribution) int {
		return strings.Compare(string(a.Player), string(b.Player))
	})
	return out
}
