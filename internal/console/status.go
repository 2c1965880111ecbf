package console

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dcthang03/hand-counter/internal/game"
	"github.com/dcthang03/hand-counter/internal/table"
)

func (c *Console) printStatus() {
	fmt.Fprintln(c.out, c.renderStatus())
}

// renderStatus lists every occupied seat with its stack and, during a hand,
// its chips in front and state.
func (c *Console) renderStatus() string {
	var b strings.Builder
	h := c.table.Hand()

	header := fmt.Sprintf("%s  button %d  hands %d", c.table.ID(), c.table.Button(), c.table.HandNumber())
	if h != nil {
		bl := h.Blinds()
		header += fmt.Sprintf("  %s  blinds %d/%d", h.Street(), bl.Small, bl.Big)
		if bl.Ante > 0 {
			header += fmt.Sprintf(" ante %d", bl.Ante)
		}
	}
	b.WriteString(c.styles.Header.Render(header))
	b.WriteByte('\n')

	for seat := 1; seat <= c.table.NumSeats(); seat++ {
		player, ok := c.table.Player(seat)
		if !ok {
			continue
		}
		line := c.seatLine(h, seat, player)
		if h != nil && h.ActingSeat() == seat {
			line = c.styles.Acting.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if h != nil {
		b.WriteString(c.styles.Pot.Render(fmt.Sprintf("pot %d, to match %d", h.TotalPot(), h.Target())))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Console) seatLine(h *game.Hand, seat int, player game.PlayerID) string {
	var marks []string
	if seat == c.table.Button() {
		marks = append(marks, "D")
	}
	if h == nil {
		stack, _ := c.table.Stack(player)
		return fmt.Sprintf("%2d %-12s %8d %s", seat, player, stack, strings.Join(marks, " "))
	}

	s, dealt := h.Seat(seat)
	if !dealt {
		return c.styles.Muted.Render(fmt.Sprintf("%2d %-12s %8s sitting out", seat, player, "-"))
	}
	switch seat {
	case h.SmallBlindSeat():
		marks = append(marks, "SB")
	case h.BigBlindSeat():
		marks = append(marks, "BB")
	}
	switch {
	case !s.InHand:
		marks = append(marks, "folded")
	case s.IsAllIn():
		marks = append(marks, "all-in")
	case h.ActingSeat() == seat:
		marks = append(marks, "to act")
	}
	return fmt.Sprintf("%2d %-12s %8d %6d %s", seat, player, s.Stack, s.CommittedThisStreet, strings.Join(marks, " "))
}

// printPots shows the settlement at showdown, or the running pot before it.
func (c *Console) printPots() error {
	h := c.table.Hand()
	if h == nil {
		return table.ErrNoHand
	}
	if h.Street() != game.Showdown {
		fmt.Fprintln(c.out, c.styles.Pot.Render(fmt.Sprintf("pot %d (%d swept)", h.TotalPot(), h.Pot())))
		return nil
	}

	s := h.Settlement()
	awarded := h.Awarded()
	for i, p := range s.Pots {
		line := fmt.Sprintf("%d %s", i, c.formatter.FormatPot(p))
		if i < len(awarded) && awarded[i] {
			line = c.styles.Muted.Render(line + " (awarded)")
		} else {
			line = c.styles.Pot.Render(line)
		}
		fmt.Fprintln(c.out, line)
	}
	for _, player := range slices.Sorted(maps.Keys(s.Refunds)) {
		fmt.Fprintln(c.out, c.styles.Muted.Render(fmt.Sprintf("returned %d to %s", s.Refunds[player], player)))
	}
	return nil
}
