// Package game implements the chip accounting for one hand of live no-limit
// Texas Hold'em run by a human dealer.
//
// The main type is Hand, which owns the per-hand state of every dealt-in seat,
// decides when a betting round is complete and advances the street. Cards
// are never seen: the dealer enters actions and declares winners.
//
// # Basic Usage
//
//	h, err := game.NewHand(9, button, []game.Entrant{
//	    {Seat: 1, Player: "alice", Stack: 1000},
//	    {Seat: 4, Player: "bob", Stack: 1000},
//	    {Seat: 7, Player: "carol", Stack: 400},
//	}, game.Blinds{Small: 5, Big: 10})
//	// Act on the acting seat...
//	err = h.Call(h.ActingSeat())
//	// At showdown, award each pot
//	for i := range h.Settlement().Pots {
//	    err = h.AwardPot(i, winnerSeat)
//	}
//
// # Architecture
//
// Hand composes small pure pieces that can be used on their own:
//   - BuildPots: partitions committed chips into main and side pots plus refunds
//   - TurnOrder helpers: blind seats and first to act, including heads-up
//   - SplitPot: divides a pot between winners with odd chips by seat order
//   - History: snapshot stack backing Undo
//
// Every action funnels through a single commit step so chip conservation is
// enforced in one place.
package game
