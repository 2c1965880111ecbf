// Package simulator plays hands with random dealers to exercise the betting
// engine and the table session end to end. Every hand is checked for chip
// conservation; a breach stops the run.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/dcthang03/hand-counter/internal/blinds"
	"github.com/dcthang03/hand-counter/internal/game"
	"github.com/dcthang03/hand-counter/internal/randutil"
	"github.com/dcthang03/hand-counter/internal/statistics"
	"github.com/dcthang03/hand-counter/internal/store"
	"github.com/dcthang03/hand-counter/internal/table"
)

// ErrConservation is returned when chips appear or disappear.
var ErrConservation = errors.New("chip conservation violated")

// maxActionsPerHand bounds a hand; exceeding it means a betting round did
// not terminate.
const maxActionsPerHand = 1000

// Config holds configuration for running simulations
type Config struct {
	Tables        int
	Hands         int // Per table
	Seats         int
	Seed          int64
	StartingStack int
	Blinds        game.Blinds
	ChipUnit      int
	MergeTiers    bool
	Store         table.Store // Shared by all tables; nil gives each table its own memory store
	Clock         quartz.Clock
	Logger        *log.Logger
}

// TableResult summarizes one simulated table.
type TableResult struct {
	Table   string
	Hands   int
	Actions int
	Undos   int
	Rebuys  int
	Chips   int // Chips on the table at the end, rebuys included
	Pots    statistics.Statistics
}

// Result is the outcome of a run.
type Result struct {
	Tables []TableResult
}

// Pots merges the pot statistics of every table.
func (r *Result) Pots() *statistics.Statistics {
	out := &statistics.Statistics{}
	for i := range r.Tables {
		out.Merge(&r.Tables[i].Pots)
	}
	return out
}

// Hands returns the total number of hands played.
func (r *Result) Hands() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Hands
	}
	return n
}

// Simulator runs random dealers
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Tables <= 0 {
		config.Tables = 1
	}
	if config.Seats < 2 {
		config.Seats = 6
	}
	if config.StartingStack <= 0 {
		config.StartingStack = 1000
	}
	if config.Blinds.Big == 0 {
		config.Blinds = game.Blinds{Small: 5, Big: 10}
	}
	if config.ChipUnit <= 0 {
		config.ChipUnit = 1
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run plays every table concurrently. Tables share nothing but the store.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	results := make([]TableResult, s.config.Tables)

	g, ctx := errgroup.WithContext(ctx)
	for i := range s.config.Tables {
		g.Go(func() error {
			res, err := s.runTable(ctx, i)
			if err != nil {
				return fmt.Errorf("table %d: %w", i+1, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Result{Tables: results}, nil
}

// dealer drives one table with random decisions.
type dealer struct {
	cfg    Config
	rng    *rand.Rand
	table  *table.Table
	logger *log.Logger
	res    TableResult
}

func (s *Simulator) runTable(ctx context.Context, index int) (TableResult, error) {
	id := fmt.Sprintf("sim-%d", index+1)
	seed := randutil.Derive(s.config.Seed, index)
	logger := s.config.Logger.With("table", id, "seed", seed)

	st := s.config.Store
	if st == nil {
		st = store.NewMemory()
	}
	b := s.config.Blinds
	tbl, err := table.New(table.Config{
		ID:            id,
		Seats:         s.config.Seats,
		ChipUnit:      s.config.ChipUnit,
		StartingStack: s.config.StartingStack,
		MergeTiers:    s.config.MergeTiers,
		Logger:        logger,
		Clock:         s.config.Clock,
	}, st, blinds.Fixed(b.Small, b.Big, b.Ante, b.Mode))
	if err != nil {
		return TableResult{}, err
	}

	d := &dealer{cfg: s.config, rng: randutil.New(seed), table: tbl, logger: logger}
	d.res.Table = id
	err = d.play(ctx)
	return d.res, err
}

func (d *dealer) play(ctx context.Context) error {
	for seat := 1; seat <= d.cfg.Seats; seat++ {
		player := game.PlayerID(fmt.Sprintf("%s-p%d", d.res.Table, seat))
		if err := d.table.Sit(ctx, seat, player); err != nil {
			return err
		}
	}
	if err := d.table.Open(ctx); err != nil {
		return err
	}
	d.res.Chips = d.tableChips()

	hand, err := d.table.StartHand(ctx)
	if err != nil {
		return err
	}
	for d.res.Hands < d.cfg.Hands {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.playHand(hand); err != nil {
			return fmt.Errorf("hand %d (%s): %w", d.res.Hands+1, d.table.HandID(), err)
		}

		next, err := d.table.FinishHand(ctx)
		if err != nil {
			return err
		}
		d.res.Hands++
		if got := d.tableChips(); got != d.res.Chips {
			return fmt.Errorf("%w: %d chips on the table, want %d", ErrConservation, got, d.res.Chips)
		}

		if next == nil {
			if err := d.rebuy(ctx); err != nil {
				return err
			}
			if next, err = d.table.StartHand(ctx); err != nil {
				return err
			}
		}
		hand = next
	}
	d.logger.Debug("table done", "hands", d.res.Hands, "actions", d.res.Actions)
	return d.res.Pots.Validate()
}

// playHand drives one hand from the deal until every pot is awarded.
func (d *dealer) playHand(h *game.Hand) error {
	chips := h.ChipsInPlay()

	for steps := 0; h.Street() != game.Showdown; steps++ {
		if steps > maxActionsPerHand {
			return fmt.Errorf("no showdown after %d actions", steps)
		}
		seat := h.ActingSeat()
		if seat == game.NoSeat {
			return fmt.Errorf("no seat to act on %s", h.Street())
		}

		if h.CanUndo() && d.rng.IntN(25) == 0 {
			if err := d.table.Undo(); err != nil {
				return err
			}
			d.res.Undos++
		} else {
			action, amount := d.decide(h, seat)
			if err := d.table.Act(seat, action, amount); err != nil {
				return fmt.Errorf("seat %d %s %d: %w", seat, action, amount, err)
			}
			d.res.Actions++
		}
		if got := h.ChipsInPlay(); got != chips {
			return fmt.Errorf("%w: %d chips in play, want %d", ErrConservation, got, chips)
		}
	}

	s := h.Settlement()
	d.res.Pots.Add(statistics.HandResult{
		Pot:      s.Total,
		BigBlind: h.Blinds().Big,
		Showdown: !h.Uncontested(),
		SidePots: max(0, len(s.Pots)-1),
		Refunded: s.Refunded,
	})
	return d.award(h, s)
}

// decide picks a legal action at random, weighted towards passive play so
// hands reach later streets.
func (d *dealer) decide(h *game.Hand, seat int) (game.Action, int) {
	state, _ := h.Seat(seat)
	toCall := h.ToCall(seat)
	roll := d.rng.IntN(100)

	switch {
	case roll < 3:
		return game.AllIn, 0
	case roll < 15 && toCall > 0:
		return game.Fold, 0
	case roll < 30:
		unit := h.ChipUnit()
		step := max(1, state.Stack/unit/8)
		amount := toCall + unit*(1+d.rng.IntN(step))
		if toCall == 0 {
			return game.Bet, amount
		}
		return game.Raise, amount
	case toCall == 0:
		return game.Check, 0
	default:
		return game.Call, 0
	}
}

// award hands each pot to a random non-empty set of its eligible seats.
func (d *dealer) award(h *game.Hand, s game.Settlement) error {
	seatOf := map[game.PlayerID]int{}
	for _, st := range h.Seats() {
		seatOf[st.Player] = st.Seat
	}

	awarded := h.Awarded()
	for i, pot := range s.Pots {
		if awarded[i] {
			continue
		}
		seats := make([]int, 0, len(pot.Eligible))
		for _, p := range pot.Eligible {
			seats = append(seats, seatOf[p])
		}
		d.rng.Shuffle(len(seats), func(a, b int) { seats[a], seats[b] = seats[b], seats[a] })

		n := 1
		if len(seats) > 1 && d.rng.IntN(5) == 0 {
			n = 1 + d.rng.IntN(len(seats))
		}
		winners := seats[:n]
		slices.Sort(winners)
		if err := d.table.Award(i, winners...); err != nil {
			return fmt.Errorf("award %s to %v: %w", pot.ID, winners, err)
		}
	}
	if !h.Settled() {
		return errors.New("pots left unassigned")
	}
	return nil
}

// rebuy tops up busted players so play can continue.
func (d *dealer) rebuy(ctx context.Context) error {
	for seat := 1; seat <= d.cfg.Seats; seat++ {
		player, ok := d.table.Player(seat)
		if !ok {
			continue
		}
		if stack, _ := d.table.Stack(player); stack > 0 {
			continue
		}
		if err := d.table.SetStack(ctx, seat, d.cfg.StartingStack); err != nil {
			return err
		}
		d.res.Rebuys++
		d.res.Chips += d.cfg.StartingStack
	}
	return nil
}

func (d *dealer) tableChips() int {
	total := 0
	for seat := 1; seat <= d.cfg.Seats; seat++ {
		if player, ok := d.table.Player(seat); ok {
			stack, _ := d.table.Stack(player)
			total += stack
		}
	}
	return total
}
