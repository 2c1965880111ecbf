// Package table runs hands at one physical table: who sits where, where the
// button is, and what every player has behind. Finished hands are committed
// to a store before the button moves.
package table

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/dcthang03/hand-counter/internal/game"
	"github.com/dcthang03/hand-counter/internal/handid"
	"github.com/dcthang03/hand-counter/internal/store"
)

var (
	// ErrPersistence wraps a store failure while finishing a hand. The table
	// is unchanged and FinishHand may be retried.
	ErrPersistence = errors.New("persisting hand failed")

	// ErrHandRestarted is returned when the blinds changed before the first
	// action. The hand was dealt again at the new level and the action was not
	// applied.
	ErrHandRestarted = errors.New("blinds changed, hand restarted")

	ErrNotOpen        = errors.New("table not open")
	ErrNoHand         = errors.New("no hand in progress")
	ErrHandInProgress = errors.New("hand in progress")
	ErrInvalidSeat    = errors.New("invalid seat")
	ErrSeatTaken      = errors.New("seat taken")
	ErrAlreadySeated  = errors.New("player already seated")
	ErrSeatInHand     = errors.New("seat is in the current hand")
)

// Store is the chip ledger and button store a table needs.
type Store interface {
	Stack(ctx context.Context, player game.PlayerID) (int, bool, error)
	SetStack(ctx context.Context, player game.PlayerID, stack int) error
	Table(ctx context.Context, tableID string) (store.TableState, bool, error)
	CommitHand(ctx context.Context, rec store.HandRecord) error
}

// BlindSource reports the blinds for the next hand.
type BlindSource interface {
	Current() game.Blinds
}

// IDSource names hands.
type IDSource interface {
	New() (string, error)
}

// Config configures a Table.
type Config struct {
	ID            string
	Seats         int
	ChipUnit      int
	StartingStack int // Buy-in for players the store does not know
	HistoryLimit  int
	MergeTiers    bool

	Logger *log.Logger
	Bus    game.EventBus
	Clock  quartz.Clock
	IDs    IDSource
}

// Table is one dealer's table. It is driven by a single dealer and is not
// safe for concurrent use.
type Table struct {
	cfg    Config
	store  Store
	blinds BlindSource
	logger *log.Logger

	players []game.PlayerID // Indexed by seat; empty when vacant
	stacks  map[game.PlayerID]int

	opened     bool
	button     int
	handNumber int64 // Last committed hand
	lastHandID string

	hand       *game.Hand
	handID     string
	handBlinds game.Blinds
}

// New creates a table. Open must be called before the first hand.
func New(cfg Config, st Store, blinds BlindSource) (*Table, error) {
	if cfg.ID == "" {
		return nil, errors.New("table id is required")
	}
	if cfg.Seats < 2 {
		return nil, fmt.Errorf("table %s: need at least 2 seats, got %d", cfg.ID, cfg.Seats)
	}
	if st == nil || blinds == nil {
		return nil, errors.New("table needs a store and a blind source")
	}
	if cfg.ChipUnit <= 0 {
		cfg.ChipUnit = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Bus == nil {
		cfg.Bus = game.NewEventBus()
	}
	if cfg.IDs == nil {
		cfg.IDs = handid.NewGenerator(cfg.Clock, nil)
	}

	return &Table{
		cfg:     cfg,
		store:   st,
		blinds:  blinds,
		logger:  cfg.Logger.With("table", cfg.ID),
		players: make([]game.PlayerID, cfg.Seats+1),
		stacks:  map[game.PlayerID]int{},
		button:  1,
	}, nil
}

// NumSeats implements game.SeatMap.
func (t *Table) NumSeats() int { return t.cfg.Seats }

// IsOccupied implements game.SeatMap.
func (t *Table) IsOccupied(seat int) bool {
	return seat >= 1 && seat <= t.cfg.Seats && t.players[seat] != ""
}

// Sit seats player and loads their stack, buying them in at the starting
// stack if the store has never seen them.
func (t *Table) Sit(ctx context.Context, seat int, player game.PlayerID) error {
	switch {
	case seat < 1 || seat > t.cfg.Seats:
		return fmt.Errorf("%w: %d", ErrInvalidSeat, seat)
	case player == "":
		return errors.New("player name is required")
	case t.IsOccupied(seat):
		return fmt.Errorf("%w: seat %d has %s", ErrSeatTaken, seat, t.players[seat])
	}
	for s, p := range t.players {
		if p == player {
			return fmt.Errorf("%w: %s is in seat %d", ErrAlreadySeated, player, s)
		}
	}

	stack, ok, err := t.store.Stack(ctx, player)
	if err != nil {
		return fmt.Errorf("load stack of %s: %w", player, err)
	}
	if !ok {
		stack = t.cfg.StartingStack
		if err := t.store.SetStack(ctx, player, stack); err != nil {
			return fmt.Errorf("buy in %s: %w", player, err)
		}
	}

	t.players[seat] = player
	t.stacks[player] = stack
	t.logger.Info("seated", "seat", seat, "player", player, "stack", stack)
	return nil
}

// Leave vacates a seat. A seat dealt into the current hand cannot leave
// until the hand is finished.
func (t *Table) Leave(seat int) error {
	if !t.IsOccupied(seat) {
		return fmt.Errorf("%w: seat %d is empty", ErrInvalidSeat, seat)
	}
	if t.hand != nil {
		if _, dealt := t.hand.Seat(seat); dealt {
			return fmt.Errorf("%w: seat %d", ErrSeatInHand, seat)
		}
	}
	player := t.players[seat]
	t.players[seat] = ""
	delete(t.stacks, player)
	t.logger.Info("left", "seat", seat, "player", player)
	return nil
}

// SetStack sets a seated player's stack between hands, as for a rebuy.
func (t *Table) SetStack(ctx context.Context, seat, stack int) error {
	player, ok := t.Player(seat)
	if !ok {
		return fmt.Errorf("%w: seat %d is empty", ErrInvalidSeat, seat)
	}
	if stack < 0 {
		return fmt.Errorf("negative stack %d", stack)
	}
	if t.hand != nil {
		if _, dealt := t.hand.Seat(seat); dealt {
			return fmt.Errorf("%w: seat %d", ErrSeatInHand, seat)
		}
	}
	if err := t.store.SetStack(ctx, player, stack); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	t.stacks[player] = stack
	t.logger.Info("stack set", "seat", seat, "player", player, "stack", stack)
	return nil
}

// Open loads the button and refreshes every seated stack from the store.
func (t *Table) Open(ctx context.Context) error {
	state, ok, err := t.store.Table(ctx, t.cfg.ID)
	if err != nil {
		return fmt.Errorf("load table %s: %w", t.cfg.ID, err)
	}
	if ok {
		t.button = state.Button
		t.handNumber = state.HandNumber
		t.lastHandID = state.LastHandID
	}
	if t.button < 1 || t.button > t.cfg.Seats {
		t.button = 1
	}

	seats := make([]int, 0, t.cfg.Seats)
	for seat := 1; seat <= t.cfg.Seats; seat++ {
		if t.IsOccupied(seat) {
			seats = append(seats, seat)
		}
	}
	loaded := make([]int, len(seats))
	g, gctx := errgroup.WithContext(ctx)
	for i, seat := range seats {
		player := t.players[seat]
		g.Go(func() error {
			stack, ok, err := t.store.Stack(gctx, player)
			if err != nil {
				return fmt.Errorf("load stack of %s: %w", player, err)
			}
			if !ok {
				stack = t.stacks[player]
			}
			loaded[i] = stack
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, seat := range seats {
		t.stacks[t.players[seat]] = loaded[i]
	}

	t.settleButton()
	t.opened = true
	t.logger.Info("opened", "button", t.button, "hands", t.handNumber, "players", len(seats))
	return nil
}

// StartHand deals a new hand at the current blinds.
func (t *Table) StartHand(ctx context.Context) (*game.Hand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !t.opened {
		return nil, ErrNotOpen
	}
	if t.hand != nil {
		return nil, ErrHandInProgress
	}

	id, err := t.cfg.IDs.New()
	if err != nil {
		return nil, fmt.Errorf("new hand id: %w", err)
	}
	t.settleButton()
	blinds := t.blinds.Current()
	hand, err := t.deal(blinds)
	if err != nil {
		return nil, err
	}

	t.hand = hand
	t.handID = id
	t.handBlinds = blinds
	t.logger.Info("hand started", "hand", t.handNumber+1, "id", id, "button", t.button,
		"small", blinds.Small, "big", blinds.Big, "ante", blinds.Ante)
	return hand, nil
}

// settleButton moves a button left on an empty seat to the next occupied
// seat. Players may sit after Open, so it runs again before every deal.
func (t *Table) settleButton() {
	if t.IsOccupied(t.button) {
		return
	}
	if next := game.NextOccupiedSeat(t, t.button); next != game.NoSeat {
		t.logger.Debug("button moved off empty seat", "from", t.button, "to", next)
		t.button = next
	}
}

func (t *Table) deal(blinds game.Blinds) (*game.Hand, error) {
	entrants := make([]game.Entrant, 0, t.cfg.Seats)
	for seat := 1; seat <= t.cfg.Seats; seat++ {
		if player := t.players[seat]; player != "" {
			entrants = append(entrants, game.Entrant{Seat: seat, Player: player, Stack: t.stacks[player]})
		}
	}

	return game.NewHand(t.cfg.Seats, t.button, entrants, blinds,
		game.WithLogger(t.logger),
		game.WithEventBus(t.cfg.Bus),
		game.WithClock(t.cfg.Clock),
		game.WithChipUnit(t.cfg.ChipUnit),
		game.WithHistoryLimit(t.cfg.HistoryLimit),
		game.WithPotOptions(game.WithTierMerge(t.cfg.MergeTiers)),
	)
}

// SyncBlinds deals the current hand again if the blind level changed before
// anything happened in it. It reports whether the hand was restarted.
func (t *Table) SyncBlinds() (bool, error) {
	if t.hand == nil || t.hand.ActionCount() > 0 || t.hand.CanUndo() {
		return false, nil
	}
	blinds := t.blinds.Current()
	if blinds == t.handBlinds {
		return false, nil
	}

	hand, err := t.deal(blinds)
	if err != nil {
		return false, err
	}
	t.logger.Info("blinds changed, hand restarted", "id", t.handID,
		"small", blinds.Small, "big", blinds.Big, "ante", blinds.Ante)
	t.hand = hand
	t.handBlinds = blinds
	return true, nil
}

// Act applies an action to the current hand.
func (t *Table) Act(seat int, action game.Action, amount int) error {
	if t.hand == nil {
		return ErrNoHand
	}
	restarted, err := t.SyncBlinds()
	if err != nil {
		return err
	}
	if restarted {
		return ErrHandRestarted
	}
	return t.hand.Act(seat, action, amount)
}

// Undo reverts the last action or award of the current hand.
func (t *Table) Undo() error {
	if t.hand == nil {
		return ErrNoHand
	}
	return t.hand.Undo()
}

// Award assigns settlement pot index to the winning seats.
func (t *Table) Award(pot int, seats ...int) error {
	if t.hand == nil {
		return ErrNoHand
	}
	return t.hand.AwardPot(pot, seats...)
}

// FinishHand commits a settled hand and deals the next one. Stacks, the
// next button and the hand log entry are written in one store call; if it
// fails the error wraps ErrPersistence and nothing at the table changes.
//
// The returned hand is nil when too few players remain to deal.
func (t *Table) FinishHand(ctx context.Context) (*game.Hand, error) {
	if t.hand == nil {
		return nil, ErrNoHand
	}
	if !t.hand.Settled() {
		return nil, game.ErrHandNotSettled
	}

	next := game.NextOccupiedSeat(t, t.button)
	if next == game.NoSeat {
		next = t.button
	}
	rec := store.HandRecord{
		TableID:    t.cfg.ID,
		HandID:     t.handID,
		HandNumber: t.handNumber + 1,
		Button:     t.button,
		NextButton: next,
		Pot:        t.hand.Settlement().Total,
		Stacks:     t.hand.Stacks(),
		FinishedAt: t.cfg.Clock.Now(),
	}
	if err := t.store.CommitHand(ctx, rec); err != nil {
		t.logger.Error("commit failed", "hand", rec.HandNumber, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	maps.Copy(t.stacks, rec.Stacks)
	t.button = next
	t.handNumber = rec.HandNumber
	t.lastHandID = rec.HandID
	t.hand = nil
	t.handID = ""
	t.logger.Info("hand finished", "hand", rec.HandNumber, "pot", rec.Pot, "button", next)

	hand, err := t.StartHand(ctx)
	if errors.Is(err, game.ErrNotEnoughPlayers) {
		t.logger.Info("waiting for players")
		return nil, nil
	}
	return hand, err
}

// Hand returns the hand in progress, or nil.
func (t *Table) Hand() *game.Hand { return t.hand }

// HandID returns the id of the hand in progress.
func (t *Table) HandID() string { return t.handID }

// HandNumber returns the number of committed hands.
func (t *Table) HandNumber() int64 { return t.handNumber }

// LastHandID returns the id of the last committed hand.
func (t *Table) LastHandID() string { return t.lastHandID }

// Button returns the dealer button seat.
func (t *Table) Button() int { return t.button }

// ID returns the table id.
func (t *Table) ID() string { return t.cfg.ID }

// Bus returns the event bus hands publish to.
func (t *Table) Bus() game.EventBus { return t.cfg.Bus }

// Player returns the player in seat.
func (t *Table) Player(seat int) (game.PlayerID, bool) {
	if !t.IsOccupied(seat) {
		return "", false
	}
	return t.players[seat], true
}

// Stack returns a seated player's stack between hands.
func (t *Table) Stack(player game.PlayerID) (int, bool) {
	stack, ok := t.stacks[player]
	return stack, ok
}
