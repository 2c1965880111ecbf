// Package store keeps chip stacks, the dealer button and the hand log between
// sessions.
//
// Every backend commits a finished hand in one step: the final stacks, the
// next button and the hand log entry become visible together or not at all.
// Committing the same record twice leaves the store as a single commit does.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dcthang03/hand-counter/internal/game"
)

// Backend drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrInvalidRecord is returned for hand records that cannot be committed.
var ErrInvalidRecord = errors.New("invalid hand record")

// TableState is the persisted position of a table.
type TableState struct {
	Button     int    `json:"button"`
	HandNumber int64  `json:"hand_number"`
	LastHandID string `json:"last_hand_id"`
}

// HandRecord is everything committed when a hand finishes.
type HandRecord struct {
	TableID    string                `json:"table_id"`
	HandID     string                `json:"hand_id"`
	HandNumber int64                 `json:"hand_number"`
	Button     int                   `json:"button"`      // Button of the finished hand
	NextButton int                   `json:"next_button"` // Button for the next hand
	Pot        int                   `json:"pot"`
	Stacks     map[game.PlayerID]int `json:"stacks"`
	FinishedAt time.Time             `json:"finished_at"`
}

// Validate checks the record before anything is written.
func (r HandRecord) Validate() error {
	switch {
	case r.TableID == "":
		return fmt.Errorf("%w: missing table id", ErrInvalidRecord)
	case r.HandNumber <= 0:
		return fmt.Errorf("%w: hand number %d", ErrInvalidRecord, r.HandNumber)
	case r.NextButton <= 0:
		return fmt.Errorf("%w: next button %d", ErrInvalidRecord, r.NextButton)
	}
	for player, stack := range r.Stacks {
		if player == "" || stack < 0 {
			return fmt.Errorf("%w: stack %d for %q", ErrInvalidRecord, stack, player)
		}
	}
	return nil
}

// State returns the table state the record leaves behind.
func (r HandRecord) State() TableState {
	return TableState{Button: r.NextButton, HandNumber: r.HandNumber, LastHandID: r.HandID}
}

func (r HandRecord) clone() HandRecord {
	r.Stacks = maps.Clone(r.Stacks)
	return r
}

// Backend is implemented by every store.
type Backend interface {
	// Stack returns a player's stack. ok is false for unknown players.
	Stack(ctx context.Context, player game.PlayerID) (stack int, ok bool, err error)
	// SetStack records a player's stack outside of a hand, such as a buy-in.
	SetStack(ctx context.Context, player game.PlayerID, stack int) error
	// Table returns a table's persisted state. ok is false for new tables.
	Table(ctx context.Context, tableID string) (state TableState, ok bool, err error)
	// CommitHand atomically applies a finished hand.
	CommitHand(ctx context.Context, rec HandRecord) error
	// Hands returns the hand log of a table, oldest first.
	Hands(ctx context.Context, tableID string) ([]HandRecord, error)
	Close() error
}

// Open opens the backend named by driver.
func Open(ctx context.Context, driver, dsn string, logger *log.Logger) (Backend, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.WithPrefix("store")

	var (
		backend Backend
		err     error
	)
	switch driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		backend, err = OpenFile(dsn)
	case DriverSQLite:
		backend, err = OpenSQLite(ctx, dsn, logger)
	case DriverPostgres:
		backend, err = OpenPostgres(ctx, dsn, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("opened", "driver", driver)
	return backend, nil
}

// ledger is the in-memory form shared by the memory and file backends.
type ledger struct {
	Stacks map[game.PlayerID]int `json:"stacks"`
	Tables map[string]TableState `json:"tables"`
	Hands  []HandRecord          `json:"hands"`
}

func newLedger() *ledger {
	return &ledger{
		Stacks: map[game.PlayerID]int{},
		Tables: map[string]TableState{},
	}
}

func (l *ledger) clone() *ledger {
	out := &ledger{
		Stacks: maps.Clone(l.Stacks),
		Tables: maps.Clone(l.Tables),
		Hands:  make([]HandRecord, len(l.Hands)),
	}
	for i, h := range l.Hands {
		out.Hands[i] = h.clone()
	}
	return out
}

// commit applies rec. Stacks and table state are overwritten; the hand log
// keeps the first entry for a hand number.
func (l *ledger) commit(rec HandRecord) {
	for player, stack := range rec.Stacks {
		l.Stacks[player] = stack
	}
	l.Tables[rec.TableID] = rec.State()

	logged := slices.ContainsFunc(l.Hands, func(h HandRecord) bool {
		return h.TableID == rec.TableID && h.HandNumber == rec.HandNumber
	})
	if !logged {
		l.Hands = append(l.Hands, rec.clone())
	}
}

func (l *ledger) hands(tableID string) []HandRecord {
	var out []HandRecord
	for _, h := range l.Hands {
		if h.TableID == tableID {
			out = append(out, h.clone())
		}
	}
	return out
}
