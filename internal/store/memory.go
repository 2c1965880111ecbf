package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dcthang03/hand-counter/internal/game"
)

// Memory is a Backend that lives as long as the process.
type Memory struct {
	mu     sync.Mutex
	ledger *ledger
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{ledger: newLedger()}
}

func (m *Memory) Stack(ctx context.Context, player game.PlayerID) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stack, ok := m.ledger.Stacks[player]
	return stack, ok, nil
}

func (m *Memory) SetStack(ctx context.Context, player game.PlayerID, stack int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if stack < 0 {
		return fmt.Errorf("negative stack %d for %q", stack, player)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger.Stacks[player] = stack
	return nil
}

func (m *Memory) Table(ctx context.Context, tableID string) (TableState, bool, error) {
	if err := ctx.Err(); err != nil {
		return TableState{}, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.ledger.Tables[tableID]
	return state, ok, nil
}

func (m *Memory) CommitHand(ctx context.Context, rec HandRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger.commit(rec)
	return nil
}

func (m *Memory) Hands(ctx context.Context, tableID string) ([]HandRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.hands(tableID), nil
}

func (m *Memory) Close() error { return nil }
