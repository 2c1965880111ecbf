package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dcthang03/hand-counter/internal/game"
)

// File is a Backend kept in a single JSON document. Every change rewrites the
// document atomically, so a crash leaves either the old or the new state.
type File struct {
	path string

	mu     sync.Mutex
	ledger *ledger
}

// OpenFile opens or creates the document at path.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("file store needs a path")
	}
	f := &File{path: path, ledger: newLedger()}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, f.ledger); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if f.ledger.Stacks == nil {
		f.ledger.Stacks = map[game.PlayerID]int{}
	}
	if f.ledger.Tables == nil {
		f.ledger.Tables = map[string]TableState{}
	}
	return f, nil
}

func (f *File) Stack(ctx context.Context, player game.PlayerID) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stack, ok := f.ledger.Stacks[player]
	return stack, ok, nil
}

func (f *File) SetStack(ctx context.Context, player game.PlayerID, stack int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if stack < 0 {
		return fmt.Errorf("negative stack %d for %q", stack, player)
	}
	return f.update(func(l *ledger) { l.Stacks[player] = stack })
}

func (f *File) Table(ctx context.Context, tableID string) (TableState, bool, error) {
	if err := ctx.Err(); err != nil {
		return TableState{}, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.ledger.Tables[tableID]
	return state, ok, nil
}

func (f *File) CommitHand(ctx context.Context, rec HandRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	return f.update(func(l *ledger) { l.commit(rec) })
}

func (f *File) Hands(ctx context.Context, tableID string) ([]HandRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.hands(tableID), nil
}

func (f *File) Close() error { return nil }

// update applies fn to a copy of the ledger and only keeps it once the copy
// is on disk.
func (f *File) update(fn func(*ledger)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.ledger.clone()
	fn(next)

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := writeFileAtomic(f.path, data, 0o644); err != nil {
		return err
	}
	f.ledger = next
	return nil
}

// writeFileAtomic writes data to a temporary file in the same directory and
// renames it over filename. Readers see the old file or the new one, never a
// partial write.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tmp = nil

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
