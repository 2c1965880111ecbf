package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dcthang03/hand-counter/internal/game"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// SQLite is a Backend on a local SQLite database.
type SQLite struct {
	db     *sql.DB
	logger *log.Logger
}

// OpenSQLite opens the database at path and creates missing tables.
func OpenSQLite(ctx context.Context, path string, logger *log.Logger) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite store needs a path")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer keeps commits serialized on the same file.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &SQLite{db: db, logger: logger}, nil
}

func (s *SQLite) Stack(ctx context.Context, player game.PlayerID) (int, bool, error) {
	var stack int
	err := s.db.QueryRowContext(ctx, `SELECT stack FROM stacks WHERE player = ?`, string(player)).Scan(&stack)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get stack: %w", err)
	}
	return stack, true, nil
}

func (s *SQLite) SetStack(ctx context.Context, player game.PlayerID, stack int) error {
	if stack < 0 {
		return fmt.Errorf("negative stack %d for %q", stack, player)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stacks(player, stack) VALUES (?, ?)
		ON CONFLICT(player) DO UPDATE SET stack = excluded.stack
	`, string(player), stack)
	if err != nil {
		return fmt.Errorf("set stack: %w", err)
	}
	return nil
}

func (s *SQLite) Table(ctx context.Context, tableID string) (TableState, bool, error) {
	var state TableState
	err := s.db.QueryRowContext(ctx, `
		SELECT button, hand_number, last_hand_id FROM table_state WHERE table_id = ?
	`, tableID).Scan(&state.Button, &state.HandNumber, &state.LastHandID)
	if errors.Is(err, sql.ErrNoRows) {
		return TableState{}, false, nil
	}
	if err != nil {
		return TableState{}, false, fmt.Errorf("get table: %w", err)
	}
	return state, true, nil
}

func (s *SQLite) CommitHand(ctx context.Context, rec HandRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	stacks, err := json.Marshal(rec.Stacks)
	if err != nil {
		return fmt.Errorf("encode stacks: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for player, stack := range rec.Stacks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stacks(player, stack) VALUES (?, ?)
			ON CONFLICT(player) DO UPDATE SET stack = excluded.stack
		`, string(player), stack); err != nil {
			return fmt.Errorf("write stack for %q: %w", player, err)
		}
	}

	state := rec.State()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO table_state(table_id, button, hand_number, last_hand_id) VALUES (?, ?, ?, ?)
		ON CONFLICT(table_id) DO UPDATE
		  SET button = excluded.button,
		      hand_number = excluded.hand_number,
		      last_hand_id = excluded.last_hand_id
	`, rec.TableID, state.Button, state.HandNumber, state.LastHandID); err != nil {
		return fmt.Errorf("write table state: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO hands(table_id, hand_number, hand_id, button, next_button, pot, stacks, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(table_id, hand_number) DO NOTHING
	`, rec.TableID, rec.HandNumber, rec.HandID, rec.Button, rec.NextButton, rec.Pot,
		string(stacks), rec.FinishedAt.UnixMilli()); err != nil {
		return fmt.Errorf("log hand: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("hand committed", "table", rec.TableID, "hand", rec.HandNumber)
	return nil
}

func (s *SQLite) Hands(ctx context.Context, tableID string) ([]HandRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hand_number, hand_id, button, next_button, pot, stacks, finished_at
		  FROM hands WHERE table_id = ? ORDER BY hand_number
	`, tableID)
	if err != nil {
		return nil, fmt.Errorf("list hands: %w", err)
	}
	defer rows.Close()

	var out []HandRecord
	for rows.Next() {
		rec := HandRecord{TableID: tableID}
		var (
			stacks   string
			finished int64
		)
		if err := rows.Scan(&rec.HandNumber, &rec.HandID, &rec.Button, &rec.NextButton, &rec.Pot, &stacks, &finished); err != nil {
			return nil, fmt.Errorf("scan hand: %w", err)
		}
		if err := json.Unmarshal([]byte(stacks), &rec.Stacks); err != nil {
			return nil, fmt.Errorf("decode stacks of hand %d: %w", rec.HandNumber, err)
		}
		rec.FinishedAt = time.UnixMilli(finished).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }
