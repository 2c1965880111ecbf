package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dcthang03/hand-counter/internal/game"
)

//go:embed schema_postgres.sql
var postgresSchema string

// Postgres is a Backend on a PostgreSQL connection pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// OpenPostgres connects to dsn and migrates the schema.
func OpenPostgres(ctx context.Context, dsn string, logger *log.Logger) (*Postgres, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Postgres{pool: pool, logger: logger}, nil
}

func (p *Postgres) Stack(ctx context.Context, player game.PlayerID) (int, bool, error) {
	var stack int64
	err := p.pool.QueryRow(ctx, `SELECT stack FROM stacks WHERE player = $1`, string(player)).Scan(&stack)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get stack: %w", err)
	}
	return int(stack), true, nil
}

func (p *Postgres) SetStack(ctx context.Context, player game.PlayerID, stack int) error {
	if stack < 0 {
		return fmt.Errorf("negative stack %d for %q", stack, player)
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO stacks(player, stack) VALUES ($1, $2)
		ON CONFLICT (player) DO UPDATE SET stack = EXCLUDED.stack
	`, string(player), int64(stack))
	if err != nil {
		return fmt.Errorf("set stack: %w", err)
	}
	return nil
}

func (p *Postgres) Table(ctx context.Context, tableID string) (TableState, bool, error) {
	var (
		state  TableState
		button int32
	)
	err := p.pool.QueryRow(ctx, `
		SELECT button, hand_number, last_hand_id FROM table_state WHERE table_id = $1
	`, tableID).Scan(&button, &state.HandNumber, &state.LastHandID)
	if errors.Is(err, pgx.ErrNoRows) {
		return TableState{}, false, nil
	}
	if err != nil {
		return TableState{}, false, fmt.Errorf("get table: %w", err)
	}
	state.Button = int(button)
	return state, true, nil
}

func (p *Postgres) CommitHand(ctx context.Context, rec HandRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	stacks, err := json.Marshal(rec.Stacks)
	if err != nil {
		return fmt.Errorf("encode stacks: %w", err)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for player, stack := range rec.Stacks {
		batch.Queue(`
			INSERT INTO stacks(player, stack) VALUES ($1, $2)
			ON CONFLICT (player) DO UPDATE SET stack = EXCLUDED.stack
		`, string(player), int64(stack))
	}
	state := rec.State()
	batch.Queue(`
		INSERT INTO table_state(table_id, button, hand_number, last_hand_id) VALUES ($1, $2, $3, $4)
		ON CONFLICT (table_id) DO UPDATE
		  SET button = EXCLUDED.button,
		      hand_number = EXCLUDED.hand_number,
		      last_hand_id = EXCLUDED.last_hand_id
	`, rec.TableID, int32(state.Button), state.HandNumber, state.LastHandID)
	batch.Queue(`
		INSERT INTO hands(table_id, hand_number, hand_id, button, next_button, pot, stacks, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (table_id, hand_number) DO NOTHING
	`, rec.TableID, rec.HandNumber, rec.HandID, int32(rec.Button), int32(rec.NextButton), int64(rec.Pot),
		string(stacks), rec.FinishedAt)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("write hand: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	p.logger.Debug("hand committed", "table", rec.TableID, "hand", rec.HandNumber)
	return nil
}

func (p *Postgres) Hands(ctx context.Context, tableID string) ([]HandRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT hand_number, hand_id, button, next_button, pot, stacks::text, finished_at
		  FROM hands WHERE table_id = $1 ORDER BY hand_number
	`, tableID)
	if err != nil {
		return nil, fmt.Errorf("list hands: %w", err)
	}
	defer rows.Close()

	var out []HandRecord
	for rows.Next() {
		rec := HandRecord{TableID: tableID}
		var (
			button, next int32
			pot          int64
			stacks       string
		)
		if err := rows.Scan(&rec.HandNumber, &rec.HandID, &button, &next, &pot, &stacks, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan hand: %w", err)
		}
		if err := json.Unmarshal([]byte(stacks), &rec.Stacks); err != nil {
			return nil, fmt.Errorf("decode stacks of hand %d: %w", rec.HandNumber, err)
		}
		rec.Button, rec.NextButton, rec.Pot = int(button), int(next), int(pot)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
