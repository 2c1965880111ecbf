package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dcthang03/hand-counter/internal/game"
	"github.com/dcthang03/hand-counter/internal/simulator"
	"github.com/dcthang03/hand-counter/internal/store"
	"github.com/dcthang03/hand-counter/internal/table"
)

// SimulateCmd plays random hands on independent tables.
type SimulateCmd struct {
	Tables     int    `kong:"default='4',help='Number of tables played concurrently'"`
	Hands      int    `kong:"default='1000',help='Hands per table'"`
	Seats      int    `kong:"default='9',help='Seats per table'"`
	Seed       *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	StartChips int    `kong:"default='1000',help='Starting chip count'"`
	SmallBlind int    `kong:"default='5',help='Small blind amount'"`
	BigBlind   int    `kong:"default='10',help='Big blind amount'"`
	Ante       int    `kong:"default='0',help='Ante amount'"`
	AnteMode   string `kong:"default='each',enum='each,big_blind',help='Who posts the ante'"`
	ChipUnit   int    `kong:"default='1',help='Smallest chip denomination'"`
	NoMerge    bool   `kong:"help='Keep adjacent tiers with the same eligible players apart'"`
	Persist    bool   `kong:"help='Commit hands to the configured store'"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := g.logger(cfg.Level())

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	mode, _ := game.ParseAnteMode(c.AnteMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st table.Store
	if c.Persist {
		backend, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN, logger)
		if err != nil {
			return err
		}
		defer backend.Close()
		st = backend
	}

	logger.Info("simulating", "tables", c.Tables, "hands", c.Hands, "seats", c.Seats, "seed", seed)
	start := time.Now()
	res, err := simulator.New(simulator.Config{
		Tables:        c.Tables,
		Hands:         c.Hands,
		Seats:         c.Seats,
		Seed:          seed,
		StartingStack: c.StartChips,
		Blinds:        game.Blinds{Small: c.SmallBlind, Big: c.BigBlind, Ante: c.Ante, Mode: mode},
		ChipUnit:      c.ChipUnit,
		MergeTiers:    !c.NoMerge,
		Store:         st,
		Logger:        logger,
	}).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed (seed %d): %w", seed, err)
	}

	printSummary(res, time.Since(start))
	return nil
}

func printSummary(res *simulator.Result, elapsed time.Duration) {
	fmt.Println(titleStyle.Render(" SIMULATION "))
	fmt.Printf("%-8s %7s %8s %6s %7s %10s %9s\n",
		"table", "hands", "actions", "undos", "rebuys", "showdowns", "side pots")
	for _, t := range res.Tables {
		fmt.Printf("%-8s %7d %8d %6d %7d %10d %9d\n",
			t.Table, t.Hands, t.Actions, t.Undos, t.Rebuys, t.Pots.Showdowns, t.Pots.SidePots)
	}

	pots := res.Pots()
	fmt.Printf("\npots: mean %.1fbb, median %.1fbb, p95 %.1fbb, stddev %.1fbb, max %d (%.1fbb)\n",
		pots.Mean(), pots.Median(), pots.Percentile(0.95), pots.StdDev(), pots.MaxPotChips, pots.MaxPotBB)
	fmt.Printf("big pots (>=50bb): %d, uncalled chips returned: %d\n", pots.BigPots, pots.Refunded)

	hands := res.Hands()
	fmt.Printf("%d hands in %s (%.0f hands/s), chips conserved on every hand\n",
		hands, elapsed.Round(time.Millisecond), float64(hands)/max(elapsed.Seconds(), 1e-9))
}
