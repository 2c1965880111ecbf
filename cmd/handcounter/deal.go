package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coder/quartz"

	"github.com/dcthang03/hand-counter/internal/blinds"
	"github.com/dcthang03/hand-counter/internal/console"
	"github.com/dcthang03/hand-counter/internal/game"
	"github.com/dcthang03/hand-counter/internal/store"
	"github.com/dcthang03/hand-counter/internal/table"
)

// DealCmd runs the interactive dealer console.
type DealCmd struct {
	Table string `arg:"" optional:"" default:"main" help:"Table name from the configuration"`
}

func (c *DealCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := g.logger(cfg.Level())

	tc, ok := cfg.Table(c.Table)
	if !ok {
		return fmt.Errorf("no table %q in %s", c.Table, g.Config)
	}
	mode, _ := game.ParseAnteMode(tc.AnteMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	clock := quartz.NewReal()
	schedule, err := blinds.NewSchedule(clock, mode, cfg.BlindLevels()...)
	if err != nil {
		return err
	}
	stopLevels := schedule.OnLevelChange(func(index int, level blinds.Level) {
		logger.Info("blinds up", "level", index+1, "small", level.Small, "big", level.Big, "ante", level.Ante)
	})
	defer stopLevels()

	tbl, err := table.New(table.Config{
		ID:            tc.Name,
		Seats:         tc.Seats,
		ChipUnit:      tc.ChipUnit,
		StartingStack: tc.StartingStack,
		HistoryLimit:  tc.HistoryLimit,
		MergeTiers:    *tc.MergeTiers,
		Logger:        logger,
		Clock:         clock,
	}, st, schedule)
	if err != nil {
		return err
	}
	if err := tbl.Open(ctx); err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf(" table %s, %d seats, button %d ", tc.Name, tc.Seats, tbl.Button())))
	fmt.Println("type help for commands")

	cons := console.New(tbl, os.Stdout, logger)
	defer cons.Close()
	return cons.Run(ctx, os.Stdin)
}
