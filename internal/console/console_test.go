package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcthang03/hand-counter/internal/blinds"
	"github.com/dcthang03/hand-counter/internal/game"
	"github.com/dcthang03/hand-counter/internal/store"
	"github.com/dcthang03/hand-counter/internal/table"
)

func newTestConsole(t *testing.T) (*Console, *table.Table, *bytes.Buffer) {
	t.Helper()
	tbl, err := table.New(table.Config{
		ID:            "main",
		Seats:         6,
		StartingStack: 1000,
		MergeTiers:    true,
		Clock:         quartz.NewMock(t),
	}, store.NewMemory(), blinds.Fixed(5, 10, 0, game.AnteEach))
	require.NoError(t, err)

	var out bytes.Buffer
	c := New(tbl, &out, nil)
	t.Cleanup(c.Close)
	return c, tbl, &out
}

func run(t *testing.T, c *Console, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, c.Exec(context.Background(), line), line)
	}
}

func TestConsolePlaysAHand(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, tbl, out := newTestConsole(t)
	run(t, c, "sit 1 alice", "sit 2 bob", "sit 3 carol")
	require.NoError(t, tbl.Open(ctx))

	run(t, c,
		"start",
		"raise 30", // seat 1
		"call",     // seat 2
		"fold",     // seat 3
		"check", "check",
		"check", "check",
		"check", "check",
	)
	require.Equal(t, game.Showdown, tbl.Hand().Street())

	out.Reset()
	run(t, c, "pots")
	assert.Contains(t, out.String(), "0 main 70 [alice, bob]")

	run(t, c, "award main 2")
	assert.Contains(t, out.String(), "main: seat 2 wins 70")

	run(t, c, "finish")
	assert.Contains(t, out.String(), "hand 1 saved, button to seat 2")

	for player, want := range map[game.PlayerID]int{"alice": 970, "bob": 1040, "carol": 990} {
		stack, ok := tbl.Stack(player)
		require.True(t, ok)
		assert.Equal(t, want, stack, player)
	}
}

func TestConsoleEchoesEvents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, tbl, out := newTestConsole(t)
	run(t, c, "sit 1 alice", "sit 2 bob", "sit 3 carol")
	require.NoError(t, tbl.Open(ctx))

	run(t, c, "start", "fold", "undo", "call")
	text := out.String()
	assert.Contains(t, text, "*** HAND *** button 1, blinds 5/10 (seats 2/3)")
	assert.Contains(t, text, "seat 1 (alice): folds")
	assert.Contains(t, text, "undo: back to preflop, seat 1 to act")
	assert.Contains(t, text, "seat 1 (alice): calls 10")
}

func TestConsoleRejectsBadCommands(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, tbl, _ := newTestConsole(t)

	tests := []struct {
		line string
		want string
	}{
		{line: "fold", want: "no hand in progress"},
		{line: "sit one alice", want: "invalid seat"},
		{line: "sit 1", want: "usage: sit"},
		{line: "dance", want: "unknown command"},
		{line: "pots", want: "no hand in progress"},
	}
	for _, tt := range tests {
		err := c.Exec(ctx, tt.line)
		require.Error(t, err, tt.line)
		assert.Contains(t, err.Error(), tt.want, tt.line)
	}

	run(t, c, "sit 1 alice", "sit 2 bob")
	require.NoError(t, tbl.Open(ctx))
	run(t, c, "start")

	for _, tt := range []struct {
		line string
		want string
	}{
		{line: "bet", want: "usage: bet <amount>"},
		{line: "raise lots", want: "invalid amount"},
		{line: "call now", want: "takes no arguments"},
		{line: "check", want: "invalid action"},
		{line: "award main 1", want: "no such pot"},
		{line: "finish", want: "hand not settled"},
	} {
		err := c.Exec(ctx, tt.line)
		require.Error(t, err, tt.line)
		assert.Contains(t, err.Error(), tt.want, tt.line)
	}

	assert.ErrorIs(t, c.Exec(ctx, "quit"), ErrQuit)
	assert.NoError(t, c.Exec(ctx, "   "))
}

func TestConsoleRunReportsErrorsAndQuits(t *testing.T) {
	t.Parallel()

	c, _, out := newTestConsole(t)
	script := strings.NewReader("sit 1 alice\ndance\nstatus\nquit\nsit 2 bob\n")
	require.NoError(t, c.Run(context.Background(), script))

	text := out.String()
	assert.Contains(t, text, `unknown command "dance"`)
	assert.Contains(t, text, "alice")
	assert.NotContains(t, text, "bob", "commands after quit are ignored")
}

func TestRenderStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, tbl, _ := newTestConsole(t)
	run(t, c, "sit 1 alice", "sit 2 bob", "sit 4 carol", "stack 4 1500")
	require.NoError(t, tbl.Open(ctx))

	status := c.renderStatus()
	assert.Contains(t, status, "1500")
	assert.Contains(t, status, "main  button 1  hands 0")
	assert.Contains(t, status, "alice")

	run(t, c, "start")
	status = c.renderStatus()
	assert.Contains(t, status, "preflop  blinds 5/10")
	assert.Contains(t, status, "pot 15, to match 10")
	assert.Contains(t, status, "SB")
	assert.Contains(t, status, "BB")
	assert.Contains(t, status, "to act")
}
