// Package console is the dealer's line-oriented command interpreter.
//
// Each line is one command. Betting commands apply to the seat whose turn it
// is; the dealer never names the seat.
//
//	sit <seat> <player>   leave <seat>   stack <seat> <n>   start
//	fold  check  call  bet <n>  raise <n>  allin
//	undo  award <pot> <seat>...  finish  status  pots
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/dcthang03/hand-counter/internal/game"
	"github.com/dcthang03/hand-counter/internal/table"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

// Console drives one table from text commands.
type Console struct {
	table     *table.Table
	out       io.Writer
	styles    *Styles
	formatter *game.EventFormatter
	logger    *log.Logger
}

// New creates a console writing to out and subscribes it to the table's
// hand events. Call Close to unsubscribe.
func New(t *table.Table, out io.Writer, logger *log.Logger) *Console {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Console{
		table:     t,
		out:       out,
		styles:    NewStyles(lipgloss.NewRenderer(out)),
		formatter: game.NewEventFormatter(game.FormattingOptions{}),
		logger:    logger,
	}
	t.Bus().Subscribe(c)
	return c
}

// Close stops echoing hand events.
func (c *Console) Close() {
	c.table.Bus().Unsubscribe(c)
}

// OnEvent echoes a hand event.
func (c *Console) OnEvent(event game.GameEvent) {
	line := c.formatter.Format(event)
	if line == "" {
		return
	}
	style := c.styles.Event
	switch event.(type) {
	case game.HandStartEvent, game.StreetChangeEvent, game.ShowdownEvent:
		style = c.styles.Street
	case game.PotAwardedEvent:
		style = c.styles.Winner
	case game.HandUndoneEvent:
		style = c.styles.Muted
	}
	fmt.Fprintln(c.out, style.Render(line))
}

// Run reads commands until in is exhausted, ctx is done or the dealer quits.
// Command errors are printed and do not stop the loop.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		err := c.Exec(ctx, scanner.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			c.logger.Debug("command failed", "line", scanner.Text(), "err", err)
			fmt.Fprintln(c.out, c.styles.Error.Render(err.Error()))
		}
	}
}

func (c *Console) prompt() {
	h := c.table.Hand()
	switch {
	case h == nil:
		fmt.Fprint(c.out, "> ")
	case h.ActingSeat() != game.NoSeat:
		player, _ := c.table.Player(h.ActingSeat())
		fmt.Fprintf(c.out, "[seat %d %s, %d to call] > ", h.ActingSeat(), player, h.ToCall(h.ActingSeat()))
	default:
		fmt.Fprintf(c.out, "[%s] > ", h.Street())
	}
}

// Exec runs a single command line.
func (c *Console) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	if action, ok := game.ParseAction(cmd); ok {
		return c.act(action, args)
	}

	switch cmd {
	case "sit":
		if len(args) != 2 {
			return errors.New("usage: sit <seat> <player>")
		}
		seat, err := parseSeat(args[0])
		if err != nil {
			return err
		}
		return c.table.Sit(ctx, seat, game.PlayerID(args[1]))
	case "leave":
		if len(args) != 1 {
			return errors.New("usage: leave <seat>")
		}
		seat, err := parseSeat(args[0])
		if err != nil {
			return err
		}
		return c.table.Leave(seat)
	case "stack":
		if len(args) != 2 {
			return errors.New("usage: stack <seat> <chips>")
		}
		seat, err := parseSeat(args[0])
		if err != nil {
			return err
		}
		chips, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		return c.table.SetStack(ctx, seat, chips)
	case "start":
		_, err := c.table.StartHand(ctx)
		return err
	case "undo":
		return c.table.Undo()
	case "award":
		return c.award(args)
	case "finish":
		return c.finish(ctx)
	case "status":
		c.printStatus()
		return nil
	case "pots":
		return c.printPots()
	case "help":
		fmt.Fprintln(c.out, c.styles.Muted.Render(
			"sit <seat> <player> | leave <seat> | stack <seat> <n> | start | fold | check | call | bet <n> | raise <n> | allin | undo | award <pot> <seat>... | finish | status | pots | quit"))
		return nil
	case "quit", "exit":
		return ErrQuit
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}

func (c *Console) act(action game.Action, args []string) error {
	h := c.table.Hand()
	if h == nil {
		return table.ErrNoHand
	}

	amount := 0
	switch action {
	case game.Bet, game.Raise:
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <amount>", action)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[0])
		}
		amount = n
	default:
		if len(args) != 0 {
			return fmt.Errorf("%s takes no arguments", action)
		}
	}

	err := c.table.Act(h.ActingSeat(), action, amount)
	if errors.Is(err, table.ErrHandRestarted) {
		b := c.table.Hand().Blinds()
		fmt.Fprintln(c.out, c.styles.Street.Render(
			fmt.Sprintf("blinds are now %d/%d, hand dealt again; repeat the action", b.Small, b.Big)))
		return nil
	}
	return err
}

func (c *Console) award(args []string) error {
	h := c.table.Hand()
	if h == nil {
		return table.ErrNoHand
	}
	if len(args) < 2 {
		return errors.New("usage: award <pot> <seat>...")
	}

	index, err := potIndex(h.Settlement(), args[0])
	if err != nil {
		return err
	}
	seats := make([]int, 0, len(args)-1)
	for _, a := range args[1:] {
		seat, err := parseSeat(a)
		if err != nil {
			return err
		}
		seats = append(seats, seat)
	}
	return c.table.Award(index, seats...)
}

func (c *Console) finish(ctx context.Context) error {
	next, err := c.table.FinishHand(ctx)
	if err != nil {
		if errors.Is(err, table.ErrPersistence) {
			return fmt.Errorf("%w (nothing changed, run finish again)", err)
		}
		return err
	}
	fmt.Fprintln(c.out, c.styles.Success.Render(
		fmt.Sprintf("hand %d saved, button to seat %d", c.table.HandNumber(), c.table.Button())))
	if next == nil {
		fmt.Fprintln(c.out, c.styles.Muted.Render("waiting for players"))
	}
	return nil
}

// potIndex resolves a pot by position or by id ("main", "side1", ...).
func potIndex(s game.Settlement, arg string) (int, error) {
	for i, p := range s.Pots {
		if p.ID == arg {
			return i, nil
		}
	}
	i, err := strconv.Atoi(arg)
	if err != nil || i < 0 || i >= len(s.Pots) {
		return 0, fmt.Errorf("%w: %q", game.ErrNoSuchPot, arg)
	}
	return i, nil
}

func parseSeat(s string) (int, error) {
	seat, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", table.ErrInvalidSeat, s)
	}
	return seat, nil
}
