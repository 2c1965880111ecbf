package game

import (
	"fmt"
	"strings"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowTarget bool // Include the street target after each action
	ChipSymbol string
}

// EventFormatter provides centralized formatting for all hand events
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format renders any event as a single line. Unknown events render empty.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case HandStartEvent:
		return ef.FormatHandStart(e)
	case PlayerActionEvent:
		return ef.FormatPlayerAction(e)
	case StreetChangeEvent:
		return ef.FormatStreetChange(e)
	case ShowdownEvent:
		return ef.FormatShowdown(e)
	case PotAwardedEvent:
		return ef.FormatPotAwarded(e)
	case HandUndoneEvent:
		return fmt.Sprintf("undo: back to %s, seat %d to act", e.Street, e.Acting)
	}
	return ""
}

// FormatHandStart formats a hand start event into a human-readable string
func (ef *EventFormatter) FormatHandStart(event HandStartEvent) string {
	b := event.Blinds
	text := fmt.Sprintf("*** HAND *** button %d, blinds %s/%s (seats %d/%d)",
		event.Button, ef.chips(b.Small), ef.chips(b.Big), event.SmallSeat, event.BigSeat)
	if b.Ante > 0 {
		text += fmt.Sprintf(", ante %s %s", ef.chips(b.Ante), b.Mode)
	}
	return text
}

// FormatPlayerAction formats a player action event into a human-readable string
func (ef *EventFormatter) FormatPlayerAction(event PlayerActionEvent) string {
	who := fmt.Sprintf("seat %d (%s)", event.Seat, event.Player)

	var text string
	switch event.Action {
	case Fold:
		text = who + ": folds"
	case Check:
		text = who + ": checks"
	case Call:
		text = fmt.Sprintf("%s: calls %s", who, ef.chips(event.Amount))
	case Bet:
		text = fmt.Sprintf("%s: bets %s", who, ef.chips(event.Amount))
	case Raise:
		text = fmt.Sprintf("%s: raises %s", who, ef.chips(event.Amount))
	case AllIn:
		text = fmt.Sprintf("%s: goes all-in for %s", who, ef.chips(event.Amount))
	default:
		text = fmt.Sprintf("%s: %s %s", who, event.Action, ef.chips(event.Amount))
	}

	if ef.opts.ShowTarget {
		text += fmt.Sprintf(" (to match: %s)", ef.chips(event.Target))
	}
	return text
}

// FormatStreetChange formats a street change event into a human-readable string
func (ef *EventFormatter) FormatStreetChange(event StreetChangeEvent) string {
	text := fmt.Sprintf("*** %s *** pot %s", strings.ToUpper(event.To.String()), ef.chips(event.Pot))
	if event.Runout {
		text += " (all-in, run it out)"
	}
	return text
}

// FormatShowdown lists the pots awaiting winners
func (ef *EventFormatter) FormatShowdown(event ShowdownEvent) string {
	if event.Uncontested {
		return "*** UNCONTESTED ***"
	}
	parts := make([]string, 0, len(event.Settlement.Pots)+1)
	for _, p := range event.Settlement.Pots {
		parts = append(parts, ef.FormatPot(p))
	}
	if event.Settlement.Refunded > 0 {
		parts = append(parts, fmt.Sprintf("returned %s", ef.chips(event.Settlement.Refunded)))
	}
	return "*** SHOWDOWN *** " + strings.Join(parts, "; ")
}

// FormatPot formats one pot with its eligible players
func (ef *EventFormatter) FormatPot(p Pot) string {
	eligible := make([]string, len(p.Eligible))
	for i, e := range p.Eligible {
		eligible[i] = string(e)
	}
	return fmt.Sprintf("%s %s [%s]", p.ID, ef.chips(p.Amount), strings.Join(eligible, ", "))
}

// FormatPotAwarded formats a pot award
func (ef *EventFormatter) FormatPotAwarded(event PotAwardedEvent) string {
	parts := make([]string, len(event.Payouts))
	for i, p := range event.Payouts {
		parts[i] = fmt.Sprintf("seat %d wins %s", p.Seat, ef.chips(p.Amount))
	}
	return fmt.Sprintf("%s: %s", event.PotID, strings.Join(parts, ", "))
}

func (ef *EventFormatter) chips(n int) string {
	return fmt.Sprintf("%s%d", ef.opts.ChipSymbol, n)
}
