package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAction is returned for actions that were rejected without
	// touching any state.
	ErrInvalidAction = errors.New("invalid action")

	// ErrPotConservation signals that pots plus refunds no longer add up to
	// the chips committed. It is an internal invariant breach.
	ErrPotConservation = errors.New("pot conservation violation")

	ErrNoWinners      = errors.New("no winners declared")
	ErrNotEligible    = errors.New("winner not eligible for pot")
	ErrPotAwarded     = errors.New("pot already awarded")
	ErrNoSuchPot      = errors.New("no such pot")
	ErrHandNotSettled = errors.New("hand not settled")
	ErrNothingToUndo  = errors.New("nothing to undo")

	// ErrNotEnoughPlayers is returned when fewer than two seats can be dealt in.
	ErrNotEnoughPlayers = errors.New("not enough players")
)

// ActionError describes a rejected action.
type ActionError struct {
	Seat   int
	Action Action
	Reason string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("invalid action %s by seat %d: %s", e.Action, e.Seat, e.Reason)
}

func (e *ActionError) Unwrap() error {
	return ErrInvalidAction
}

func rejectAction(seat int, action Action, format string, args ...any) error {
	return &ActionError{Seat: seat, Action: action, Reason: fmt.Sprintf(format, args...)}
}
