package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eventRecorder collects published events.
type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func (r *eventRecorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

func TestEventBusSubscribeUnsubscribe(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	a, b := &eventRecorder{}, &eventRecorder{}
	bus.Subscribe(a)
	bus.Subscribe(b)

	bus.Publish(HandUndoneEvent{Street: Flop})
	bus.Unsubscribe(a)
	bus.Publish(HandUndoneEvent{Street: Turn})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 2)
}

func TestHandPublishesEventsInOrder(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	rec := &eventRecorder{}
	bus.Subscribe(rec)

	h := newTestHand(t, 1, Blinds{Small: 5, Big: 10}, map[int]int{1: 1000, 2: 1000, 3: 1000}, WithEventBus(bus))
	require.NoError(t, h.Fold(1))
	require.NoError(t, h.Fold(2))

	assert.Equal(t, []EventType{
		EventTypeHandStart,
		EventTypePlayerAction,
		EventTypePlayerAction,
		EventTypeShowdown,
		EventTypePotAwarded,
	}, rec.types())

	last := rec.events[2].(PlayerActionEvent)
	assert.Equal(t, 2, last.Seat)
	assert.Equal(t, NoSeat, last.Next)

	award := rec.events[4].(PotAwardedEvent)
	assert.Equal(t, []Payout{{Seat: 3, Amount: 15}}, award.Payouts)
}

func TestRejectedActionPublishesNothing(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	rec := &eventRecorder{}
	h := newTestHand(t, 1, Blinds{Small: 5, Big: 10}, map[int]int{1: 1000, 2: 1000, 3: 1000}, WithEventBus(bus))
	bus.Subscribe(rec)

	require.Error(t, h.Check(1))
	assert.Empty(t, rec.events)
}

func TestEventFormatter(t *testing.T) {
	t.Parallel()

	ef := NewEventFormatter(FormattingOptions{ShowTarget: true})

	tests := []struct {
		name     string
		event    GameEvent
		expected string
	}{
		{
			name:     "fold",
			event:    PlayerActionEvent{Seat: 3, Player: "alice", Action: Fold},
			expected: "seat 3 (alice): folds (to match: 0)",
		},
		{
			name:     "raise",
			event:    PlayerActionEvent{Seat: 1, Player: "bob", Action: Raise, Amount: 40, Target: 50},
			expected: "seat 1 (bob): raises 40 (to match: 50)",
		},
		{
			name:     "runout",
			event:    StreetChangeEvent{From: Flop, To: Showdown, Pot: 300, Runout: true},
			expected: "*** SHOWDOWN *** pot 300 (all-in, run it out)",
		},
		{
			name: "showdown with refund",
			event: ShowdownEvent{Settlement: Settlement{
				Pots:     []Pot{{ID: "main", Amount: 300, Eligible: ids("A", "B", "C")}, {ID: "side1", Amount: 200, Eligible: ids("B", "C")}},
				Refunded: 100,
			}},
			expected: "*** SHOWDOWN *** main 300 [A, B, C]; side1 200 [B, C]; returned 100",
		},
		{
			name:     "award split",
			event:    PotAwardedEvent{PotID: "side1", Payouts: []Payout{{Seat: 5, Amount: 51}, {Seat: 2, Amount: 50}}},
			expected: "side1: seat 5 wins 51, seat 2 wins 50",
		},
		{
			name:     "hand start with ante",
			event:    HandStartEvent{Button: 4, SmallSeat: 5, BigSeat: 6, Blinds: Blinds{Small: 25, Big: 50, Ante: 50, Mode: AnteBigBlind}},
			expected: "*** HAND *** button 4, blinds 25/50 (seats 5/6), ante 50 big_blind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ef.Format(tt.event))
		})
	}
}
