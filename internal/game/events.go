package game

import (
	"time"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for hand events
const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypePlayerAction EventType = "player_action"
	EventTypeStreetChange EventType = "street_change"
	EventTypeShowdown     EventType = "showdown"
	EventTypePotAwarded   EventType = "pot_awarded"
	EventTypeHandUndone   EventType = "hand_undone"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a hand
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartEvent is published once blinds and antes are posted
type HandStartEvent struct {
	Button    int
	SmallSeat int
	BigSeat   int
	Blinds    Blinds
	Acting    int
	Pot       int
	timestamp time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published after an action has been applied
type PlayerActionEvent struct {
	Seat      int
	Player    PlayerID
	Action    Action // The action as applied (a short call becomes AllIn)
	Amount    int    // Chips moved from the stack
	Street    Street
	Target    int
	Next      int // Acting seat after the action, NoSeat if none
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// StreetChangeEvent is published when a street closes and the next opens
type StreetChangeEvent struct {
	From      Street
	To        Street
	Pot       int
	Runout    bool // No further betting is possible
	timestamp time.Time
}

func (e StreetChangeEvent) EventType() EventType { return EventTypeStreetChange }
func (e StreetChangeEvent) Timestamp() time.Time { return e.timestamp }

// ShowdownEvent is published when the hand reaches showdown
type ShowdownEvent struct {
	Settlement  Settlement
	Uncontested bool // Everyone else folded
	timestamp   time.Time
}

func (e ShowdownEvent) EventType() EventType { return EventTypeShowdown }
func (e ShowdownEvent) Timestamp() time.Time { return e.timestamp }

// PotAwardedEvent is published when the dealer assigns a pot
type PotAwardedEvent struct {
	PotID     string
	Payouts   []Payout
	timestamp time.Time
}

func (e PotAwardedEvent) EventType() EventType { return EventTypePotAwarded }
func (e PotAwardedEvent) Timestamp() time.Time { return e.timestamp }

// HandUndoneEvent is published when the last action is reverted
type HandUndoneEvent struct {
	Street    Street
	Acting    int
	timestamp time.Time
}

func (e HandUndoneEvent) EventType() EventType { return EventTypeHandUndone }
func (e HandUndoneEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation.
// Subscribers are called synchronously and must not block.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

type nopEventBus struct{}

func (nopEventBus) Subscribe(EventSubscriber)   {}
func (nopEventBus) Unsubscribe(EventSubscriber) {}
func (nopEventBus) Publish(GameEvent)           {}
