package game

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilOptionsKeepDefaults(t *testing.T) {
	t.Parallel()

	cfg := defaultHandConfig()
	for _, opt := range []HandOption{WithLogger(nil), WithEventBus(nil), WithClock(nil)} {
		opt(cfg)
	}

	assert.NotNil(t, cfg.logger)
	assert.Equal(t, nopEventBus{}, cfg.bus)
	assert.NotNil(t, cfg.clock)
	assert.Equal(t, 1, cfg.chipUnit)
	assert.Zero(t, cfg.historyLimit)
}

func TestWithPotOptionsAccumulates(t *testing.T) {
	t.Parallel()

	cfg := defaultHandConfig()
	WithPotOptions(WithTierMerge(false))(cfg)
	WithPotOptions(WithTierMerge(true))(cfg)
	assert.Len(t, cfg.potOpts, 2)
}

func TestWithClockStampsEvents(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	start := clock.Now()
	bus := NewEventBus()
	rec := &eventRecorder{}
	bus.Subscribe(rec)

	h := newTestHand(t, 1, Blinds{Small: 5, Big: 10}, map[int]int{1: 1000, 2: 1000, 3: 1000},
		WithClock(clock), WithEventBus(bus))

	clock.Advance(time.Second).MustWait(context.Background())
	require.NoError(t, h.Call(1))

	require.Len(t, rec.events, 2)
	assert.Equal(t, start, rec.events[0].Timestamp())
	assert.Equal(t, start.Add(time.Second), rec.events[1].Timestamp())
}

func TestWithChipUnitRejectsNonPositive(t *testing.T) {
	t.Parallel()

	_, err := NewHand(6, 1, []Entrant{{Seat: 1, Player: "a", Stack: 100}, {Seat: 2, Player: "b", Stack: 100}},
		Blinds{Small: 1, Big: 2}, WithChipUnit(0))
	assert.Error(t, err)
}
