package blinds

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcthang03/hand-counter/internal/game"
)

var tournament = []Level{
	{Small: 25, Big: 50, Duration: 10 * time.Minute},
	{Small: 50, Big: 100, Ante: 100, Duration: 10 * time.Minute},
	{Small: 100, Big: 200, Ante: 200},
}

func TestScheduleAdvancesWithClock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	clock := quartz.NewMock(t)
	s, err := NewSchedule(clock, game.AnteBigBlind, tournament...)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Index())
	assert.Equal(t, game.Blinds{Small: 25, Big: 50, Mode: game.AnteBigBlind}, s.Current())
	assert.Equal(t, 10*time.Minute, s.Remaining())

	clock.Advance(4 * time.Minute).MustWait(ctx)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 6*time.Minute, s.Remaining())

	clock.Advance(6 * time.Minute).MustWait(ctx)
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, game.Blinds{Small: 50, Big: 100, Ante: 100, Mode: game.AnteBigBlind}, s.Current())

	clock.Advance(time.Hour).MustWait(ctx)
	assert.Equal(t, 2, s.Index(), "final level persists")
	assert.Equal(t, time.Duration(0), s.Remaining())

	s.Restart()
	assert.Equal(t, 0, s.Index())
}

func TestScheduleOnLevelChange(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	s, err := NewSchedule(clock, game.AnteEach, tournament...)
	require.NoError(t, err)

	changes := make(chan int, 4)
	stop := s.OnLevelChange(func(index int, level Level) {
		changes <- index
	})
	defer stop()

	clock.Advance(10 * time.Minute).MustWait(ctx)
	select {
	case idx := <-changes:
		assert.Equal(t, 1, idx)
	case <-ctx.Done():
		t.Fatal("no level change after first level expired")
	}

	clock.Advance(10 * time.Minute).MustWait(ctx)
	select {
	case idx := <-changes:
		assert.Equal(t, 2, idx)
	case <-ctx.Done():
		t.Fatal("no level change after second level expired")
	}
}

func TestNewScheduleValidation(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)

	_, err := NewSchedule(clock, game.AnteEach)
	assert.Error(t, err, "no levels")

	_, err = NewSchedule(clock, game.AnteEach, Level{Small: 50, Big: 25, Duration: time.Minute})
	assert.Error(t, err, "big below small")

	_, err = NewSchedule(clock, game.AnteEach, Level{Small: 5, Big: 10}, Level{Small: 10, Big: 20})
	assert.Error(t, err, "non-final level without duration")

	_, err = NewSchedule(clock, game.AnteEach, Level{Small: 5, Big: 10})
	assert.NoError(t, err, "single untimed level")
}

func TestFixed(t *testing.T) {
	t.Parallel()

	s := Fixed(5, 10, 1, game.AnteEach)
	assert.Equal(t, game.Blinds{Small: 5, Big: 10, Ante: 1}, s.Current())
	assert.Equal(t, time.Duration(0), s.Remaining())
}
