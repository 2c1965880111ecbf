package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// HandOption configures a Hand during creation.
type HandOption func(*handConfig)

// handConfig holds the optional configuration for a hand.
type handConfig struct {
	logger       *log.Logger
	bus          EventBus
	clock        quartz.Clock
	chipUnit     int
	historyLimit int
	potOpts      []PotOption
}

func defaultHandConfig() *handConfig {
	return &handConfig{
		logger:   log.New(io.Discard),
		bus:      nopEventBus{},
		clock:    quartz.NewReal(),
		chipUnit: 1,
	}
}

// WithLogger sets the logger used for hand diagnostics.
func WithLogger(logger *log.Logger) HandOption {
	return func(c *handConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEventBus publishes hand events to bus.
func WithEventBus(bus EventBus) HandOption {
	return func(c *handConfig) {
		if bus != nil {
			c.bus = bus
		}
	}
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) HandOption {
	return func(c *handConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithChipUnit sets the smallest chip denomination in play. Pot splits are
// rounded to multiples of it. Default is 1.
func WithChipUnit(unit int) HandOption {
	return func(c *handConfig) {
		c.chipUnit = unit
	}
}

// WithHistoryLimit bounds the number of undo snapshots kept. The default
// keeps every action of the hand.
func WithHistoryLimit(limit int) HandOption {
	return func(c *handConfig) {
		c.historyLimit = limit
	}
}

// WithPotOptions passes options to BuildPots at showdown.
func WithPotOptions(opts ...PotOption) HandOption {
	return func(c *handConfig) {
		c.potOpts = append(c.potOpts, opts...)
	}
}
