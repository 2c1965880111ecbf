// Package config loads the dealer tool configuration from HCL.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/dcthang03/hand-counter/internal/blinds"
	"github.com/dcthang03/hand-counter/internal/game"
	"github.com/dcthang03/hand-counter/internal/store"
)

// Environment variables that override the file.
const (
	EnvStoreDriver = "HANDCOUNTER_STORE_DRIVER"
	EnvStoreDSN    = "HANDCOUNTER_STORE_DSN"
	EnvLogLevel    = "HANDCOUNTER_LOG_LEVEL"
)

// Store drivers.
const (
	DriverMemory   = store.DriverMemory
	DriverFile     = store.DriverFile
	DriverSQLite   = store.DriverSQLite
	DriverPostgres = store.DriverPostgres
)

// Config represents the complete configuration
type Config struct {
	LogLevel string        `hcl:"log_level,optional"`
	Tables   []TableConfig `hcl:"table,block"`
	Blinds   *BlindsConfig `hcl:"blinds,block"`
	Store    *StoreConfig  `hcl:"store,block"`
}

// TableConfig defines one dealer table
type TableConfig struct {
	Name          string `hcl:"name,label"`
	Seats         int    `hcl:"seats,optional"`
	ChipUnit      int    `hcl:"chip_unit,optional"`
	AnteMode      string `hcl:"ante_mode,optional"`
	StartingStack int    `hcl:"starting_stack,optional"`
	HistoryLimit  int    `hcl:"history_limit,optional"`
	MergeTiers    *bool  `hcl:"merge_tiers,optional"`
}

// BlindsConfig is the tournament structure, lowest level first
type BlindsConfig struct {
	Levels []LevelConfig `hcl:"level,block"`
}

// LevelConfig is one blind level. Minutes may be omitted on the last level.
type LevelConfig struct {
	Small   int `hcl:"small"`
	Big     int `hcl:"big"`
	Ante    int `hcl:"ante,optional"`
	Minutes int `hcl:"minutes,optional"`
}

// StoreConfig selects where stacks and the button are kept
type StoreConfig struct {
	Driver string `hcl:"driver,optional"`
	DSN    string `hcl:"dsn,optional"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{
		LogLevel: "info",
		Tables:   []TableConfig{{Name: "main"}},
		Blinds: &BlindsConfig{Levels: []LevelConfig{
			{Small: 25, Big: 50, Minutes: 20},
			{Small: 50, Big: 100, Minutes: 20},
			{Small: 75, Big: 150, Ante: 25, Minutes: 20},
			{Small: 100, Big: 200, Ante: 25, Minutes: 20},
			{Small: 150, Big: 300, Ante: 50},
		}},
		Store: &StoreConfig{Driver: DriverMemory},
	}
	c.applyDefaults()
	return c
}

// Load loads configuration from an HCL file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if len(c.Tables) == 0 {
		c.Tables = []TableConfig{{Name: "main"}}
	}
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.Seats == 0 {
			t.Seats = 9
		}
		if t.ChipUnit == 0 {
			t.ChipUnit = 25
		}
		if t.AnteMode == "" {
			t.AnteMode = game.AnteEach.String()
		}
		if t.StartingStack == 0 {
			t.StartingStack = 10000
		}
		if t.MergeTiers == nil {
			merge := true
			t.MergeTiers = &merge
		}
	}
	if c.Blinds == nil || len(c.Blinds.Levels) == 0 {
		c.Blinds = Default().Blinds
	}
	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}
}

// ApplyEnv overrides file settings from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvStoreDriver); ok && v != "" {
		c.Store.Driver = v
	}
	if v, ok := lookup(EnvStoreDSN); ok && v != "" {
		c.Store.DSN = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	names := map[string]bool{}
	for _, t := range c.Tables {
		if names[t.Name] {
			return fmt.Errorf("table %s: defined twice", t.Name)
		}
		names[t.Name] = true
		if t.Seats < 2 || t.Seats > 10 {
			return fmt.Errorf("table %s: seats must be between 2 and 10", t.Name)
		}
		if t.ChipUnit <= 0 {
			return fmt.Errorf("table %s: chip_unit must be positive", t.Name)
		}
		if _, ok := game.ParseAnteMode(t.AnteMode); !ok {
			return fmt.Errorf("table %s: invalid ante_mode %q", t.Name, t.AnteMode)
		}
		if t.StartingStack <= 0 {
			return fmt.Errorf("table %s: starting_stack must be positive", t.Name)
		}
		if t.HistoryLimit < 0 {
			return fmt.Errorf("table %s: history_limit cannot be negative", t.Name)
		}
	}

	for i, l := range c.Blinds.Levels {
		if l.Small <= 0 {
			return fmt.Errorf("blinds level %d: small blind must be positive", i+1)
		}
		if l.Big < l.Small {
			return fmt.Errorf("blinds level %d: big blind must be at least the small blind", i+1)
		}
		if l.Ante < 0 {
			return fmt.Errorf("blinds level %d: ante cannot be negative", i+1)
		}
		if l.Minutes <= 0 && i < len(c.Blinds.Levels)-1 {
			return fmt.Errorf("blinds level %d: minutes must be positive", i+1)
		}
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverFile, DriverSQLite, DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store %s: dsn is required", c.Store.Driver)
		}
	default:
		return fmt.Errorf("store: unknown driver %q", c.Store.Driver)
	}

	return nil
}

// Table returns a table configuration by name
func (c *Config) Table(name string) (TableConfig, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableConfig{}, false
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// BlindLevels converts the blind structure for blinds.NewSchedule.
func (c *Config) BlindLevels() []blinds.Level {
	out := make([]blinds.Level, len(c.Blinds.Levels))
	for i, l := range c.Blinds.Levels {
		out[i] = blinds.Level{
			Small:    l.Small,
			Big:      l.Big,
			Ante:     l.Ante,
			Duration: time.Duration(l.Minutes) * time.Minute,
		}
	}
	return out
}

// Ante returns the table's parsed ante mode.
func (t TableConfig) Ante() game.AnteMode {
	mode, _ := game.ParseAnteMode(t.AnteMode)
	return mode
}
