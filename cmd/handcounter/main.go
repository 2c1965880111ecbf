package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/dcthang03/hand-counter/internal/config"
)

// version is set by ldflags during build
var version = "dev"

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

// Globals are shared by every command.
type Globals struct {
	Config string `short:"c" default:"handcounter.hcl" type:"path" help:"HCL configuration file"`
	Debug  bool   `help:"Enable debug logging"`
}

type CLI struct {
	Globals

	Version   kong.VersionFlag `short:"v" help:"Show version"`
	Deal      DealCmd          `cmd:"" help:"Run the dealer console for a table"`
	Pots      PotsCmd          `cmd:"" help:"Split commitments into main and side pots"`
	Simulate  SimulateCmd      `cmd:"" help:"Play random hands and check chip conservation"`
	ConfigCmd ConfigCmd        `cmd:"" name:"config" help:"Work with the configuration file"`
}

func main() {
	// A missing .env is fine; real environment variables win either way.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("handcounter"),
		kong.Description("Chip and pot accounting for a live hold'em dealer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// loadConfig reads the configuration file with environment overrides.
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (g *Globals) logger(level log.Level) *log.Logger {
	if g.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "handcounter",
		Level:           level,
	})
}
