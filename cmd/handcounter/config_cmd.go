package main

import (
	"fmt"
)

// ConfigCmd groups configuration commands.
type ConfigCmd struct {
	Validate ConfigValidateCmd `cmd:"" help:"Check the configuration file and print a summary"`
}

// ConfigValidateCmd validates the configuration.
type ConfigValidateCmd struct{}

func (c *ConfigValidateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("%s: ok\n", g.Config)
	for _, t := range cfg.Tables {
		fmt.Printf("  table %s: %d seats, chip unit %d, ante %s, starting stack %d\n",
			t.Name, t.Seats, t.ChipUnit, t.AnteMode, t.StartingStack)
	}
	for i, l := range cfg.Blinds.Levels {
		line := fmt.Sprintf("  level %d: %d/%d", i+1, l.Small, l.Big)
		if l.Ante > 0 {
			line += fmt.Sprintf(" ante %d", l.Ante)
		}
		if l.Minutes > 0 {
			line += fmt.Sprintf(", %d min", l.Minutes)
		}
		fmt.Println(line)
	}
	fmt.Printf("  store: %s\n", cfg.Store.Driver)
	return nil
}
