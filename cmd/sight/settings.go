package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bclonan/sight/internal/config"
	"github.com/bclonan/sight/internal/palette"
	"github.com/bclonan/sight/internal/storage"
	"github.com/bclonan/sight/internal/viz"
)

// resolveConfig layers defaults, then the preset, then the config file
// (only the keys it sets), then any flag the user actually set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(cfg, configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("rows") {
		cfg.Grid.Rows = rows
	}
	if flags.Changed("cols") {
		cfg.Grid.Cols = cols
	}
	if flags.Changed("domain") {
		cfg.Grid.Domain = domain
	}
	if flags.Changed("strategy") {
		cfg.Grid.Strategy = strategy
	}
	if flags.Changed("schema") {
		cfg.Grid.Schema = schema
	}
	if flags.Changed("tag") {
		cfg.Grid.Tag = tag
	}
	if flags.Changed("digest") {
		cfg.Digest = algo
	}
	if flags.Changed("theme") {
		cfg.Render.Theme = theme
	}
	if flags.Changed("cell-size") {
		cfg.Render.CellSize = cellSize
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	viz.SetTheme(cfg.Render.Theme)
	return cfg, nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func mustModel(cfg *config.Config) palette.Model {
	m, _ := cfg.Model()
	return m
}
