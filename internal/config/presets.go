package config

import "sort"

var Presets = map[string]*Config{
	"decimal": {
		Grid:   GridConfig{Rows: 100, Cols: 100, Domain: 10, Strategy: "hue"},
		Render: RenderConfig{CellSize: 10},
	},
	"binary": {
		Grid:   GridConfig{Rows: 64, Cols: 64, Domain: 2, Strategy: "hue"},
		Render: RenderConfig{CellSize: 10},
	},
	"hue360": {
		Grid:   GridConfig{Rows: 100, Cols: 100, Domain: 360, Strategy: "positional"},
		Render: RenderConfig{CellSize: 10},
	},
	"bytes": {
		Grid:   GridConfig{Rows: 32, Cols: 32, Domain: 256, Strategy: "hue"},
		Render: RenderConfig{CellSize: 10},
	},
	"schema1": {
		Grid:   GridConfig{Rows: 100, Cols: 100, Domain: 10, Strategy: "schema", Schema: "schema1", Tag: "set1"},
		Render: RenderConfig{CellSize: 10},
	},
	"schema2": {
		Grid:   GridConfig{Rows: 100, Cols: 100, Domain: 10, Strategy: "schema", Schema: "schema2", Tag: "set2"},
		Render: RenderConfig{CellSize: 10},
	},
	"rekey": {
		Grid:   GridConfig{Rows: 10, Cols: 10, Domain: 10, Strategy: "banded"},
		Render: RenderConfig{CellSize: 10},
	},
	"server": {
		Grid:   GridConfig{Rows: 10, Cols: 10, Domain: 10, Strategy: "hue"},
		Render: RenderConfig{CellSize: 10},
	},
}

// GetPreset returns a full config with the preset's grid and render
// sections applied over the defaults, or nil for an unknown name.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Grid = p.Grid
	if p.Render.CellSize > 0 {
		cfg.Render.CellSize = p.Render.CellSize
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
