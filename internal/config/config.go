package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bclonan/sight/internal/digest"
	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/palette"
)

const (
	DefaultRows     = 100
	DefaultCols     = 100
	DefaultDomain   = grid.DecimalDomain
	DefaultCellSize = 10
	DefaultDataDir  = ".sight"
	DefaultAddr     = "127.0.0.1:5000"
	DefaultTheme    = "cyberpunk"
)

type Config struct {
	Grid    GridConfig   `yaml:"grid"`
	Render  RenderConfig `yaml:"render"`
	Digest  string       `yaml:"digest"`
	DataDir string       `yaml:"data_dir"`
	Server  ServerConfig `yaml:"server"`
}

type GridConfig struct {
	Rows     int    `yaml:"rows"`
	Cols     int    `yaml:"cols"`
	Domain   int    `yaml:"domain"`
	Strategy string `yaml:"strategy"`
	Schema   string `yaml:"schema"`
	Tag      string `yaml:"tag"`
}

type RenderConfig struct {
	CellSize int    `yaml:"cell_size"`
	Theme    string `yaml:"theme"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Seed fills the initial grid when no source file is given; 0 picks
	// a time-based seed.
	Seed int64 `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			Rows:     DefaultRows,
			Cols:     DefaultCols,
			Domain:   DefaultDomain,
			Strategy: palette.HueRotation.String(),
		},
		Render: RenderConfig{
			CellSize: DefaultCellSize,
			Theme:    DefaultTheme,
		},
		Digest:  string(digest.SHA256),
		DataDir: DefaultDataDir,
		Server:  ServerConfig{Addr: DefaultAddr},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(DefaultConfig(), path)
}

// LoadOver reads path on top of base, so keys missing from the file keep
// base's values. base is modified and returned.
func LoadOver(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Grid.Rows <= 0 || c.Grid.Cols <= 0 {
		return fmt.Errorf("%w: %dx%d", grid.ErrInvalidDimensions, c.Grid.Rows, c.Grid.Cols)
	}
	if c.Grid.Domain <= 0 {
		return fmt.Errorf("%w: domain %d", grid.ErrValueOutOfRange, c.Grid.Domain)
	}
	if _, err := c.Model(); err != nil {
		return err
	}
	if _, err := digest.ParseAlgorithm(c.Digest); err != nil {
		return err
	}
	return nil
}

// Model builds the color model the grid section describes.
func (c *Config) Model() (palette.Model, error) {
	s, err := palette.ParseStrategy(c.Grid.Strategy)
	if err != nil {
		return palette.Model{}, err
	}
	return palette.Model{Strategy: s, Schema: c.Grid.Schema, Tag: c.Grid.Tag}, nil
}

// Algorithm returns the configured digest algorithm, SHA256 if unset.
func (c *Config) Algorithm() digest.Algorithm {
	a, err := digest.ParseAlgorithm(c.Digest)
	if err != nil {
		return digest.SHA256
	}
	return a
}

// NewGrid creates an all-zero grid with the configured shape and model.
func (c *Config) NewGrid() (*grid.Grid, error) {
	m, err := c.Model()
	if err != nil {
		return nil, err
	}
	return grid.New(c.Grid.Rows, c.Grid.Cols, c.Grid.Domain, m)
}
