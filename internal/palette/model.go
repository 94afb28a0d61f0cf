package palette

import (
	"fmt"
	"math"
	"strings"
)

// Strategy selects how a Model derives colors.
type Strategy int

const (
	HueRotation Strategy = iota
	Positional
	SchemaModified
	Banded
)

var strategyNames = map[Strategy]string{
	HueRotation:    "hue",
	Positional:     "positional",
	SchemaModified: "schema",
	Banded:         "banded",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy resolves a strategy by name. Matching is case-insensitive
// and accepts the long forms "hue-rotation" and "schema-modified".
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "hue", "hue-rotation":
		return HueRotation, nil
	case "positional":
		return Positional, nil
	case "schema", "schema-modified":
		return SchemaModified, nil
	case "banded":
		return Banded, nil
	}
	return 0, fmt.Errorf("palette: unknown strategy: %s", name)
}

// StrategyNames lists the canonical strategy names.
func StrategyNames() []string {
	return []string{"hue", "positional", "schema", "banded"}
}

// HueStep is the hue spacing between consecutive values (360 / 10).
const HueStep = 36

// Positional channel constants.
const (
	redValue, redRow     = 123, 45
	greenValue, greenCol = 156, 67
	blueValue, blueSum   = 189, 89
)

// schemaOffsets holds the recognized (schema, tag) hue offsets.
var schemaOffsets = map[[2]string]float64{
	{"schema1", "set1"}: 50,
	{"schema2", "set2"}: 100,
}

var (
	bandLow  = RGB{R: 0x00, G: 0x00, B: 0xff}
	bandMid  = RGB{R: 0x00, G: 0xff, B: 0x00}
	bandHigh = RGB{R: 0xff, G: 0x00, B: 0x00}
)

// Model is a color derivation fixed per grid. The zero value is the
// hue-rotation model.
type Model struct {
	Strategy Strategy
	// Schema and Tag only matter for SchemaModified.
	Schema string
	Tag    string
}

// New returns a model for the given strategy.
func New(s Strategy) Model {
	return Model{Strategy: s}
}

// WithSchema returns a schema-modified model for the pair.
func WithSchema(schema, tag string) Model {
	return Model{Strategy: SchemaModified, Schema: schema, Tag: tag}
}

// Color derives the color of value at (row, col). It is total: any finite
// value, fractional or outside a grid's domain, has a color.
func (m Model) Color(value float64, row, col int) RGB {
	switch m.Strategy {
	case Positional:
		return positional(value, row, col)
	case SchemaModified:
		return hue(value, schemaOffsets[[2]string{m.Schema, m.Tag}])
	case Banded:
		return banded(value)
	default:
		return hue(value, 0)
	}
}

// Palette returns the reference color for every legal value in
// [0, domain) at (row, col). Only the positional strategy depends on the
// position.
func (m Model) Palette(domain, row, col int) []RGB {
	if domain <= 0 {
		return nil
	}
	out := make([]RGB, domain)
	for v := range out {
		out[v] = m.Color(float64(v), row, col)
	}
	return out
}

// PositionDependent reports whether Color varies with row and column.
func (m Model) PositionDependent() bool {
	return m.Strategy == Positional
}

func (m Model) String() string {
	if m.Strategy == SchemaModified {
		return fmt.Sprintf("%s(%s,%s)", m.Strategy, m.Schema, m.Tag)
	}
	return m.Strategy.String()
}

func hue(value, offset float64) RGB {
	h := floorMod(value*HueStep, 360) + offset
	r, g, b := hlsToRGB(h/360, 0.5, 1.0)
	return RGB{R: channel(r), G: channel(g), B: channel(b)}
}

func positional(value float64, row, col int) RGB {
	r, c := float64(row), float64(col)
	return RGB{
		R: uint8(int(floorMod(value*redValue+r*redRow, 256))),
		G: uint8(int(floorMod(value*greenValue+c*greenCol, 256))),
		B: uint8(int(floorMod(value*blueValue+(r+c)*blueSum, 256))),
	}
}

func banded(value float64) RGB {
	switch {
	case value < 2:
		return bandLow
	case value < 3:
		return bandMid
	}
	return bandHigh
}

// IsFinite reports whether v can be colored.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
