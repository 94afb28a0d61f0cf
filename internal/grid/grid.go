package grid

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/bclonan/sight/internal/palette"
)

// ErrOutOfBounds indicates a coordinate outside the grid.
var ErrOutOfBounds = errors.New("grid: coordinate out of bounds")

// Common value domains.
const (
	BinaryDomain  = 2
	DecimalDomain = 10
	ByteDomain    = 256
	HueDomain     = 360
)

// Cell is a read-only view of one grid position. Its Color is always the
// grid model's color for Value at (Row, Col).
type Cell struct {
	Row   int
	Col   int
	Value float64
	Color palette.RGB
}

// Tile is the (row, col, color) tuple handed to renderers.
type Tile struct {
	Row int    `json:"row"`
	Col int    `json:"col"`
	Hex string `json:"color"`
}

// Grid owns rows × cols cells stored in row-major order.
type Grid struct {
	rows, cols int
	domain     int
	model      palette.Model
	cells      []Cell
}

// New creates a rows × cols grid with every value zero.
func New(rows, cols, domain int, model palette.Model) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}
	if domain <= 0 {
		return nil, fmt.Errorf("%w: domain %d", ErrValueOutOfRange, domain)
	}
	g := &Grid{
		rows:   rows,
		cols:   cols,
		domain: domain,
		model:  model,
		cells:  make([]Cell, rows*cols),
	}
	for i := range g.cells {
		r, c := i/cols, i%cols
		g.cells[i] = Cell{Row: r, Col: c, Color: model.Color(0, r, c)}
	}
	return g, nil
}

// FromValues builds a grid from a rectangular integer matrix. Every value
// must lie in [0, domain).
func FromValues(values [][]int, domain int, model palette.Model) (*Grid, error) {
	rows, cols, err := shape(len(values), func(i int) int { return len(values[i]) })
	if err != nil {
		return nil, err
	}
	g, err := New(rows, cols, domain, model)
	if err != nil {
		return nil, err
	}
	for r, row := range values {
		for c, v := range row {
			if v < 0 || v >= domain {
				return nil, &CellError{Row: r, Col: c, Value: float64(v), Wrapped: ErrValueOutOfRange}
			}
			g.write(r*cols+c, float64(v))
		}
	}
	return g, nil
}

// FromFloats is FromValues for real-valued matrices.
func FromFloats(values [][]float64, domain int, model palette.Model) (*Grid, error) {
	rows, cols, err := shape(len(values), func(i int) int { return len(values[i]) })
	if err != nil {
		return nil, err
	}
	g, err := New(rows, cols, domain, model)
	if err != nil {
		return nil, err
	}
	for r, row := range values {
		for c, v := range row {
			if err := g.check(r, c, v); err != nil {
				return nil, err
			}
			g.write(r*cols+c, v)
		}
	}
	return g, nil
}

func shape(rows int, width func(int) int) (int, int, error) {
	if rows == 0 {
		return 0, 0, fmt.Errorf("%w: no rows", ErrInvalidDimensions)
	}
	cols := width(0)
	for i := 1; i < rows; i++ {
		if width(i) != cols {
			return 0, 0, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidDimensions, i, width(i), cols)
		}
	}
	return rows, cols, nil
}

func (g *Grid) Rows() int   { return g.rows }
func (g *Grid) Cols() int   { return g.cols }
func (g *Grid) Len() int    { return len(g.cells) }
func (g *Grid) Domain() int { return g.domain }

// Model returns the color model fixed at construction.
func (g *Grid) Model() palette.Model { return g.model }

// InBounds reports whether (row, col) addresses a cell.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At returns the cell at (row, col).
func (g *Grid) At(row, col int) (Cell, error) {
	if !g.InBounds(row, col) {
		return Cell{}, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, row, col, g.rows, g.cols)
	}
	return g.cells[row*g.cols+col], nil
}

// Index returns the cell at row-major index i.
func (g *Grid) Index(i int) Cell {
	return g.cells[i]
}

// Set assigns a value in [0, domain) and recomputes the cell's color.
func (g *Grid) Set(row, col int, value float64) error {
	if !g.InBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, row, col, g.rows, g.cols)
	}
	if err := g.check(row, col, value); err != nil {
		return err
	}
	g.write(row*g.cols+col, value)
	return nil
}

func (g *Grid) check(row, col int, value float64) error {
	if !palette.IsFinite(value) || value < 0 || value >= float64(g.domain) {
		return &CellError{Row: row, Col: col, Value: value, Wrapped: ErrValueOutOfRange}
	}
	return nil
}

// Map replaces every value with fn(cell), in row-major order, and recomputes
// all colors. Unlike Set it does not enforce the domain, so transforms with
// their own value space can use it. All results are computed before any
// cell is written; a non-finite result aborts without mutation.
func (g *Grid) Map(fn func(Cell) float64) error {
	next := make([]float64, len(g.cells))
	for i, c := range g.cells {
		v := fn(c)
		if !palette.IsFinite(v) {
			return &CellError{Row: c.Row, Col: c.Col, Value: v, Wrapped: ErrValueOutOfRange}
		}
		next[i] = v
	}
	for i, v := range next {
		g.write(i, v)
	}
	return nil
}

func (g *Grid) write(i int, v float64) {
	c := &g.cells[i]
	c.Value = v
	c.Color = g.model.Color(v, c.Row, c.Col)
}

// Each calls fn for every cell in canonical row-major order.
func (g *Grid) Each(fn func(Cell)) {
	for _, c := range g.cells {
		fn(c)
	}
}

// Snapshot returns a row-major copy of all values.
func (g *Grid) Snapshot() []float64 {
	out := make([]float64, len(g.cells))
	for i, c := range g.cells {
		out[i] = c.Value
	}
	return out
}

// Values returns the values as a rows × cols matrix.
func (g *Grid) Values() [][]float64 {
	out := make([][]float64, g.rows)
	for r := range out {
		out[r] = make([]float64, g.cols)
		for c := range out[r] {
			out[r][c] = g.cells[r*g.cols+c].Value
		}
	}
	return out
}

// Ints returns the values floored to integers.
func (g *Grid) Ints() [][]int {
	out := make([][]int, g.rows)
	for r := range out {
		out[r] = make([]int, g.cols)
		for c := range out[r] {
			out[r][c] = int(math.Floor(g.cells[r*g.cols+c].Value))
		}
	}
	return out
}

// Colors returns every cell color in row-major order.
func (g *Grid) Colors() []palette.RGB {
	out := make([]palette.RGB, len(g.cells))
	for i, c := range g.cells {
		out[i] = c.Color
	}
	return out
}

// Tiles returns the render tuples in row-major order.
func (g *Grid) Tiles() []Tile {
	out := make([]Tile, len(g.cells))
	for i, c := range g.cells {
		out[i] = Tile{Row: c.Row, Col: c.Col, Hex: c.Color.Hex()}
	}
	return out
}

// Average is the truncated per-channel mean of all cell colors.
func (g *Grid) Average() palette.RGB {
	return palette.Average(g.Colors())
}

// Clone returns an independent copy.
func (g *Grid) Clone() *Grid {
	c := *g
	c.cells = make([]Cell, len(g.cells))
	copy(c.cells, g.cells)
	return &c
}

// Equal reports whether both grids have the same shape, domain and cells.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.rows != other.rows || g.cols != other.cols || g.domain != other.domain {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

func (g *Grid) String() string {
	var b strings.Builder
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(formatValue(g.cells[r*g.cols+c].Value))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.3g", v)
}
