// Package transform implements the in-place grid transforms.
//
// Every transform is deterministic in its explicit parameters. Random
// parameter selection, where an adapter wants it, happens outside this
// package (see RandomFrequency).
package transform

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/bclonan/sight/internal/grid"
)

// SpiralDomain is the value space spiral propagation works in,
// independent of the grid's own domain.
const SpiralDomain = 360

// Resonance shifts every value by frequency modulo the grid's domain.
// Applying f1 then f2 equals applying f1+f2 once.
func Resonance(g *grid.Grid, frequency int) error {
	d := float64(g.Domain())
	grid.Logger().Debug("transform: resonance", "frequency", frequency, "domain", g.Domain())
	return g.Map(func(c grid.Cell) float64 {
		return floorMod(c.Value+float64(frequency), d)
	})
}

// Spiral adds power (mod 360) to every cell whose Euclidean distance from
// (row, col) is at most power. The center may lie outside the grid.
//
// The result lives in the 0–359 spiral space even on a decimal grid, so
// afterwards values can exceed the grid's nominal domain.
func Spiral(g *grid.Grid, row, col, power int) error {
	grid.Logger().Debug("transform: spiral", "row", row, "col", col, "power", power)
	return g.Map(func(c grid.Cell) float64 {
		if !WithinRadius(c.Row, c.Col, row, col, power) {
			return c.Value
		}
		return floorMod(c.Value+float64(power), SpiralDomain)
	})
}

// WithinRadius reports whether (r, c) is within the inclusive Euclidean
// radius of (cr, cc).
func WithinRadius(r, c, cr, cc, radius int) bool {
	dr, dc := float64(r-cr), float64(c-cc)
	return math.Sqrt(dr*dr+dc*dc) <= float64(radius)
}

// Diffuse replaces every value with the mean of its existing Moore
// neighbors (up to 8). All means are computed from a snapshot taken before
// any write, so the result does not depend on traversal order. A grid with
// a cell that has no neighbors fails with grid.ErrEmptyNeighborhood and is
// left untouched.
func Diffuse(g *grid.Grid) error {
	rows, cols := g.Rows(), g.Cols()
	if rows*cols <= 1 {
		return fmt.Errorf("%w: %dx%d grid", grid.ErrEmptyNeighborhood, rows, cols)
	}
	snap := g.Snapshot()
	grid.Logger().Debug("transform: diffuse", "rows", rows, "cols", cols)
	return g.Map(func(c grid.Cell) float64 {
		sum, n := neighborSum(snap, rows, cols, c.Row, c.Col)
		return sum / float64(n)
	})
}

// DiffuseInPlace is the single-sweep variant that reads values already
// overwritten earlier in the same pass. It exists to demonstrate why
// Diffuse snapshots first; its output depends on traversal order.
func DiffuseInPlace(g *grid.Grid) error {
	rows, cols := g.Rows(), g.Cols()
	if rows*cols <= 1 {
		return fmt.Errorf("%w: %dx%d grid", grid.ErrEmptyNeighborhood, rows, cols)
	}
	live := g.Snapshot()
	for i := range live {
		sum, n := neighborSum(live, rows, cols, i/cols, i%cols)
		live[i] = sum / float64(n)
	}
	return g.Map(func(c grid.Cell) float64 {
		return live[c.Row*cols+c.Col]
	})
}

// Neighbors returns the values of the existing Moore neighbors of
// (row, col), row-major.
func Neighbors(g *grid.Grid, row, col int) []float64 {
	var out []float64
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if c, err := g.At(row+dr, col+dc); err == nil {
				out = append(out, c.Value)
			}
		}
	}
	return out
}

func neighborSum(vals []float64, rows, cols, row, col int) (float64, int) {
	var sum float64
	n := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			r, c := row+dr, col+dc
			if (dr == 0 && dc == 0) || r < 0 || r >= rows || c < 0 || c >= cols {
				continue
			}
			sum += vals[r*cols+c]
			n++
		}
	}
	return sum, n
}

// RandomFrequency picks a resonance frequency in [1, 9].
func RandomFrequency(rng *rand.Rand) int {
	return rng.Intn(9) + 1
}

func floorMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}
