package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/bclonan/sight/internal/grid"
)

// Counts buckets floored cell values into bins equal-width bins spanning
// [0, domain). Values outside the domain land in the nearest end bin.
func Counts(g *grid.Grid, bins int) []float64 {
	if bins <= 0 || bins > g.Domain() {
		bins = g.Domain()
	}
	out := make([]float64, bins)
	width := float64(g.Domain()) / float64(bins)
	g.Each(func(c grid.Cell) {
		i := int(math.Floor(c.Value) / width)
		out[clamp(i, 0, bins-1)]++
	})
	return out
}

// Histogram plots the value distribution of g.
func Histogram(g *grid.Grid, width, height int) string {
	counts := Counts(g, width)
	if len(counts) == 1 {
		counts = append(counts, counts[0])
	}
	return asciigraph.Plot(counts,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("value distribution, domain %d", g.Domain())),
	)
}
