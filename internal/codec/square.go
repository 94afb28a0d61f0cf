package codec

import (
	"fmt"
	"math"
	"strings"

	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/palette"
)

// Reshape records how a linear input was folded into a square grid.
type Reshape struct {
	Side    int
	Used    int
	Dropped int
}

// Square returns the side of the largest square that fits n items. The
// n - side² trailing items are dropped by the From* constructors; callers
// needing exact round-trips must pad their input to a perfect square.
func Square(n int) Reshape {
	if n <= 0 {
		return Reshape{}
	}
	side := int(math.Sqrt(float64(n)))
	// Guard against floating error near perfect squares.
	for side*side > n {
		side--
	}
	for (side+1)*(side+1) <= n {
		side++
	}
	return Reshape{Side: side, Used: side * side, Dropped: n - side*side}
}

// FromBytes folds raw bytes into a square grid whose values are the byte
// values (domain 256).
func FromBytes(data []byte, model palette.Model) (*grid.Grid, Reshape, error) {
	rs := Square(len(data))
	if rs.Side == 0 {
		return nil, rs, fmt.Errorf("%w: %d bytes", grid.ErrInvalidDimensions, len(data))
	}
	values := make([][]int, rs.Side)
	for r := range values {
		values[r] = make([]int, rs.Side)
		for c := range values[r] {
			values[r][c] = int(data[r*rs.Side+c])
		}
	}
	logDropped("bytes", rs)
	g, err := grid.FromValues(values, grid.ByteDomain, model)
	return g, rs, err
}

// FromBits expands bytes into bits and folds them into a square binary
// grid.
func FromBits(data []byte, model palette.Model) (*grid.Grid, Reshape, error) {
	return FromTokens(ExpandBits(data), grid.BinaryDomain, model)
}

// FromTokens folds a token stream (as produced by Encode) into a square
// grid of the given domain.
func FromTokens(stream string, domain int, model palette.Model) (*grid.Grid, Reshape, error) {
	stream = strings.TrimSpace(stream)
	w := TokenWidth(domain)
	rs := Square(len(stream) / w)
	if rs.Side == 0 {
		return nil, rs, fmt.Errorf("%w: empty stream", grid.ErrInvalidDimensions)
	}
	g, err := grid.New(rs.Side, rs.Side, domain, model)
	if err != nil {
		return nil, rs, err
	}
	if _, err := Decode(g, stream[:rs.Used*w]); err != nil {
		return nil, rs, err
	}
	logDropped("tokens", rs)
	return g, rs, nil
}

// WriteDigits renders the grid as a token file, the inverse of FromTokens
// for square grids.
func WriteDigits(g *grid.Grid) ([]byte, error) {
	s, err := Encode(g)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func logDropped(unit string, rs Reshape) {
	if rs.Dropped > 0 {
		grid.Logger().Warn("codec: trailing input dropped", "unit", unit, "side", rs.Side, "dropped", rs.Dropped)
	}
}
