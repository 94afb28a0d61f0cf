// Package codec converts between grids and linear token streams.
//
// Every function walks the grid in its canonical row-major order; token i
// addresses (i / cols, i % cols). Decoding tolerates streams of the wrong
// length: surplus tokens are ignored and cells past the end of a short
// stream keep their previous values, which allows partial re-keying of a
// grid from a shorter payload.
package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bclonan/sight/internal/grid"
)

// ErrInvalidToken indicates a token that is not a decimal number or a
// trailing token shorter than the fixed width.
var ErrInvalidToken = errors.New("codec: invalid token")

// TokenWidth is the number of decimal digits needed for the largest value
// of domain, e.g. 1 for domains up to 10 and 3 for 360.
func TokenWidth(domain int) int {
	if domain <= 10 {
		return 1
	}
	return len(strconv.Itoa(domain - 1))
}

// Encode emits one zero-padded token per cell in row-major order, so the
// result is always rows*cols*TokenWidth(domain) characters long.
// Fractional values are floored. A floored value outside the grid's domain
// (left there by Spiral, which works in the 360 hue space) cannot be
// written at that width and is reported as a *grid.CellError wrapping
// grid.ErrValueOutOfRange.
func Encode(g *grid.Grid) (string, error) {
	w := TokenWidth(g.Domain())
	var b strings.Builder
	b.Grow(g.Len() * w)
	for i := range g.Len() {
		c := g.Index(i)
		v := int(math.Floor(c.Value))
		if v < 0 || v >= g.Domain() {
			return "", &grid.CellError{Row: c.Row, Col: c.Col, Value: c.Value, Wrapped: grid.ErrValueOutOfRange}
		}
		fmt.Fprintf(&b, "%0*d", w, v)
	}
	return b.String(), nil
}

// Stats describes how a stream lined up with the grid it was decoded into.
type Stats struct {
	Tokens    int // complete tokens in the stream
	Consumed  int // tokens written to cells
	Ignored   int // surplus tokens past the last cell
	Untouched int // cells left at their prior value
}

// Mismatch returns a wrapped grid.ErrStreamLengthMismatch when the stream
// did not cover the grid exactly, nil otherwise. The mismatch is
// informational; the decode it describes has already succeeded.
func (s Stats) Mismatch() error {
	if s.Ignored == 0 && s.Untouched == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d tokens for %d cells", grid.ErrStreamLengthMismatch, s.Tokens, s.Consumed+s.Untouched)
}

// Decode writes stream tokens into g in row-major order. All tokens that
// would be written are validated first; on error the grid is unchanged.
// A trailing partial token is an error only when it would have landed in a
// cell; past the last cell it is surplus like any other.
func Decode(g *grid.Grid, stream string) (Stats, error) {
	w := TokenWidth(g.Domain())
	stream = strings.TrimSpace(stream)
	if len(stream)%w != 0 && len(stream)/w < g.Len() {
		return Stats{}, fmt.Errorf("%w: %d characters is not a multiple of width %d", ErrInvalidToken, len(stream), w)
	}

	st := Stats{Tokens: len(stream) / w}
	st.Consumed = min(st.Tokens, g.Len())
	st.Ignored = st.Tokens - st.Consumed
	st.Untouched = g.Len() - st.Consumed

	values := make([]int, st.Consumed)
	for i := range values {
		tok := stream[i*w : (i+1)*w]
		v, err := parseToken(tok)
		if err != nil {
			return Stats{}, err
		}
		if v >= g.Domain() {
			return Stats{}, &grid.CellError{Row: i / g.Cols(), Col: i % g.Cols(), Value: float64(v), Wrapped: grid.ErrValueOutOfRange}
		}
		values[i] = v
	}

	for i, v := range values {
		// Cannot fail: coordinates and values were validated above.
		_ = g.Set(i/g.Cols(), i%g.Cols(), float64(v))
	}

	if err := st.Mismatch(); err != nil {
		grid.Logger().Warn("codec: decode length mismatch",
			"tokens", st.Tokens, "cells", g.Len(), "ignored", st.Ignored, "untouched", st.Untouched)
	}
	return st, nil
}

func parseToken(tok string) (int, error) {
	for _, r := range tok {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidToken, tok)
		}
	}
	return strconv.Atoi(tok)
}

// ExpandBits expands each byte into 8 bits, most significant first.
func ExpandBits(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) * 8)
	for _, x := range data {
		for shift := 7; shift >= 0; shift-- {
			b.WriteByte('0' + (x>>shift)&1)
		}
	}
	return b.String()
}

// PackBits is the inverse of ExpandBits. A trailing partial byte is
// dropped.
func PackBits(bits string) ([]byte, error) {
	out := make([]byte, 0, len(bits)/8)
	for i := 0; i+8 <= len(bits); i += 8 {
		var x byte
		for _, r := range bits[i : i+8] {
			if r != '0' && r != '1' {
				return nil, fmt.Errorf("%w: %q", ErrInvalidToken, string(r))
			}
			x = x<<1 | byte(r-'0')
		}
		out = append(out, x)
	}
	return out, nil
}
