package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/palette"
	"github.com/bclonan/sight/internal/transform"
)

var hue = palette.New(palette.HueRotation)

func TestEncode(t *testing.T) {
	g, err := grid.FromValues([][]int{{1, 2, 3}, {4, 5, 6}}, grid.DecimalDomain, hue)
	require.NoError(t, err)
	stream, err := Encode(g)
	require.NoError(t, err)
	assert.Equal(t, "123456", stream)

	wide, err := grid.FromValues([][]int{{7, 359}, {42, 0}}, grid.HueDomain, hue)
	require.NoError(t, err)
	stream, err = Encode(wide)
	require.NoError(t, err)
	assert.Equal(t, "007359042000", stream)
}

func TestRoundTrip(t *testing.T) {
	src, err := grid.FromValues([][]int{
		{0, 1, 2, 3},
		{4, 5, 6, 7},
		{8, 9, 0, 1},
	}, grid.DecimalDomain, hue)
	require.NoError(t, err)

	dst, err := grid.New(3, 4, grid.DecimalDomain, hue)
	require.NoError(t, err)

	stream, err := Encode(src)
	require.NoError(t, err)
	st, err := Decode(dst, stream)
	require.NoError(t, err)
	assert.NoError(t, st.Mismatch())
	assert.Equal(t, 12, st.Consumed)
	assert.True(t, src.Equal(dst), "decoded grid differs:\n%s\nvs\n%s", src, dst)
}

func TestDecode_ExtraTokensIgnored(t *testing.T) {
	g, err := grid.New(2, 2, grid.DecimalDomain, hue)
	require.NoError(t, err)

	st, err := Decode(g, "123456789")
	require.NoError(t, err)
	assert.Equal(t, Stats{Tokens: 9, Consumed: 4, Ignored: 5}, st)
	assert.ErrorIs(t, st.Mismatch(), grid.ErrStreamLengthMismatch)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}}, g.Ints())
}

func TestDecode_ShortStreamKeepsPriorValues(t *testing.T) {
	g, err := grid.FromValues([][]int{{9, 9, 9}, {9, 9, 9}}, grid.DecimalDomain, hue)
	require.NoError(t, err)

	st, err := Decode(g, "12")
	require.NoError(t, err)
	assert.Equal(t, 4, st.Untouched)
	assert.ErrorIs(t, st.Mismatch(), grid.ErrStreamLengthMismatch)
	assert.Equal(t, [][]int{{1, 2, 9}, {9, 9, 9}}, g.Ints())

	c, err := g.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, hue.Color(2, 0, 1), c.Color)
}

func TestDecode_InvalidLeavesGridUntouched(t *testing.T) {
	tests := []struct {
		name   string
		domain int
		stream string
		want   error
	}{
		{"letter", grid.DecimalDomain, "12a4", ErrInvalidToken},
		{"binary overflow", grid.BinaryDomain, "0120", grid.ErrValueOutOfRange},
		{"partial token", grid.HueDomain, "00100", ErrInvalidToken},
		{"hue overflow", grid.HueDomain, "001360", grid.ErrValueOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := grid.New(2, 2, tt.domain, hue)
			require.NoError(t, err)
			before := g.Clone()

			_, err = Decode(g, tt.stream)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, g.Equal(before))
		})
	}
}

func TestDecode_IgnoresInvalidSurplus(t *testing.T) {
	g, err := grid.New(1, 2, grid.BinaryDomain, hue)
	require.NoError(t, err)
	_, err = Decode(g, "10xyz9")
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 0}}, g.Ints())
}

func TestDecode_PartialTokenInSurplus(t *testing.T) {
	g, err := grid.New(1, 2, grid.HueDomain, hue)
	require.NoError(t, err)

	st, err := Decode(g, "00735904")
	require.NoError(t, err)
	assert.Equal(t, Stats{Tokens: 2, Consumed: 2}, st)
	assert.Equal(t, [][]int{{7, 359}}, g.Ints())
}

func TestEncode_OutOfDomainValues(t *testing.T) {
	g, err := grid.FromValues([][]int{{1, 2}, {3, 4}}, grid.DecimalDomain, hue)
	require.NoError(t, err)
	require.NoError(t, transform.Spiral(g, 0, 0, 8))
	require.Equal(t, [][]int{{9, 10}, {11, 12}}, g.Ints())

	stream, err := Encode(g)
	assert.ErrorIs(t, err, grid.ErrValueOutOfRange)
	assert.Empty(t, stream)
	var ce *grid.CellError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 0, ce.Row)
	assert.Equal(t, 1, ce.Col)

	_, err = WriteDigits(g)
	assert.ErrorIs(t, err, grid.ErrValueOutOfRange)
}

func TestEncode_LengthAfterSpiral(t *testing.T) {
	// A spiral that stays inside the decimal range must still round-trip
	// at one character per cell.
	g, err := grid.FromValues([][]int{{1, 2, 3}, {4, 5, 6}}, grid.DecimalDomain, hue)
	require.NoError(t, err)
	require.NoError(t, transform.Spiral(g, 0, 0, 1))

	stream, err := Encode(g)
	require.NoError(t, err)
	assert.Len(t, stream, g.Len()*TokenWidth(g.Domain()))

	dst, err := grid.New(2, 3, grid.DecimalDomain, hue)
	require.NoError(t, err)
	st, err := Decode(dst, stream)
	require.NoError(t, err)
	assert.NoError(t, st.Mismatch())
	assert.True(t, g.Equal(dst))
}

func TestExpandBits(t *testing.T) {
	assert.Equal(t, "0000000111111111", ExpandBits([]byte{0x01, 0xff}))
	assert.Equal(t, "01000001", ExpandBits([]byte("A")))
	assert.Empty(t, ExpandBits(nil))

	back, err := PackBits(ExpandBits([]byte("grid")))
	require.NoError(t, err)
	assert.Equal(t, []byte("grid"), back)

	_, err = PackBits("0000000x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSquare(t *testing.T) {
	tests := []struct {
		n    int
		want Reshape
	}{
		{0, Reshape{}},
		{1, Reshape{Side: 1, Used: 1}},
		{9, Reshape{Side: 3, Used: 9}},
		{10, Reshape{Side: 3, Used: 9, Dropped: 1}},
		{15, Reshape{Side: 3, Used: 9, Dropped: 6}},
		{16, Reshape{Side: 4, Used: 16}},
		{10000, Reshape{Side: 100, Used: 10000}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Square(tt.n), "n=%d", tt.n)
	}
}

func TestFromBytes_Truncates(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 99}
	g, rs, err := FromBytes(data, hue)
	require.NoError(t, err)
	assert.Equal(t, Reshape{Side: 3, Used: 9, Dropped: 1}, rs)
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 3, g.Cols())
	assert.Equal(t, grid.ByteDomain, g.Domain())
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}}, g.Ints())

	_, _, err = FromBytes(nil, hue)
	assert.ErrorIs(t, err, grid.ErrInvalidDimensions)
}

func TestFromBits(t *testing.T) {
	g, rs, err := FromBits([]byte{0xf0, 0x0f}, hue)
	require.NoError(t, err)
	assert.Equal(t, 4, rs.Side)
	assert.Equal(t, grid.BinaryDomain, g.Domain())
	stream, err := Encode(g)
	require.NoError(t, err)
	assert.Equal(t, "1111000000001111", stream)
}

func TestFromTokens(t *testing.T) {
	g, rs, err := FromTokens("123456789\n", grid.DecimalDomain, hue)
	require.NoError(t, err)
	assert.Zero(t, rs.Dropped)
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, g.Ints())
	digits, err := WriteDigits(g)
	require.NoError(t, err)
	assert.Equal(t, "123456789", string(digits))

	g, rs, err = FromTokens("1234567890", grid.DecimalDomain, hue)
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Dropped)
	assert.Equal(t, 3, g.Rows())

	_, _, err = FromTokens("   ", grid.DecimalDomain, hue)
	assert.True(t, errors.Is(err, grid.ErrInvalidDimensions))

	_, _, err = FromTokens(strings.Repeat("5", 4), grid.BinaryDomain, hue)
	assert.ErrorIs(t, err, grid.ErrValueOutOfRange)
}
