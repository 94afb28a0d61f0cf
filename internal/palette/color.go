package palette

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBadHex indicates a color string that is not of the form #rrggbb.
var ErrBadHex = errors.New("palette: malformed hex color")

// RGB is a fixed-width 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as lowercase #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string { return c.Hex() }

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// ParseHex parses #rrggbb (the leading # is optional).
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrBadHex, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrBadHex, s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Average returns the per-channel mean of colors, truncated. An empty
// slice averages to black.
func Average(colors []RGB) RGB {
	if len(colors) == 0 {
		return RGB{}
	}
	var r, g, b int
	for _, c := range colors {
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
	}
	n := len(colors)
	return RGB{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}
}

// L1 is the sum of absolute channel differences between a and b.
func L1(a, b RGB) int {
	return absInt(int(a.R)-int(b.R)) + absInt(int(a.G)-int(b.G)) + absInt(int(a.B)-int(b.B))
}

const (
	oneThird  = 1.0 / 3.0
	oneSixth  = 1.0 / 6.0
	twoThirds = 2.0 / 3.0
)

// hlsToRGB converts HLS in [0,1] to RGB in [0,1]. The arithmetic follows the
// classic colorsys formulation step for step; explicit float64 conversions
// keep the compiler from fusing multiply-adds, which would change the
// truncated channel values on some architectures.
func hlsToRGB(h, l, s float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}
	var m2 float64
	if l <= 0.5 {
		m2 = l * (1.0 + s)
	} else {
		m2 = l + s - float64(l*s)
	}
	m1 := 2.0*l - m2
	return hueChannel(m1, m2, h+oneThird), hueChannel(m1, m2, h), hueChannel(m1, m2, h-oneThird)
}

func hueChannel(m1, m2, hue float64) float64 {
	hue = floorMod(hue, 1.0)
	switch {
	case hue < oneSixth:
		return m1 + float64((m2-m1)*hue*6.0)
	case hue < 0.5:
		return m2
	case hue < twoThirds:
		return m1 + float64((m2-m1)*(twoThirds-hue)*6.0)
	}
	return m1
}

// floorMod is a modulo whose result takes the sign of m.
func floorMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}

func channel(x float64) uint8 {
	return uint8(int(x * 255))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
