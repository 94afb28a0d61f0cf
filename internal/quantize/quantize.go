// Package quantize maps raster images onto grids and back.
//
// Quantization treats the grid's color model as a fixed codebook: every
// pixel becomes the value whose palette color is nearest under the L1
// (sum of absolute channel differences) metric, ties going to the smallest
// value. Rasterization draws one flat square per cell.
package quantize

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/palette"
)

// DefaultCellSize is the side, in pixels, of one rasterized cell.
const DefaultCellSize = 10

// Quantize resamples img to cols × rows pixels (center-cropping to the
// target aspect ratio first) and assigns each cell the nearest palette
// value.
func Quantize(img image.Image, rows, cols, domain int, model palette.Model) (*grid.Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: target %dx%d", grid.ErrInvalidDimensions, rows, cols)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", grid.ErrInvalidDimensions)
	}

	px := Resample(img, cols, rows)
	g, err := grid.New(rows, cols, domain, model)
	if err != nil {
		return nil, err
	}

	shared := model.Palette(domain, 0, 0)
	err = g.Map(func(c grid.Cell) float64 {
		pal := shared
		if model.PositionDependent() {
			pal = model.Palette(domain, c.Row, c.Col)
		}
		v, _ := Nearest(rgbAt(px, c.Col, c.Row), pal)
		return float64(v)
	})
	if err != nil {
		return nil, err
	}

	grid.Logger().Debug("quantize: image mapped",
		"src", img.Bounds().Size(), "rows", rows, "cols", cols, "domain", domain, "model", model.String())
	return g, nil
}

// Nearest returns the index of the palette entry closest to px under L1
// distance and that distance. Ties resolve to the lowest index.
func Nearest(px palette.RGB, pal []palette.RGB) (int, int) {
	best, bestDist := 0, -1
	for v, ref := range pal {
		d := palette.L1(px, ref)
		if bestDist < 0 || d < bestDist {
			best, bestDist = v, d
		}
	}
	return best, bestDist
}

// Resample returns img center-cropped to the aspect of w × h and scaled
// to exactly w × h with a Catmull-Rom filter. An image already w × h is
// copied pixel for pixel.
func Resample(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	src := img.Bounds()
	if src.Dx() == w && src.Dy() == h {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, CenterCrop(src, w, h), xdraw.Src, nil)
	return dst
}

// CenterCrop returns the largest centered sub-rectangle of r with the
// aspect ratio w:h.
func CenterCrop(r image.Rectangle, w, h int) image.Rectangle {
	sw, sh := r.Dx(), r.Dy()
	// Compare sw/sh with w/h without division.
	switch {
	case sw*h > w*sh:
		cw := sh * w / h
		if cw < 1 {
			cw = 1
		}
		x0 := r.Min.X + (sw-cw)/2
		return image.Rect(x0, r.Min.Y, x0+cw, r.Max.Y)
	case sw*h < w*sh:
		ch := sw * h / w
		if ch < 1 {
			ch = 1
		}
		y0 := r.Min.Y + (sh-ch)/2
		return image.Rect(r.Min.X, y0, r.Max.X, y0+ch)
	}
	return r
}

// Rasterize draws each cell as a cellSize × cellSize square of its exact
// color. A non-positive cellSize uses DefaultCellSize.
func Rasterize(g *grid.Grid, cellSize int) *image.RGBA {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	img := image.NewRGBA(image.Rect(0, 0, g.Cols()*cellSize, g.Rows()*cellSize))
	g.Each(func(c grid.Cell) {
		x, y := c.Col*cellSize, c.Row*cellSize
		fill := image.NewUniform(color.RGBA{R: c.Color.R, G: c.Color.G, B: c.Color.B, A: 0xff})
		draw.Draw(img, image.Rect(x, y, x+cellSize, y+cellSize), fill, image.Point{}, draw.Src)
	})
	return img
}

// FromPixels builds an image from a row-major RGB buffer of w × h pixels.
func FromPixels(w, h int, pixels []palette.RGB) (*image.RGBA, error) {
	if w <= 0 || h <= 0 || len(pixels) != w*h {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d", grid.ErrInvalidDimensions, len(pixels), w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, p := range pixels {
		img.SetRGBA(i%w, i/w, color.RGBA{R: p.R, G: p.G, B: p.B, A: 0xff})
	}
	return img, nil
}

// Pixels flattens img into a row-major RGB buffer, dropping alpha.
func Pixels(img image.Image) []palette.RGB {
	b := img.Bounds()
	out := make([]palette.RGB, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, toRGB(img.At(x, y)))
		}
	}
	return out
}

func rgbAt(img *image.RGBA, x, y int) palette.RGB {
	c := img.RGBAAt(x, y)
	return palette.RGB{R: c.R, G: c.G, B: c.B}
}

func toRGB(c color.Color) palette.RGB {
	r, g, b, _ := c.RGBA()
	return palette.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}
