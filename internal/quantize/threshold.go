package quantize

import (
	"fmt"
	"image"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/palette"
)

// ThresholdLevel is the gray level above which a pixel becomes 1.
const ThresholdLevel = 128

// Threshold maps every pixel of img, at its native size, to a binary cell:
// 1 when the truncated channel mean exceeds ThresholdLevel, else 0.
func Threshold(img image.Image, model palette.Model) (*grid.Grid, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", grid.ErrInvalidDimensions)
	}
	b := img.Bounds()
	g, err := grid.New(b.Dy(), b.Dx(), grid.BinaryDomain, model)
	if err != nil {
		return nil, err
	}
	err = g.Map(func(c grid.Cell) float64 {
		p := toRGB(img.At(b.Min.X+c.Col, b.Min.Y+c.Row))
		if (int(p.R)+int(p.G)+int(p.B))/3 > ThresholdLevel {
			return 1
		}
		return 0
	})
	return g, err
}

// Report summarizes the error between a source image and the grid it was
// quantized into.
type Report struct {
	Pixels  int
	MeanL1  float64 // mean L1 distance in RGB units
	MaxL1   int
	MeanDE  float64 // mean CIE76 distance in Lab space
	Exact   int     // pixels whose color matched a palette entry exactly
	Buckets []int   // cells per value
}

// Measure compares img (resampled the same way Quantize does) with g.
func Measure(img image.Image, g *grid.Grid) Report {
	px := Resample(img, g.Cols(), g.Rows())
	rep := Report{Buckets: make([]int, g.Domain())}
	var sumL1, sumDE float64
	g.Each(func(c grid.Cell) {
		src := rgbAt(px, c.Col, c.Row)
		d := palette.L1(src, c.Color)
		sumL1 += float64(d)
		if d > rep.MaxL1 {
			rep.MaxL1 = d
		}
		if d == 0 {
			rep.Exact++
		}
		sumDE += colorful.Color{R: float64(src.R) / 255, G: float64(src.G) / 255, B: float64(src.B) / 255}.
			DistanceLab(colorful.Color{R: float64(c.Color.R) / 255, G: float64(c.Color.G) / 255, B: float64(c.Color.B) / 255})
		if v := int(c.Value); v >= 0 && v < len(rep.Buckets) {
			rep.Buckets[v]++
		}
		rep.Pixels++
	})
	if rep.Pixels > 0 {
		rep.MeanL1 = sumL1 / float64(rep.Pixels)
		rep.MeanDE = sumDE / float64(rep.Pixels)
	}
	return rep
}
