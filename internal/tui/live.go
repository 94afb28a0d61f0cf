package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws a grid to a plain terminal as a batch job steps
// through it. Frames arriving faster than frameRate are dropped.
type LiveRenderer struct {
	out       io.Writer
	frameRate int
	lastFrame time.Time
	opts      viz.RenderOptions
	frames    int
	overview  *viz.Canvas
}

func NewLiveRenderer(out io.Writer, frameRate int, opts viz.RenderOptions) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 10
	}
	return &LiveRenderer{out: out, frameRate: frameRate, opts: opts}
}

// OnStep matches automation.Observer.
func (r *LiveRenderer) OnStep(g *grid.Grid, step int, label, digest string) {
	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()
	r.frames++

	fmt.Fprint(r.out, clearScreen)
	fmt.Fprintln(r.out, viz.RenderGrid(g, r.opts))
	if r.clipped(g) {
		fmt.Fprint(r.out, r.minimap(g).String())
	}
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s  %s\n", viz.Metric("step", fmt.Sprintf("%d", step)), viz.Subtle.Render(label))
	fmt.Fprintf(r.out, "%s  %s\n", viz.Metric("avg", g.Average().Hex()), viz.Metric("digest", digest))
}

func (r *LiveRenderer) clipped(g *grid.Grid) bool {
	return (r.opts.MaxRows > 0 && g.Rows() > r.opts.MaxRows) ||
		(r.opts.MaxCols > 0 && g.Cols() > r.opts.MaxCols)
}

// minimap redraws the overview of nonzero cells, reusing the canvas
// between frames.
func (r *LiveRenderer) minimap(g *grid.Grid) *viz.Canvas {
	w, h := (g.Cols()+1)/2, (g.Rows()+3)/4
	if r.overview == nil || r.overview.Width != w || r.overview.Height != h {
		r.overview = viz.NewCanvas(w, h)
	}
	r.overview.Plot(g, 1)
	return r.overview
}

// Frames is the number of frames drawn so far.
func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
