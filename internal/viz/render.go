package viz

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bclonan/sight/internal/grid"
)

// RenderOptions controls RenderGrid. The zero value draws every cell two
// characters wide with no labels.
type RenderOptions struct {
	CellWidth  int
	ShowValues bool

	// Viewport; MaxRows/MaxCols of 0 mean no limit.
	RowOffset, ColOffset int
	MaxRows, MaxCols     int

	Cursor               bool
	CursorRow, CursorCol int
}

// RenderGrid paints each cell as a block with the cell color as
// background. Labels show the floored value, right-aligned and clipped
// to the cell width.
func RenderGrid(g *grid.Grid, opts RenderOptions) string {
	w := opts.CellWidth
	if w <= 0 {
		w = 2
	}
	r0, c0 := clamp(opts.RowOffset, 0, g.Rows()-1), clamp(opts.ColOffset, 0, g.Cols()-1)
	r1, c1 := g.Rows(), g.Cols()
	if opts.MaxRows > 0 && r0+opts.MaxRows < r1 {
		r1 = r0 + opts.MaxRows
	}
	if opts.MaxCols > 0 && c0+opts.MaxCols < c1 {
		c1 = c0 + opts.MaxCols
	}

	var b strings.Builder
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			cell, _ := g.At(r, c)
			text := strings.Repeat(" ", w)
			if opts.ShowValues {
				text = label(cell.Value, w)
			}
			style := lipgloss.NewStyle().
				Background(lipgloss.Color(cell.Color.Hex())).
				Foreground(lipgloss.Color(ContrastText(cell.Color).Hex()))
			if opts.Cursor && r == opts.CursorRow && c == opts.CursorCol {
				style = style.Reverse(true).Bold(true)
				if !opts.ShowValues {
					text = cursorMark(w)
				}
			}
			b.WriteString(style.Render(text))
		}
		if r < r1-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func label(v float64, w int) string {
	s := strconv.Itoa(int(math.Floor(v)))
	if len(s) > w {
		s = s[len(s)-w:]
	}
	return strings.Repeat(" ", w-len(s)) + s
}

func cursorMark(w int) string {
	if w < 2 {
		return "+"
	}
	return "[" + strings.Repeat(" ", w-2) + "]"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Legend renders one swatch per value of a position-independent palette.
func Legend(g *grid.Grid) string {
	m := g.Model()
	if m.PositionDependent() || g.Domain() > 32 {
		return Subtle.Render("legend: " + m.String())
	}
	parts := make([]string, 0, g.Domain())
	for v, col := range m.Palette(g.Domain(), 0, 0) {
		block := lipgloss.NewStyle().
			Background(lipgloss.Color(col.Hex())).
			Foreground(lipgloss.Color(ContrastText(col).Hex())).
			Render(label(float64(v), 3))
		parts = append(parts, block)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
