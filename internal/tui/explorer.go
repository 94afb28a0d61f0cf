package tui

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bclonan/sight/internal/digest"
	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/storage"
	"github.com/bclonan/sight/internal/transform"
	"github.com/bclonan/sight/internal/viz"
)

const (
	historyLen  = 60
	spiralPower = 5
	chromeLines = 11
)

type Options struct {
	Seed       int64
	Algorithm  digest.Algorithm
	ShowValues bool
	CellWidth  int
	// Store, when set, enables saving snapshots with 'w'.
	Store *storage.Store
}

type model struct {
	grid *grid.Grid
	prev *grid.Grid
	rng  *rand.Rand
	opts Options

	row, col       int
	rowOff, colOff int

	clicks  int
	digest  string
	status  string
	err     error
	history []float64

	themeIdx int

	width  int
	height int
}

// NewExplorer returns the interactive grid model. g is modified in place
// by every key that applies a transform.
func NewExplorer(g *grid.Grid, opts Options) tea.Model {
	if opts.CellWidth <= 0 {
		opts.CellWidth = 2
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	m := model{
		grid:    g,
		rng:     rand.New(rand.NewSource(seed)),
		opts:    opts,
		history: make([]float64, 0, historyLen),
		width:   80,
		height:  24,
	}
	m.themeIdx = max(slices.Index(viz.ThemeNames(), viz.CurrentTheme.Name), 0)
	m.refresh("ready")
	return m
}

// Run starts the explorer on the alternate screen and blocks until quit.
func Run(g *grid.Grid, opts Options) error {
	_, err := tea.NewProgram(NewExplorer(g, opts), tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.move(-1, 0)
	case "down", "j":
		m.move(1, 0)
	case "left", "h":
		m.move(0, -1)
	case "right", "l":
		m.move(0, 1)
	case "enter", " ":
		f := transform.RandomFrequency(m.rng)
		m.apply(fmt.Sprintf("resonance %d", f), func(g *grid.Grid) error { return transform.Resonance(g, f) })
		m.clicks++
	case "s":
		r, c := m.row, m.col
		m.apply(fmt.Sprintf("spiral at (%d,%d)", r, c), func(g *grid.Grid) error { return transform.Spiral(g, r, c, spiralPower) })
	case "d":
		m.apply("diffuse", transform.Diffuse)
	case "u":
		if m.prev != nil {
			m.grid, m.prev = m.prev, nil
			m.refresh("undo")
		}
	case "v":
		m.opts.ShowValues = !m.opts.ShowValues
	case "t":
		names := viz.ThemeNames()
		m.themeIdx = (m.themeIdx + 1) % len(names)
		viz.SetTheme(names[m.themeIdx])
		m.status = "theme " + names[m.themeIdx]
	case "w":
		m.save()
	}
	return m, nil
}

func (m *model) move(dr, dc int) {
	r, c := m.row+dr, m.col+dc
	if m.grid.InBounds(r, c) {
		m.row, m.col = r, c
		m.scroll()
	}
}

// scroll keeps the cursor inside the viewport.
func (m *model) scroll() {
	rows, cols := m.viewport()
	if m.row < m.rowOff {
		m.rowOff = m.row
	} else if m.row >= m.rowOff+rows {
		m.rowOff = m.row - rows + 1
	}
	if m.col < m.colOff {
		m.colOff = m.col
	} else if m.col >= m.colOff+cols {
		m.colOff = m.col - cols + 1
	}
}

func (m model) viewport() (rows, cols int) {
	rows = m.height - chromeLines
	cols = (m.width - 8) / m.opts.CellWidth
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return rows, cols
}

func (m *model) apply(label string, fn func(*grid.Grid) error) {
	prev := m.grid.Clone()
	if err := fn(m.grid); err != nil {
		m.err = err
		m.status = label + " failed"
		return
	}
	m.prev = prev
	m.err = nil
	m.refresh(label)
}

func (m *model) refresh(status string) {
	m.digest = digest.Sum(m.grid, m.opts.Algorithm)
	m.status = status

	var sum float64
	m.grid.Each(func(c grid.Cell) { sum += c.Value })
	m.history = append(m.history, sum/float64(m.grid.Len()))
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}
}

func (m *model) save() {
	if m.opts.Store == nil {
		m.status = "no data dir configured"
		return
	}
	id, err := m.opts.Store.Save("explorer", m.grid, m.opts.Algorithm)
	if err != nil {
		m.err = err
		m.status = "save failed"
		return
	}
	m.status = "saved " + id
}

func (m model) View() string {
	rows, cols := m.viewport()
	var b strings.Builder

	b.WriteString(viz.Title.Render("sight") + "  " + viz.Subtle.Render(fmt.Sprintf("%dx%d  domain %d  %s",
		m.grid.Rows(), m.grid.Cols(), m.grid.Domain(), m.grid.Model())))
	b.WriteString("\n\n")

	b.WriteString(viz.Panel.Render(viz.RenderGrid(m.grid, viz.RenderOptions{
		CellWidth:  m.opts.CellWidth,
		ShowValues: m.opts.ShowValues,
		RowOffset:  m.rowOff,
		ColOffset:  m.colOff,
		MaxRows:    rows,
		MaxCols:    cols,
		Cursor:     true,
		CursorRow:  m.row,
		CursorCol:  m.col,
	})))
	b.WriteString("\n\n")

	cell, _ := m.grid.At(m.row, m.col)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		viz.Metric("cell", fmt.Sprintf("(%d,%d)=%s", m.row, m.col, trimFloat(cell.Value))), "  ",
		viz.Metric("color", cell.Color.Hex()), "  ",
		viz.Metric("avg", m.grid.Average().Hex()), "  ",
		viz.Metric("clicks", fmt.Sprintf("%d", m.clicks)),
	))
	b.WriteString("\n")
	b.WriteString(viz.Metric("digest", m.digest) + "\n")
	b.WriteString(viz.MetricLabel.Render("mean ") + viz.SparklineChart(m.history, 30) + "  " + viz.Subtle.Render(m.status))
	if m.err != nil {
		b.WriteString("  " + viz.ErrorText.Render(m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(viz.KeyHint.Render("arrows move · space resonance · s spiral · d diffuse · u undo · v values · t theme · w save · q quit"))
	return b.String()
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
