package tui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bclonan/sight/internal/digest"
	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/palette"
	"github.com/bclonan/sight/internal/storage"
	"github.com/bclonan/sight/internal/viz"
)

func sample(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.FromValues([][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, grid.DecimalDomain, palette.New(palette.HueRotation))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func press(t *testing.T, m tea.Model, keys ...tea.KeyMsg) model {
	t.Helper()
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m.(model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestExplorer_CursorStaysInBounds(t *testing.T) {
	m := press(t, NewExplorer(sample(t), Options{Seed: 1}),
		tea.KeyMsg{Type: tea.KeyUp},
		tea.KeyMsg{Type: tea.KeyLeft},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyRight},
	)
	if m.row != 1 || m.col != 2 {
		t.Errorf("expected cursor (1,2), got (%d,%d)", m.row, m.col)
	}
}

func TestExplorer_TransformsAndUndo(t *testing.T) {
	g := sample(t)
	start := digest.Fingerprint(g)

	m := press(t, NewExplorer(g, Options{Seed: 7}), tea.KeyMsg{Type: tea.KeySpace})
	if m.clicks != 1 {
		t.Errorf("expected 1 click, got %d", m.clicks)
	}
	if m.digest == start || m.digest != digest.Fingerprint(m.grid) {
		t.Error("resonance should change the displayed digest")
	}

	m = press(t, m, runes("u"))
	if digest.Fingerprint(m.grid) != start {
		t.Error("undo should restore the previous grid")
	}

	m = press(t, m, runes("d"))
	cell, _ := m.grid.At(1, 1)
	if cell.Value != 5 {
		t.Errorf("center should diffuse to 5, got %v", cell.Value)
	}

	m = press(t, m, runes("s"))
	if !strings.HasPrefix(m.status, "spiral at (0,0)") {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestExplorer_DiffuseFailureKeepsGrid(t *testing.T) {
	g, _ := grid.FromValues([][]int{{4}}, grid.DecimalDomain, palette.New(palette.HueRotation))
	m := press(t, NewExplorer(g, Options{Seed: 1}), runes("d"))
	if m.err == nil {
		t.Fatal("expected error for a single-cell grid")
	}
	cell, _ := m.grid.At(0, 0)
	if cell.Value != 4 {
		t.Errorf("grid mutated on failure: %v", cell.Value)
	}
}

func TestExplorer_Save(t *testing.T) {
	store := storage.New(t.TempDir())
	m := press(t, NewExplorer(sample(t), Options{Seed: 1, Store: store}), runes("w"))
	if !strings.HasPrefix(m.status, "saved explorer_") {
		t.Errorf("unexpected status %q", m.status)
	}
	snaps, err := store.List()
	if err != nil || len(snaps) != 1 {
		t.Fatalf("expected one snapshot, got %d (%v)", len(snaps), err)
	}

	m = press(t, NewExplorer(sample(t), Options{Seed: 1}), runes("w"))
	if m.status != "no data dir configured" {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestExplorer_ViewportFollowsCursor(t *testing.T) {
	g, _ := grid.New(40, 40, grid.DecimalDomain, palette.New(palette.HueRotation))
	var tm tea.Model = NewExplorer(g, Options{Seed: 1})
	tm, _ = tm.Update(tea.WindowSizeMsg{Width: 24, Height: 15})

	keys := make([]tea.KeyMsg, 0, 30)
	for i := 0; i < 30; i++ {
		keys = append(keys, tea.KeyMsg{Type: tea.KeyDown})
	}
	m := press(t, tm, keys...)
	rows, _ := m.viewport()
	if m.row != 30 || m.rowOff != 30-rows+1 {
		t.Errorf("cursor %d offset %d viewport %d", m.row, m.rowOff, rows)
	}

	view := m.View()
	if !strings.Contains(view, m.digest) {
		t.Error("view should show the digest")
	}
}

func TestExplorer_ThemeCycleStartsAtCurrent(t *testing.T) {
	names := viz.ThemeNames()
	defer viz.SetTheme(names[0])

	viz.SetTheme(names[2])
	m := press(t, NewExplorer(sample(t), Options{Seed: 1}), runes("t"))
	if want := names[3]; viz.CurrentTheme.Name != want {
		t.Errorf("expected %s after one press, got %s", want, viz.CurrentTheme.Name)
	}
	if m.themeIdx != 3 {
		t.Errorf("unexpected theme index %d", m.themeIdx)
	}
}

func TestExplorer_Quit(t *testing.T) {
	_, cmd := NewExplorer(sample(t), Options{Seed: 1}).Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestLiveRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, 1000, viz.RenderOptions{ShowValues: true})
	r.Start()
	g := sample(t)
	r.OnStep(g, 1, "resonance 3", digest.Fingerprint(g))
	r.Stop()

	out := buf.String()
	if r.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", r.Frames())
	}
	for _, want := range []string{clearScreen, "resonance 3", digest.Fingerprint(g), showCursor} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestLiveRenderer_MinimapWhenClipped(t *testing.T) {
	g, err := grid.New(8, 8, grid.DecimalDomain, palette.New(palette.HueRotation))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Set(0, 0, 1); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, 1000, viz.RenderOptions{MaxRows: 4, MaxCols: 4})
	r.OnStep(g, 1, "set", digest.Fingerprint(g))
	if !strings.Contains(buf.String(), "⠁⠀⠀⠀") {
		t.Errorf("expected minimap row in output:\n%s", buf.String())
	}
	first := r.overview

	r.lastFrame = r.lastFrame.AddDate(0, 0, -1)
	r.OnStep(g, 2, "set", digest.Fingerprint(g))
	if r.overview != first {
		t.Error("overview canvas should be reused between frames")
	}

	small := NewLiveRenderer(&bytes.Buffer{}, 1000, viz.RenderOptions{MaxRows: 8, MaxCols: 8})
	small.OnStep(g, 1, "set", digest.Fingerprint(g))
	if small.overview != nil {
		t.Error("no minimap expected when the grid fits")
	}
}
