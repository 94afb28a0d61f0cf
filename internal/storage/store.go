package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bclonan/sight/internal/digest"
	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/palette"
)

// ErrDigestMismatch means a snapshot's cells no longer hash to the digest
// recorded when it was saved.
var ErrDigestMismatch = errors.New("storage: snapshot digest mismatch")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SnapshotMetadata struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Domain    int       `json:"domain"`
	Strategy  string    `json:"strategy"`
	Schema    string    `json:"schema,omitempty"`
	Tag       string    `json:"tag,omitempty"`
	Algorithm string    `json:"algorithm"`
	Digest    string    `json:"digest"`
	Average   string    `json:"average_color"`
}

// Model rebuilds the color model recorded in the metadata.
func (m *SnapshotMetadata) Model() (palette.Model, error) {
	st, err := palette.ParseStrategy(m.Strategy)
	if err != nil {
		return palette.Model{}, err
	}
	return palette.Model{Strategy: st, Schema: m.Schema, Tag: m.Tag}, nil
}

// Save writes g under a new snapshot directory holding metadata.json and
// cells.csv, and returns the snapshot ID.
func (s *Store) Save(name string, g *grid.Grid, algo digest.Algorithm) (string, error) {
	name = snapshotName(name)
	now := time.Now()
	id := fmt.Sprintf("%s_%d_%s", name, now.Unix(), uuid.NewString()[:8])

	m := g.Model()
	meta := SnapshotMetadata{
		ID:        id,
		Name:      name,
		Timestamp: now,
		Rows:      g.Rows(),
		Cols:      g.Cols(),
		Domain:    g.Domain(),
		Strategy:  m.Strategy.String(),
		Schema:    m.Schema,
		Tag:       m.Tag,
		Algorithm: string(algo),
		Digest:    digest.Sum(g, algo),
		Average:   g.Average().Hex(),
	}

	if err := writeSnapshot(filepath.Join(s.baseDir, id), meta, g); err != nil {
		return "", err
	}
	grid.Logger().Info("storage: snapshot saved", "id", id, "digest", meta.Digest)
	return id, nil
}

// writeSnapshot fills dir with metadata.json and cells.csv. If either
// write fails the directory is removed.
func writeSnapshot(dir string, meta SnapshotMetadata, g *grid.Grid) (err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(dir)
		}
	}()

	if err := writeJSON(filepath.Join(dir, "metadata.json"), meta); err != nil {
		return err
	}
	return writeCells(filepath.Join(dir, "cells.csv"), g)
}

// snapshotName reduces name to a single path element of letters, digits,
// dots, dashes and underscores.
func snapshotName(name string) string {
	name = filepath.Base(filepath.ToSlash(name))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, name)
	name = strings.Trim(name, ".")
	if name == "" {
		return "grid"
	}
	return name
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCells(path string, g *grid.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"row", "col", "value", "color"}); err != nil {
		return err
	}
	var werr error
	g.Each(func(c grid.Cell) {
		if werr != nil {
			return
		}
		werr = w.Write([]string{
			strconv.Itoa(c.Row),
			strconv.Itoa(c.Col),
			strconv.FormatFloat(c.Value, 'g', -1, 64),
			c.Color.Hex(),
		})
	})
	if werr != nil {
		return werr
	}
	w.Flush()
	return w.Error()
}

// List returns every readable snapshot, oldest first.
func (s *Store) List() ([]SnapshotMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SnapshotMetadata{}, nil
		}
		return nil, err
	}

	snaps := make([]SnapshotMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		snaps = append(snaps, *meta)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].Timestamp.Before(snaps[j].Timestamp)
	})
	return snaps, nil
}

func (s *Store) Load(id string) (*SnapshotMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta SnapshotMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadGrid restores a snapshot's grid and checks it against the stored
// digest. Values are restored verbatim, including any that left the
// domain through spiral propagation.
func (s *Store) LoadGrid(id string) (*grid.Grid, *SnapshotMetadata, error) {
	meta, err := s.Load(id)
	if err != nil {
		return nil, nil, err
	}
	model, err := meta.Model()
	if err != nil {
		return nil, nil, err
	}
	g, err := grid.New(meta.Rows, meta.Cols, meta.Domain, model)
	if err != nil {
		return nil, nil, err
	}

	values, err := readCells(filepath.Join(s.baseDir, id, "cells.csv"), g)
	if err != nil {
		return nil, nil, err
	}
	if err := g.Map(func(c grid.Cell) float64 { return values[c.Row*meta.Cols+c.Col] }); err != nil {
		return nil, nil, err
	}

	algo, err := digest.ParseAlgorithm(meta.Algorithm)
	if err != nil {
		return nil, nil, err
	}
	if got := digest.Sum(g, algo); got != meta.Digest {
		return nil, nil, fmt.Errorf("%w: %s: got %s, recorded %s", ErrDigestMismatch, id, got, meta.Digest)
	}
	return g, meta, nil
}

func readCells(path string, g *grid.Grid) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) != g.Len()+1 {
		return nil, fmt.Errorf("%w: %d cell rows for %dx%d grid", grid.ErrInvalidDimensions, len(records)-1, g.Rows(), g.Cols())
	}

	values := make([]float64, g.Len())
	for _, rec := range records[1:] {
		if len(rec) < 3 {
			return nil, fmt.Errorf("storage: short cell record %v", rec)
		}
		r, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, err
		}
		c, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, err
		}
		if !g.InBounds(r, c) {
			return nil, fmt.Errorf("%w: (%d,%d)", grid.ErrOutOfBounds, r, c)
		}
		v, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, err
		}
		values[r*g.Cols()+c] = v
	}
	return values, nil
}
