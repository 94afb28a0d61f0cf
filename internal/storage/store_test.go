package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bclonan/sight/internal/digest"
	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/palette"
)

func sampleGrid(t *testing.T, model palette.Model) *grid.Grid {
	t.Helper()
	g, err := grid.FromValues([][]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}}, grid.DecimalDomain, model)
	require.NoError(t, err)
	return g
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	g := sampleGrid(t, palette.New(palette.HueRotation))
	id, err := st.Save("sample", g, digest.SHA256)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "sample_"))

	meta, err := st.Load(id)
	require.NoError(t, err)
	assert.Equal(t, 3, meta.Rows)
	assert.Equal(t, 3, meta.Cols)
	assert.Equal(t, "hue", meta.Strategy)
	assert.Equal(t, "b1028738777a60fc388c78f965c39238a0a630f026af8d2d85b6bb1a52076ecb", meta.Digest)
	assert.Equal(t, g.Average().Hex(), meta.Average)

	restored, _, err := st.LoadGrid(id)
	require.NoError(t, err)
	assert.True(t, restored.Equal(g))
}

func TestStoreLoadGrid_KeepsOutOfDomainValues(t *testing.T) {
	st := New(t.TempDir())
	g := sampleGrid(t, palette.WithSchema("schema2", "set2"))
	require.NoError(t, g.Map(func(c grid.Cell) float64 { return c.Value + 12.5 }))

	id, err := st.Save("spiraled", g, digest.BLAKE3)
	require.NoError(t, err)

	restored, meta, err := st.LoadGrid(id)
	require.NoError(t, err)
	assert.Equal(t, "blake3", meta.Algorithm)
	assert.Equal(t, g.Values(), restored.Values())
	assert.Equal(t, g.Model(), restored.Model())
}

func TestStoreLoadGrid_DetectsTampering(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	id, err := st.Save("tampered", sampleGrid(t, palette.New(palette.HueRotation)), digest.SHA256)
	require.NoError(t, err)

	path := filepath.Join(dir, id, "cells.csv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data = bytes.Replace(data, []byte("1,1,4,"), []byte("1,1,6,"), 1)
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, _, err = st.LoadGrid(id)
	assert.ErrorIs(t, err, ErrDigestMismatch)
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	snaps, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, snaps)

	g := sampleGrid(t, palette.New(palette.Banded))
	_, err = st.Save("a", g, digest.SHA256)
	require.NoError(t, err)
	_, err = st.Save("b", g, digest.SHA256)
	require.NoError(t, err)

	snaps, err = st.List()
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	snaps, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestReadMatrix(t *testing.T) {
	rows, err := ReadMatrix(strings.NewReader("1,2,3\n4, 5,6\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, rows)

	_, err = ReadMatrix(strings.NewReader("1,x\n"))
	assert.Error(t, err)
}

func TestLoadMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,2\n3,4\n"), 0644))

	g, err := LoadMatrix(path, grid.DecimalDomain, palette.New(palette.HueRotation))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}}, g.Ints())

	require.NoError(t, os.WriteFile(path, []byte("1,2\n3\n"), 0644))
	_, err = LoadMatrix(path, grid.DecimalDomain, palette.New(palette.HueRotation))
	assert.ErrorIs(t, err, grid.ErrInvalidDimensions)

	require.NoError(t, os.WriteFile(path, []byte("1,12\n"), 0644))
	_, err = LoadMatrix(path, grid.DecimalDomain, palette.New(palette.HueRotation))
	assert.ErrorIs(t, err, grid.ErrValueOutOfRange)
}

func TestStoreSave_SanitizesName(t *testing.T) {
	base := t.TempDir()
	st := New(filepath.Join(base, "snaps"))
	g := sampleGrid(t, palette.New(palette.HueRotation))

	tests := []struct {
		name string
		want string
	}{
		{"../x", "x_"},
		{"..", "grid_"},
		{"", "grid_"},
		{"my photo.png", "my_photo.png_"},
	}
	for _, tt := range tests {
		id, err := st.Save(tt.name, g, digest.SHA256)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, tt.want), "name %q gave id %q", tt.name, id)
		assert.DirExists(t, filepath.Join(base, "snaps", id))
	}

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "nothing may be written outside the data dir")
}

func TestWriteSnapshot_RemovesPartialDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "half")
	// A directory where cells.csv belongs makes the second write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cells.csv"), 0755))

	g := sampleGrid(t, palette.New(palette.HueRotation))
	err := writeSnapshot(dir, SnapshotMetadata{ID: "half"}, g)
	require.Error(t, err)
	assert.NoDirExists(t, dir)
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.json")
	g := sampleGrid(t, palette.New(palette.HueRotation))
	require.NoError(t, ExportJSON(path, g, digest.BLAKE3))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got ExportData
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 3, got.Rows)
	assert.Equal(t, "blake3", got.Algorithm)
	assert.Equal(t, digest.Sum(g, digest.BLAKE3), got.Digest)
	assert.Len(t, got.Tiles, 9)

	assert.Error(t, ExportJSON(filepath.Join(t.TempDir(), "missing", "grid.json"), g, digest.SHA256))
}

func TestWriteJSON(t *testing.T) {
	g := sampleGrid(t, palette.New(palette.HueRotation))
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, g, digest.SHA256))

	var out ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 9, len(out.Tiles))
	assert.Equal(t, "#ff0000", out.Tiles[0].Hex)
	assert.Equal(t, digest.Fingerprint(g), out.Digest)
}
