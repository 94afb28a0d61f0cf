package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/bclonan/sight/internal/digest"
	"github.com/bclonan/sight/internal/grid"
)

type ExportData struct {
	Rows      int         `json:"rows"`
	Cols      int         `json:"cols"`
	Domain    int         `json:"domain"`
	Model     string      `json:"model"`
	Values    [][]float64 `json:"values"`
	Tiles     []grid.Tile `json:"tiles"`
	Average   string      `json:"average_color"`
	Algorithm string      `json:"algorithm"`
	Digest    string      `json:"digest"`
}

func NewExport(g *grid.Grid, algo digest.Algorithm) ExportData {
	return ExportData{
		Rows:      g.Rows(),
		Cols:      g.Cols(),
		Domain:    g.Domain(),
		Model:     g.Model().String(),
		Values:    g.Values(),
		Tiles:     g.Tiles(),
		Average:   g.Average().Hex(),
		Algorithm: string(algo),
		Digest:    digest.Sum(g, algo),
	}
}

func ExportJSON(path string, g *grid.Grid, algo digest.Algorithm) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, g, algo)
}

func WriteJSON(w io.Writer, g *grid.Grid, algo digest.Algorithm) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewExport(g, algo))
}
