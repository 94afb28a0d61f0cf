package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/palette"
)

// ReadMatrix parses a headerless CSV of numbers into rows. Ragged rows
// are rejected by the grid constructors, not here.
func ReadMatrix(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, 0, len(records))
	for i, rec := range records {
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("storage: line %d field %d: %w", i+1, j+1, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadMatrix reads a headerless CSV file into a grid.
func LoadMatrix(path string, domain int, model palette.Model) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := ReadMatrix(f)
	if err != nil {
		return nil, err
	}
	return grid.FromFloats(rows, domain, model)
}
