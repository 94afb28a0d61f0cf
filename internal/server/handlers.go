package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bclonan/sight/internal/digest"
	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/transform"
)

type GridState struct {
	ColorCodes   map[string]string `json:"color_codes"`
	AverageColor string            `json:"average_color"`
}

type CellState struct {
	ID    string  `json:"id"`
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

type ClickRequest struct {
	Frequency *int `json:"frequency"`
}

type SpiralRequest struct {
	Row   *int `json:"row" binding:"required"`
	Col   *int `json:"col" binding:"required"`
	Power *int `json:"power"`
}

type HashResponse struct {
	Algorithm string `json:"algorithm"`
	Digest    string `json:"digest"`
}

const (
	defaultFrequency = 1
	defaultPower     = 5
)

func (s *Server) state() GridState {
	codes := make(map[string]string, s.grid.Len())
	s.grid.Each(func(c grid.Cell) {
		codes[s.ids[c.Row*s.grid.Cols()+c.Col]] = c.Color.Hex()
	})
	return GridState{ColorCodes: codes, AverageColor: s.grid.Average().Hex()}
}

func (s *Server) handleGrid(c *gin.Context) {
	s.mu.RLock()
	st := s.state()
	s.mu.RUnlock()
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleCells(c *gin.Context) {
	s.mu.RLock()
	cells := make([]CellState, 0, s.grid.Len())
	s.grid.Each(func(cell grid.Cell) {
		cells = append(cells, CellState{
			ID:    s.ids[cell.Row*s.grid.Cols()+cell.Col],
			Row:   cell.Row,
			Col:   cell.Col,
			Value: cell.Value,
			Color: cell.Color.Hex(),
		})
	})
	s.mu.RUnlock()
	c.JSON(http.StatusOK, cells)
}

func (s *Server) handleHash(c *gin.Context) {
	s.mu.RLock()
	sum := digest.Sum(s.grid, s.algo)
	s.mu.RUnlock()
	c.JSON(http.StatusOK, HashResponse{Algorithm: string(s.algo), Digest: sum})
}

func (s *Server) handleClick(c *gin.Context) {
	var req ClickRequest
	if err := bindOptional(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	f := defaultFrequency
	if req.Frequency != nil {
		f = *req.Frequency
	}

	if err := s.mutate(func(g *grid.Grid) error { return transform.Resonance(g, f) }); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleSpiral(c *gin.Context) {
	var req SpiralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "row and col are required"})
		return
	}
	power := defaultPower
	if req.Power != nil {
		power = *req.Power
	}

	if err := s.mutate(func(g *grid.Grid) error { return transform.Spiral(g, *req.Row, *req.Col, power) }); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleDiffuse(c *gin.Context) {
	if err := s.mutate(transform.Diffuse); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) mutate(fn func(*grid.Grid) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.grid)
}

// bindOptional decodes a JSON body if one was sent. An absent or empty
// body leaves v untouched.
func bindOptional(c *gin.Context, v any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, grid.ErrEmptyNeighborhood) || errors.Is(err, grid.ErrValueOutOfRange) {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
