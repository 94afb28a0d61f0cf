// Package server exposes one shared grid over HTTP.
//
// Routes:
//
//	POST /click        {"frequency": n}, n defaults to 1 → {"success": true}
//	GET  /grid         {"color_codes": {id: hex}, "average_color": hex}
//	GET  /             same as GET /grid
//	GET  /grid/cells   cells in row-major order with id, position and color
//	GET  /grid/hash    {"algorithm": ..., "digest": ...}
//	POST /spiral       {"row": r, "col": c, "power": p}, p defaults to 5
//	POST /diffuse      averages every cell over its neighbors
//
// Every handler holds the grid lock for its whole read or mutation, so a
// response always reflects one consistent grid state.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bclonan/sight/internal/digest"
	"github.com/bclonan/sight/internal/grid"
)

type Server struct {
	mu   sync.RWMutex
	grid *grid.Grid
	ids  []string
	algo digest.Algorithm
}

// New takes ownership of g. Cell identifiers are issued once, in
// row-major order, and stay attached to their positions.
func New(g *grid.Grid, algo digest.Algorithm) *Server {
	return &Server{
		grid: g,
		ids:  grid.NewIDCounter().Assign(g),
		algo: algo,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), cors())
	s.RegisterRoutes(r)
	return r
}

func (s *Server) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", s.handleGrid)
	r.GET("/grid", s.handleGrid)
	r.GET("/grid/cells", s.handleCells)
	r.GET("/grid/hash", s.handleHash)
	r.POST("/click", s.handleClick)
	r.POST("/spiral", s.handleSpiral)
	r.POST("/diffuse", s.handleDiffuse)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	grid.Logger().Info("server: listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Snapshot returns a copy of the current grid.
func (s *Server) Snapshot() *grid.Grid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.Clone()
}
