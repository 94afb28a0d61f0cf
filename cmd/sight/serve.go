package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bclonan/sight/internal/config"
	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/server"
	"github.com/bclonan/sight/internal/storage"
	"github.com/bclonan/sight/internal/tui"
)

var csvPath string

func serveCommands() []*cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve [snapshot]",
		Short: "serve a grid over HTTP",
		Long: `Serve a grid over HTTP. The grid comes from the given snapshot, from
--csv, or is filled with random values in the configured domain.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&csvPath, "csv", "", "load the grid from a headerless CSV matrix")
	serveCmd.Flags().Int64Var(&seed, "seed", 0, "seed for a random grid (0 = time based)")

	tuiCmd := &cobra.Command{
		Use:   "tui [snapshot]",
		Short: "explore and transform a snapshot interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			st, g, _, err := openSnapshot(cfg, args)
			if err != nil {
				return err
			}
			return tui.Run(g, tui.Options{
				Seed:       seed,
				Algorithm:  cfg.Algorithm(),
				ShowValues: showVals,
				Store:      st,
			})
		},
	}
	tuiCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for resonance clicks (0 = time based)")
	tuiCmd.Flags().BoolVar(&showVals, "values", false, "label cells with their values")

	return []*cobra.Command{serveCmd, tuiCmd}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = addr
	}
	if cmd.Flags().Changed("seed") {
		cfg.Server.Seed = seed
	}

	var g *grid.Grid
	switch {
	case len(args) > 0:
		_, g, _, err = openSnapshot(cfg, args)
	case csvPath != "":
		g, err = storage.LoadMatrix(csvPath, cfg.Grid.Domain, mustModel(cfg))
	default:
		g, err = randomGrid(cfg)
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("serving %dx%d grid on http://%s\n", g.Rows(), g.Cols(), cfg.Server.Addr)
	return server.New(g, cfg.Algorithm()).Run(ctx, cfg.Server.Addr)
}

func randomGrid(cfg *config.Config) (*grid.Grid, error) {
	s := cfg.Server.Seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))

	values := make([][]int, cfg.Grid.Rows)
	for r := range values {
		values[r] = make([]int, cfg.Grid.Cols)
		for c := range values[r] {
			values[r][c] = rng.Intn(cfg.Grid.Domain)
		}
	}
	return grid.FromValues(values, cfg.Grid.Domain, mustModel(cfg))
}
