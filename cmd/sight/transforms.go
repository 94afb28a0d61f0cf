package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bclonan/sight/internal/automation"
	"github.com/bclonan/sight/internal/config"
	"github.com/bclonan/sight/internal/digest"
	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/storage"
	"github.com/bclonan/sight/internal/transform"
	"github.com/bclonan/sight/internal/tui"
	"github.com/bclonan/sight/internal/viz"
)

func transformCommands() []*cobra.Command {
	resonateCmd := &cobra.Command{
		Use:   "resonate [snapshot]",
		Short: "shift every value by a frequency modulo the domain",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runResonate,
	}
	resonateCmd.Flags().IntVarP(&frequency, "frequency", "f", 1, "frequency to add")
	resonateCmd.Flags().IntVar(&clicks, "clicks", 0, "apply this many random frequencies (1..9) instead")
	resonateCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for --clicks (0 = time based)")
	resonateCmd.Flags().BoolVar(&live, "live", false, "redraw the grid after each click")
	resonateCmd.Flags().IntVar(&frameRate, "fps", 10, "frame rate for --live")

	spiralCmd := &cobra.Command{
		Use:   "spiral [snapshot]",
		Short: "add power (mod 360) to every cell within radius power of a center",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyAndSave(cmd, args, transform.SpiralOp{Row: atRow, Col: atCol, Power: power})
		},
	}
	spiralCmd.Flags().IntVar(&atRow, "row", 0, "center row")
	spiralCmd.Flags().IntVar(&atCol, "col", 0, "center column")
	spiralCmd.Flags().IntVar(&power, "power", 5, "radius and value increment")

	diffuseCmd := &cobra.Command{
		Use:   "diffuse [snapshot]",
		Short: "replace every value with the mean of its neighbors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyAndSave(cmd, args, transform.DiffuseOp{})
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [snapshot]",
		Short: "show the state every resonance frequency would produce",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml] [snapshot]",
		Short: "run a scripted transform sequence",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&live, "live", false, "redraw the grid after each step")
	scenarioCmd.Flags().IntVar(&frameRate, "fps", 10, "frame rate for --live")

	cmds := []*cobra.Command{resonateCmd, spiralCmd, diffuseCmd, scenarioCmd}
	for _, c := range cmds {
		c.Flags().StringVarP(&outPath, "out", "o", "", "also write a PNG raster of the result")
	}
	return append(cmds, sweepCmd)
}

// openSnapshot loads the named snapshot, or the newest one when no name is
// given or the name is "latest".
func openSnapshot(cfg *config.Config, args []string) (*storage.Store, *grid.Grid, *storage.SnapshotMetadata, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	id := "latest"
	if len(args) > 0 {
		id = args[0]
	}
	if id == "latest" {
		snaps, err := st.List()
		if err != nil {
			return nil, nil, nil, err
		}
		if len(snaps) == 0 {
			return nil, nil, nil, fmt.Errorf("no snapshots in %s; load a grid first", cfg.DataDir)
		}
		id = snaps[len(snaps)-1].ID
	}
	g, meta, err := st.LoadGrid(id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("snapshot %s: %w", id, err)
	}
	return st, g, meta, nil
}

func applyAndSave(cmd *cobra.Command, args []string, ops ...transform.Op) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	st, g, meta, err := openSnapshot(cfg, args)
	if err != nil {
		return err
	}
	if err := transform.Apply(g, ops...); err != nil {
		return err
	}
	return saveResult(cfg, st, meta, ops[len(ops)-1].Name(), g)
}

func saveResult(cfg *config.Config, st *storage.Store, parent *storage.SnapshotMetadata, name string, g *grid.Grid) error {
	id, err := st.Save(name, g, cfg.Algorithm())
	if err != nil {
		return err
	}
	fmt.Printf("%s -> %s\n", parent.ID, id)
	fmt.Printf("average color: %s\n", g.Average().Hex())
	fmt.Printf("%s: %s\n", cfg.Algorithm(), digest.Sum(g, cfg.Algorithm()))
	return writeRaster(cfg, g)
}

func runResonate(cmd *cobra.Command, args []string) error {
	if clicks <= 0 {
		return applyAndSave(cmd, args, transform.ResonanceOp{Frequency: frequency})
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	st, g, meta, err := openSnapshot(cfg, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	walk := automation.RandomWalkConfig{Clicks: clicks, Seed: seed}
	if live {
		r := tui.NewLiveRenderer(os.Stdout, frameRate, viz.RenderOptions{})
		r.Start()
		defer r.Stop()
		walk.Observer = r.OnStep
	}
	results, err := automation.RunRandomWalk(ctx, g, walk)
	if err != nil {
		return err
	}
	if !live {
		for _, res := range results {
			fmt.Printf("click %3d  f=%d  avg %s  %s\n", res.Click, res.Frequency, res.Average, res.Digest[:16])
		}
	}
	fmt.Printf("%d clicks, %d distinct states\n", len(results), automation.DistinctStates(results))
	return saveResult(cfg, st, meta, "resonance", g)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	_, g, _, err := openSnapshot(cfg, args)
	if err != nil {
		return err
	}
	results, err := automation.SweepResonance(cmd.Context(), g, 0, g.Domain()-1)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Printf("f=%-3d %s  avg %s  %s\n", r.Frequency, viz.Swatch(mustParse(r.Average)), r.Average, r.Digest)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st, g, meta, err := openSnapshot(cfg, args[1:])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var observe automation.Observer
	if live {
		r := tui.NewLiveRenderer(os.Stdout, frameRate, viz.RenderOptions{})
		r.Start()
		defer r.Stop()
		observe = r.OnStep
	}

	fmt.Printf("running scenario %s (%d steps)\n", sc.Name, len(sc.Steps))
	results, err := automation.RunScenarioObserved(ctx, g, sc, transform.NewRegistry(), observe)
	for _, r := range results {
		fmt.Printf("step %d  %-10s avg %s  %s\n", r.Step, r.Op, r.Average, r.Digest)
	}
	if err != nil {
		return err
	}
	name := sc.Name
	if name == "" {
		name = "scenario"
	}
	return saveResult(cfg, st, meta, name, g)
}
