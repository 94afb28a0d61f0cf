package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bclonan/sight/internal/codec"
	"github.com/bclonan/sight/internal/config"
	"github.com/bclonan/sight/internal/digest"
	"github.com/bclonan/sight/internal/palette"
	"github.com/bclonan/sight/internal/storage"
	"github.com/bclonan/sight/internal/viz"
)

var (
	minimap  bool
	jsonOut  bool
	histBins int
)

func inspectCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list snapshots",
		RunE:  listSnapshots,
	}

	showCmd := &cobra.Command{
		Use:   "show [snapshot]",
		Short: "render a snapshot in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showSnapshot,
	}
	showCmd.Flags().BoolVar(&showVals, "values", false, "label cells with their values")
	showCmd.Flags().BoolVar(&minimap, "minimap", false, "braille overview of nonzero cells instead of colors")
	showCmd.Flags().BoolVar(&jsonOut, "json", false, "print the grid as JSON")
	showCmd.Flags().StringVarP(&outPath, "out", "o", "", "with --json, write the export to a file")

	hashCmd := &cobra.Command{
		Use:   "hash [snapshot]",
		Short: "print the visual-state digest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			_, g, _, err := openSnapshot(cfg, args)
			if err != nil {
				return err
			}
			fmt.Println(digest.Sum(g, cfg.Algorithm()))
			return nil
		},
	}

	encodeCmd := &cobra.Command{
		Use:   "encode [snapshot]",
		Short: "print the fixed-width token stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			_, g, _, err := openSnapshot(cfg, args)
			if err != nil {
				return err
			}
			if outPath != "" {
				data, err := codec.WriteDigits(g)
				if err != nil {
					return fmt.Errorf("encode: %w", err)
				}
				if err := os.WriteFile(outPath, data, 0644); err != nil {
					return err
				}
				fmt.Printf("wrote %d tokens to %s\n", g.Len(), outPath)
				return nil
			}
			stream, err := codec.Encode(g)
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			fmt.Println(stream)
			return nil
		},
	}
	encodeCmd.Flags().StringVarP(&outPath, "out", "o", "", "write a digit file instead of printing")

	rasterCmd := &cobra.Command{
		Use:   "raster [snapshot]",
		Short: "write a PNG or SVG with one filled square per cell",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			_, g, _, err := openSnapshot(cfg, args)
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = "grid.png"
			}
			return writeRaster(cfg, g)
		},
	}
	rasterCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, .png or .svg (default grid.png)")
	rasterCmd.Flags().BoolVar(&minimap, "minimap", false, "SVG output only: braille-style dots for nonzero cells")

	statsCmd := &cobra.Command{
		Use:   "stats [snapshot]",
		Short: "value distribution and color summary",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showStats,
	}
	statsCmd.Flags().IntVar(&histBins, "bins", 40, "histogram width")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tDOMAIN\tSTRATEGY")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				m, _ := p.Model()
				fmt.Fprintf(w, "%s\t%dx%d\t%d\t%s\n", name, p.Grid.Rows, p.Grid.Cols, p.Grid.Domain, m)
			}
			return w.Flush()
		},
	}

	return []*cobra.Command{listCmd, showCmd, hashCmd, encodeCmd, rasterCmd, statsCmd, presetsCmd}
}

func listSnapshots(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	snaps, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("no snapshots found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSIZE\tDOMAIN\tSTRATEGY\tAVERAGE\tDIGEST\tTIMESTAMP")
	for _, s := range snaps {
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%s\t%s\t%s\t%s\n",
			s.ID, s.Rows, s.Cols, s.Domain, s.Strategy, s.Average, short(s.Digest), s.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func showSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	_, g, meta, err := openSnapshot(cfg, args)
	if err != nil {
		return err
	}
	if jsonOut {
		if outPath != "" {
			if err := storage.ExportJSON(outPath, g, cfg.Algorithm()); err != nil {
				return err
			}
			fmt.Printf("exported %s to %s\n", meta.ID, outPath)
			return nil
		}
		return storage.WriteJSON(os.Stdout, g, cfg.Algorithm())
	}

	fmt.Println(viz.Title.Render(meta.ID) + "  " + viz.Subtle.Render(fmt.Sprintf("%dx%d  domain %d  %s", g.Rows(), g.Cols(), g.Domain(), g.Model())))
	if minimap {
		fmt.Print(viz.Minimap(g, 1).String())
	} else {
		w := 2
		if showVals && g.Domain() > 10 {
			w = 4
		}
		fmt.Println(viz.RenderGrid(g, viz.RenderOptions{CellWidth: w, ShowValues: showVals}))
	}
	fmt.Println(viz.Legend(g))
	fmt.Println(viz.Metric("average", viz.Swatch(g.Average())))
	fmt.Println(viz.Metric(string(cfg.Algorithm()), digest.Sum(g, cfg.Algorithm())))
	return nil
}

func showStats(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	_, g, meta, err := openSnapshot(cfg, args)
	if err != nil {
		return err
	}

	counts := viz.Counts(g, 0)
	var sum, lo, hi float64
	for i, v := range g.Snapshot() {
		sum += v
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}

	m := g.Model()
	fmt.Println(viz.GradientText(meta.ID, m.Color(lo, 0, 0), m.Color(hi, 0, 0)))
	fmt.Println(viz.Separator(48))
	fmt.Println(viz.Metric("cells  ", fmt.Sprintf("%d", g.Len())))
	fmt.Println(viz.Metric("mean   ", fmt.Sprintf("%.4f", sum/float64(g.Len()))))
	fmt.Println(viz.Metric("range  ", fmt.Sprintf("%g .. %g", lo, hi)))
	fmt.Println(viz.Metric("average", viz.Swatch(g.Average())))
	if g.Domain() <= 16 {
		for v, n := range counts {
			fmt.Printf("  %2d %6.0f\n", v, n)
		}
	}
	fmt.Println()
	fmt.Println(viz.Histogram(g, histBins, 8))
	return nil
}

func short(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

func mustParse(hex string) palette.RGB {
	c, _ := palette.ParseHex(hex)
	return c
}
