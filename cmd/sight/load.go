package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/bclonan/sight/internal/codec"
	"github.com/bclonan/sight/internal/config"
	"github.com/bclonan/sight/internal/export"
	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/quantize"
	"github.com/bclonan/sight/internal/storage"
	"github.com/bclonan/sight/internal/viz"
)

func loadCommands() []*cobra.Command {
	fileCmd := &cobra.Command{
		Use:   "load-file [path]",
		Short: "fold a file's raw bytes into a square byte grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return loadReshaped(cmd, args[0], func(data []byte, cfg *config.Config) (*grid.Grid, codec.Reshape, error) {
				return codec.FromBytes(data, mustModel(cfg))
			})
		},
	}

	bitsCmd := &cobra.Command{
		Use:   "load-bits [path]",
		Short: "expand a file into bits and fold them into a square binary grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return loadReshaped(cmd, args[0], func(data []byte, cfg *config.Config) (*grid.Grid, codec.Reshape, error) {
				return codec.FromBits(data, mustModel(cfg))
			})
		},
	}

	digitsCmd := &cobra.Command{
		Use:   "load-digits [path]",
		Short: "read a digit file (as written by encode --out) into a square grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return loadReshaped(cmd, args[0], func(data []byte, cfg *config.Config) (*grid.Grid, codec.Reshape, error) {
				return codec.FromTokens(string(data), cfg.Grid.Domain, mustModel(cfg))
			})
		},
	}

	imageCmd := &cobra.Command{
		Use:   "load-image [path]",
		Short: "quantize an image onto the configured grid",
		Args:  cobra.ExactArgs(1),
		RunE:  loadImage,
	}
	imageCmd.Flags().BoolVar(&threshold, "threshold", false, "binary grayscale threshold at native size")

	csvCmd := &cobra.Command{
		Use:   "load-csv [path]",
		Short: "read a headerless numeric CSV matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			g, err := storage.LoadMatrix(args[0], cfg.Grid.Domain, mustModel(cfg))
			if err != nil {
				return err
			}
			return saveLoaded(cfg, args[0], g)
		},
	}

	cmds := []*cobra.Command{fileCmd, bitsCmd, digitsCmd, imageCmd, csvCmd}
	for _, c := range cmds {
		c.Flags().StringVarP(&outPath, "out", "o", "", "also write a raster of the grid (.png or .svg)")
	}
	return cmds
}

func loadReshaped(cmd *cobra.Command, path string, build func([]byte, *config.Config) (*grid.Grid, codec.Reshape, error)) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	g, rs, err := build(data, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if rs.Dropped > 0 {
		fmt.Printf("dropped %d trailing items to fit %dx%d\n", rs.Dropped, rs.Side, rs.Side)
	}
	return saveLoaded(cfg, path, g)
}

func loadImage(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	img, err := decodeImage(args[0])
	if err != nil {
		return err
	}

	var g *grid.Grid
	if threshold {
		g, err = quantize.Threshold(img, mustModel(cfg))
	} else {
		g, err = quantize.Quantize(img, cfg.Grid.Rows, cfg.Grid.Cols, cfg.Grid.Domain, mustModel(cfg))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if !threshold {
		rep := quantize.Measure(img, g)
		fmt.Printf("quantized %d pixels: mean L1 %.2f, max L1 %d, mean ΔE %.4f, exact %d\n",
			rep.Pixels, rep.MeanL1, rep.MaxL1, rep.MeanDE, rep.Exact)
	}
	return saveLoaded(cfg, args[0], g)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// saveLoaded stores a freshly loaded grid as a snapshot named after its
// source file.
func saveLoaded(cfg *config.Config, source string, g *grid.Grid) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	id, err := st.Save(name, g, cfg.Algorithm())
	if err != nil {
		return err
	}
	meta, err := st.Load(id)
	if err != nil {
		return err
	}

	fmt.Printf("loaded %dx%d grid, domain %d, %s\n", g.Rows(), g.Cols(), g.Domain(), g.Model())
	fmt.Printf("snapshot id: %s\n", id)
	fmt.Printf("%s: %s\n", meta.Algorithm, meta.Digest)
	return writeRaster(cfg, g)
}

// writeRaster writes g to outPath as PNG, or as SVG when the path ends in
// .svg.
func writeRaster(cfg *config.Config, g *grid.Grid) error {
	if outPath == "" {
		return nil
	}
	if strings.EqualFold(filepath.Ext(outPath), ".svg") {
		svg := export.GridToSVG(g, cfg.Render.CellSize)
		if minimap {
			svg = export.CanvasToSVG(viz.Minimap(g, 1), float64(cfg.Render.CellSize))
		}
		if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outPath)
		return nil
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, quantize.Rasterize(g, cfg.Render.CellSize)); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}
