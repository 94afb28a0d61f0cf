package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bclonan/sight/internal/grid"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	rows     int
	cols     int
	domain   int
	strategy string
	schema   string
	tag      string
	algo     string
	theme    string
	cellSize int

	outPath   string
	showVals  bool
	seed      int64
	frequency int
	power     int
	atRow     int
	atCol     int
	clicks    int
	frameRate int
	live      bool
	addr      string
	threshold bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sight",
		Short:         "encode data as colored grids and transform them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				grid.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", "", "snapshot directory (default .sight)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
	pf.IntVar(&rows, "rows", 0, "grid rows")
	pf.IntVar(&cols, "cols", 0, "grid columns")
	pf.IntVar(&domain, "domain", 0, "value domain (cells hold 0..domain-1)")
	pf.StringVar(&strategy, "strategy", "", "color strategy: hue, positional, schema, banded")
	pf.StringVar(&schema, "schema", "", "schema name for the schema strategy")
	pf.StringVar(&tag, "tag", "", "machine set tag for the schema strategy")
	pf.StringVar(&algo, "digest", "", "digest algorithm: sha256, blake3")
	pf.StringVar(&theme, "theme", "", "terminal theme")
	pf.IntVar(&cellSize, "cell-size", 0, "pixels per cell for raster output")

	rootCmd.AddCommand(loadCommands()...)
	rootCmd.AddCommand(transformCommands()...)
	rootCmd.AddCommand(inspectCommands()...)
	rootCmd.AddCommand(serveCommands()...)
	return rootCmd
}
