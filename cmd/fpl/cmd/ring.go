package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flypanel/layout-tools/pkg/arena/config"
	"github.com/flypanel/layout-tools/pkg/arena/place"
	"github.com/flypanel/layout-tools/pkg/arena/plot"
	"github.com/flypanel/layout-tools/pkg/arena/ring"
	"github.com/flypanel/layout-tools/pkg/kicad/pcb"
)

var (
	plotFile     string
	outFile      string
	outlineLayer string
)

var ringCmd = &cobra.Command{
	Use:   "ring",
	Short: "Compute ring arena geometry and place its components",
	Long: `Computes the layout geometry for a circular ("ring") arena from a TOML
configuration: circle radii, per-panel angular positions, face and side
outlines and header pin coordinates.

With --plot the layout is rendered to an SVG file for inspection. With
--pcb the panel headers, and any components placed relative to the
model panel, are written into the board file.`,
	RunE: runRing,
}

func init() {
	rootCmd.AddCommand(ringCmd)
	ringCmd.Flags().StringVar(&plotFile, "plot", "", "render the layout geometry to this SVG file")
	ringCmd.Flags().StringVarP(&outFile, "out", "o", "", "output pcb file (default: overwrite --pcb)")
	ringCmd.Flags().StringVar(&outlineLayer, "outline", "", "draw the arena outline on this board layer (e.g. User.Drawings)")
}

func runRing(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		return fmt.Errorf("a configuration file is required (-c/--config)")
	}

	cfg, err := config.FromFile(configFile)
	if err != nil {
		return err
	}

	g, err := ring.Compute(cfg)
	if err != nil {
		return err
	}
	g.Summary(os.Stdout)

	if plotFile != "" {
		f, err := os.Create(plotFile)
		if err != nil {
			return fmt.Errorf("failed to create %q: %w", plotFile, err)
		}
		plot.WriteSVG(f, g)
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %q: %w", plotFile, err)
		}
		log.Info().Str("file", plotFile).Msg("wrote layout plot")
	}

	if pcbFile == "" {
		return nil
	}

	printPlacementParams(cfg)

	doc, err := pcb.Open(pcbFile)
	if err != nil {
		return err
	}

	if err := place.Ring(log, doc, cfg, g); err != nil {
		return err
	}
	if outlineLayer != "" {
		place.DrawOutline(doc, cfg, g, outlineLayer, 0.15)
	}

	dest := outFile
	if dest == "" {
		dest = pcbFile
	}
	if err := doc.Save(dest); err != nil {
		return err
	}
	log.Info().Str("file", dest).Msg("saved board")
	return nil
}

func printPlacementParams(cfg *config.Config) {
	conv := cfg.Converter()
	fmt.Println("placing components")
	fmt.Println("------------------")
	fmt.Printf("  pcb file:      %s\n", pcbFile)
	fmt.Printf("  center x:      %0.4f (mm)\n", conv.ToMM(cfg.PCB.CenterX))
	fmt.Printf("  center y:      %0.4f (mm)\n", conv.ToMM(cfg.PCB.CenterY))
	fmt.Println("  panel")
	fmt.Printf("    ref_prefix:  %s\n", cfg.PCB.Panel.RefPrefix)
	fmt.Printf("    ref_start:   %d\n", cfg.PCB.Panel.RefStart)
	if cfg.PCB.Relative.Model != "" {
		fmt.Println("  relative")
		fmt.Printf("    model:       %s\n", cfg.PCB.Relative.Model)
	}
	fmt.Println()
}
