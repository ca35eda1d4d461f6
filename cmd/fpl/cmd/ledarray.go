package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flypanel/layout-tools/pkg/arena/config"
	"github.com/flypanel/layout-tools/pkg/arena/ledarray"
	"github.com/flypanel/layout-tools/pkg/arena/place"
	"github.com/flypanel/layout-tools/pkg/kicad/pcb"
)

var ledOutFile string

var ledarrayCmd = &cobra.Command{
	Use:   "ledarray",
	Short: "Compute an LED-array grid and place its components",
	Long: `Computes an evenly spaced LED grid centered on the configured board
center and writes the LED footprint positions into the board file.
References increment column-major from the configured start.`,
	RunE: runLEDArray,
}

func init() {
	rootCmd.AddCommand(ledarrayCmd)
	ledarrayCmd.Flags().StringVarP(&ledOutFile, "out", "o", "", "output pcb file (default: overwrite --pcb)")
}

func runLEDArray(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		return fmt.Errorf("a configuration file is required (-c/--config)")
	}

	cfg, err := config.FromFile(configFile)
	if err != nil {
		return err
	}

	grid, err := ledarray.Compute(cfg)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("led array")
	fmt.Println("---------")
	fmt.Printf("  grid:          %d x %d\n", grid.NRows, grid.NCols)
	fmt.Printf("  spacing x:     %0.4f (mm)\n", grid.SpacingX)
	fmt.Printf("  spacing y:     %0.4f (mm)\n", grid.SpacingY)
	fmt.Printf("  angle:         %0.4f (deg)\n", grid.Angle)
	fmt.Printf("  references:    %s%d .. %s%d\n",
		cfg.PCB.LED.RefPrefix, cfg.PCB.LED.RefStart,
		cfg.PCB.LED.RefPrefix, cfg.PCB.LED.RefStart+len(grid.Placements)-1)
	fmt.Println()

	if pcbFile == "" {
		return nil
	}

	doc, err := pcb.Open(pcbFile)
	if err != nil {
		return err
	}
	if err := place.LEDArray(log, doc, grid); err != nil {
		return err
	}

	dest := ledOutFile
	if dest == "" {
		dest = pcbFile
	}
	if err := doc.Save(dest); err != nil {
		return err
	}
	log.Info().Str("file", dest).Msg("saved board")
	return nil
}
