// Package ledarray computes evenly spaced grid placements for LED-array
// panels: nrows x ncols positions centered on the board with a shared
// orientation, referenced sequentially from a configured start.
package ledarray

import (
	"fmt"
	"math"

	"github.com/flypanel/layout-tools/pkg/arena/config"
	"github.com/flypanel/layout-tools/pkg/arena/ring"
)

// Grid is the computed LED-array placement.
type Grid struct {
	NRows    int
	NCols    int
	SpacingX float64 // mm between columns
	SpacingY float64 // mm between rows
	Angle    float64 // shared orientation, degrees

	Placements []ring.Placement // column-major, refs prefix(start), prefix(start+1), ...
}

// Compute lays out the grid from the pcb section of the configuration.
// Spacing divides the board size evenly by column/row count and the
// array is centered on the configured board center. References
// increment column-major, matching the wiring order of the panels.
func Compute(cfg *config.Config) (*Grid, error) {
	led := cfg.PCB.LED
	if led.NRows < 1 || led.NCols < 1 {
		return nil, fmt.Errorf("led grid needs nrows and ncols >= 1, got %dx%d", led.NRows, led.NCols)
	}
	if cfg.PCB.SizeX <= 0 || cfg.PCB.SizeY <= 0 {
		return nil, fmt.Errorf("pcb.size_x and pcb.size_y must be positive, got %v x %v", cfg.PCB.SizeX, cfg.PCB.SizeY)
	}

	conv := cfg.Converter()
	w := conv.ToMM(cfg.PCB.SizeX)
	h := conv.ToMM(cfg.PCB.SizeY)
	cx := conv.ToMM(cfg.PCB.CenterX)
	cy := conv.ToMM(cfg.PCB.CenterY)
	angleDeg := conv.ToRad(led.Angle) * 180.0 / math.Pi

	g := &Grid{
		NRows:    led.NRows,
		NCols:    led.NCols,
		SpacingX: w / float64(led.NCols),
		SpacingY: h / float64(led.NRows),
		Angle:    angleDeg,
	}

	spanX := float64(led.NCols-1) * g.SpacingX
	spanY := float64(led.NRows-1) * g.SpacingY

	num := led.RefStart
	for i := 0; i < led.NCols; i++ {
		for j := 0; j < led.NRows; j++ {
			g.Placements = append(g.Placements, ring.Placement{
				Ref: fmt.Sprintf("%s%d", led.RefPrefix, num),
				Pose: ring.Pose{
					X:     cx + float64(i)*g.SpacingX - 0.5*spanX,
					Y:     cy + float64(j)*g.SpacingY - 0.5*spanY,
					Angle: angleDeg,
				},
			})
			num++
		}
	}

	return g, nil
}
