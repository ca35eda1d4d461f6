package ledarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flypanel/layout-tools/pkg/arena/config"
)

func gridConfig() *config.Config {
	return &config.Config{
		Units: config.Units{Length: "mm", Angle: "deg"},
		PCB: config.PCB{
			CenterX: 100.0,
			CenterY: 80.0,
			SizeX:   40.0,
			SizeY:   30.0,
			LED: config.LED{
				NRows:     3,
				NCols:     4,
				RefPrefix: "D",
				RefStart:  1,
				Angle:     0,
			},
		},
	}
}

func TestComputeGrid(t *testing.T) {
	g, err := Compute(gridConfig())
	require.NoError(t, err)

	require.Len(t, g.Placements, 12)
	assert.InDelta(t, 10.0, g.SpacingX, 1e-9)
	assert.InDelta(t, 10.0, g.SpacingY, 1e-9)

	// References increment column-major starting at D1.
	assert.Equal(t, "D1", g.Placements[0].Ref)
	assert.Equal(t, "D3", g.Placements[2].Ref)
	assert.Equal(t, "D4", g.Placements[3].Ref) // first entry of second column
	assert.Equal(t, "D12", g.Placements[11].Ref)

	// D1 is the top-left of the centered array: center - half span.
	assert.InDelta(t, 100.0-15.0, g.Placements[0].Pose.X, 1e-9)
	assert.InDelta(t, 80.0-10.0, g.Placements[0].Pose.Y, 1e-9)

	// The array is centered: average of all positions is the board center.
	var sx, sy float64
	for _, p := range g.Placements {
		sx += p.Pose.X
		sy += p.Pose.Y
	}
	assert.InDelta(t, 100.0, sx/12, 1e-9)
	assert.InDelta(t, 80.0, sy/12, 1e-9)
}

func TestComputeGridAngle(t *testing.T) {
	cfg := gridConfig()
	cfg.PCB.LED.Angle = 90
	g, err := Compute(cfg)
	require.NoError(t, err)
	for _, p := range g.Placements {
		assert.InDelta(t, 90.0, p.Pose.Angle, 1e-9)
	}
}

func TestComputeGridRefStart(t *testing.T) {
	cfg := gridConfig()
	cfg.PCB.LED.RefStart = 17
	g, err := Compute(cfg)
	require.NoError(t, err)
	assert.Equal(t, "D17", g.Placements[0].Ref)
	assert.Equal(t, "D28", g.Placements[11].Ref)
}

func TestComputeGridErrors(t *testing.T) {
	cfg := gridConfig()
	cfg.PCB.LED.NRows = 0
	_, err := Compute(cfg)
	assert.Error(t, err)

	cfg = gridConfig()
	cfg.PCB.SizeX = 0
	_, err = Compute(cfg)
	assert.Error(t, err)
}
