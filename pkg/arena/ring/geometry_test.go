package ring

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flypanel/layout-tools/pkg/arena/config"
)

func ringConfig() *config.Config {
	return &config.Config{
		Panel: config.Panel{
			Number: 8,
			Width:  20.0,
			Depth:  5.0,
		},
		Pins: config.Pins{
			Number: 4,
			Pitch:  2.54,
			Depth:  3.0,
		},
		Units: config.Units{Length: "mm", Angle: "rad"},
	}
}

func TestComputeReferenceValues(t *testing.T) {
	// 8 panels, 20mm wide, 5mm deep, no offset.
	g, err := Compute(ringConfig())
	require.NoError(t, err)

	assert.InDelta(t, 0.7854, g.SubtendedAngle, 1e-4)
	assert.InDelta(t, 24.142, g.RadiusFront, 1e-3)
	assert.InDelta(t, 29.142, g.RadiusBack, 1e-3)
	assert.InDelta(t, 27.142, g.RadiusPins, 1e-3)

	require.Len(t, g.FrontXY, 8)
	assert.InDelta(t, 24.142, g.FrontXY[0].X, 1e-3)
	assert.InDelta(t, 0.0, g.FrontXY[0].Y, 1e-9)
}

func TestAnglesEvenlySpaced(t *testing.T) {
	for _, n := range []int{3, 5, 8, 12, 48} {
		cfg := ringConfig()
		cfg.Panel.Number = n
		g, err := Compute(cfg)
		require.NoError(t, err)

		require.Len(t, g.Angles, n)
		step := 2 * math.Pi / float64(n)
		for i := 1; i < n; i++ {
			assert.InDelta(t, step, g.Angles[i]-g.Angles[i-1], 1e-12)
		}
	}
}

func TestRadiusRelations(t *testing.T) {
	cfg := ringConfig()
	cfg.Panel.Depth = 7.25
	cfg.Pins.Depth = 2.125
	g, err := Compute(cfg)
	require.NoError(t, err)

	assert.InDelta(t, cfg.Panel.Depth, g.RadiusBack-g.RadiusFront, 1e-12)
	assert.InDelta(t, cfg.Pins.Depth, g.RadiusPins-g.RadiusFront, 1e-12)
}

func TestOmittedPanels(t *testing.T) {
	cfg := ringConfig()
	cfg.Panel.Omitted = []int{0, 2}
	g, err := Compute(cfg)
	require.NoError(t, err)

	assert.Equal(t, 6, g.NumInstalled)
	assert.Len(t, g.Angles, 6)
	assert.Len(t, g.FrontXY, 6)
	assert.Len(t, g.BackXY, 6)
	assert.Len(t, g.FaceLinesFront, 6)
	assert.Len(t, g.FaceLinesBack, 6)
	assert.Len(t, g.SideLinesLeft, 6)
	assert.Len(t, g.SideLinesRight, 6)
	assert.Len(t, g.PinCenters, 6)
	assert.Len(t, g.PinPositions, 6)

	// Remaining slots keep ascending order: first surviving panel is 1.
	step := 2 * math.Pi / 8
	assert.InDelta(t, 1*step, g.Angles[0], 1e-12)
	assert.InDelta(t, 3*step, g.Angles[1], 1e-12)
}

func TestAllPanelsOmitted(t *testing.T) {
	cfg := ringConfig()
	cfg.Panel.Omitted = []int{0, 1, 2, 3, 4, 5, 6, 7}
	g, err := Compute(cfg)
	require.NoError(t, err)

	assert.Equal(t, 0, g.NumInstalled)
	assert.Empty(t, g.Angles)
	assert.Empty(t, g.PinCenters)
	assert.Empty(t, g.PinPositions)
}

func TestPinOmission(t *testing.T) {
	cfg := ringConfig()
	cfg.Pins.Omitted = []int{2}
	g, err := Compute(cfg)
	require.NoError(t, err)

	// 4 pins minus 1-based pin 2 leaves pins {1,3,4}.
	pins := g.PinPositions[0]
	require.Len(t, pins, 3)

	// Surviving pins keep their original offsets along the face
	// direction: -1.5, +0.5 and +1.5 pitches from the header center.
	span := 3 * cfg.Pins.Pitch
	want := []float64{0, 2 * cfg.Pins.Pitch, 3 * cfg.Pins.Pitch}
	for i, p := range pins {
		d := p.Y - g.PinCenters[0].Y // panel 0 faces +x, pins run along +y
		assert.InDelta(t, want[i]-0.5*span, d, 1e-9)
	}
}

func TestPinOmissionOutOfRangeIgnored(t *testing.T) {
	cfg := ringConfig()
	cfg.Pins.Omitted = []int{0, 5, 99}
	g, err := Compute(cfg)
	require.NoError(t, err)
	require.Len(t, g.PinPositions[0], 4)
}

func TestFaceLineGeometry(t *testing.T) {
	g, err := Compute(ringConfig())
	require.NoError(t, err)

	for i, line := range g.FaceLinesFront {
		length := math.Hypot(line.End.X-line.Start.X, line.End.Y-line.Start.Y)
		assert.InDelta(t, g.PanelWidth, length, 1e-9, "panel %d face length", i)

		mid := Point{X: 0.5 * (line.Start.X + line.End.X), Y: 0.5 * (line.Start.Y + line.End.Y)}
		assert.InDelta(t, g.FrontXY[i].X, mid.X, 1e-9)
		assert.InDelta(t, g.FrontXY[i].Y, mid.Y, 1e-9)
	}

	// Side lines join matching face endpoints.
	for i := range g.SideLinesLeft {
		assert.Equal(t, g.FaceLinesFront[i].Start, g.SideLinesLeft[i].Start)
		assert.Equal(t, g.FaceLinesBack[i].Start, g.SideLinesLeft[i].End)
		assert.Equal(t, g.FaceLinesFront[i].End, g.SideLinesRight[i].Start)
		assert.Equal(t, g.FaceLinesBack[i].End, g.SideLinesRight[i].End)
	}
}

func TestDegeneratePanelCounts(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		cfg := ringConfig()
		cfg.Panel.Number = n
		_, err := Compute(cfg)
		assert.Error(t, err, "panel.number = %d", n)
	}
}

func TestInchConfig(t *testing.T) {
	cfg := ringConfig()
	cfg.Units = config.Units{Length: "inch", Angle: "deg"}
	cfg.Panel.Width = 20.0 / 25.4
	cfg.Panel.Depth = 5.0 / 25.4
	cfg.Pins.Pitch = 0.1
	cfg.Pins.Depth = 3.0 / 25.4

	g, err := Compute(cfg)
	require.NoError(t, err)
	assert.InDelta(t, 24.142, g.RadiusFront, 1e-3)
	assert.InDelta(t, 2.54, g.PinPitch, 1e-9)
}

func TestHeaderOrientation(t *testing.T) {
	g, err := Compute(ringConfig())
	require.NoError(t, err)

	// Panel 0 sits at angle 0, so its header orientation is +90 deg.
	assert.InDelta(t, 90.0, g.HeaderOrientationDeg(0), 1e-9)
	// Panel 2 sits at pi/2; orientation 0.
	assert.InDelta(t, 0.0, g.HeaderOrientationDeg(2), 1e-9)
	// Orientations stay inside (-180, 180].
	for i := range g.Angles {
		o := g.HeaderOrientationDeg(i)
		assert.LessOrEqual(t, o, 180.0)
		assert.Greater(t, o, -180.0)
	}
}

func TestSummary(t *testing.T) {
	g, err := Compute(ringConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	g.Summary(&buf)
	out := buf.String()
	assert.Contains(t, out, "radius_front:    24.1421 (mm)")
	assert.Contains(t, out, "subtended:     0.7854 (rad)")
}
