// Package ring derives the placement geometry for circular ("ring")
// panel arenas: the concentric radii, per-panel angular positions, the
// panel outline segments and the header pin coordinates, plus the
// rigid-body transform that copies one panel's local component
// arrangement onto every other panel.
//
// Sign convention, held uniform everywhere in this package: angles
// increase counter-clockwise, panel k sits at k*subtended + offset, and
// the header orientation written to the board is -(angle - pi/2) in
// degrees.
package ring

import (
	"fmt"
	"io"
	"math"

	"github.com/flypanel/layout-tools/pkg/arena/config"
)

// Point is a 2D coordinate in mm.
type Point struct {
	X float64
	Y float64
}

// Line is a segment between two points.
type Line struct {
	Start Point
	End   Point
}

// Geometry holds everything derived from an arena configuration, in mm
// and radians. All per-panel slices share index correspondence: index i
// in every slice refers to the same installed panel, in ascending panel
// index order. Computed once, never mutated.
type Geometry struct {
	NumPanels    int
	NumInstalled int
	PanelWidth   float64 // mm
	PanelDepth   float64 // mm
	OffsetAngle  float64 // rad
	NumPins      int
	PinPitch     float64 // mm
	OmittedPins  []int

	SubtendedAngle float64 // rad
	RadiusFront    float64 // mm
	RadiusBack     float64 // mm
	RadiusPins     float64 // mm

	Installed []bool // one per panel slot, true iff populated

	Angles         []float64 // rad, one per installed panel
	FrontXY        []Point
	BackXY         []Point
	FaceLinesFront []Line
	FaceLinesBack  []Line
	SideLinesLeft  []Line
	SideLinesRight []Line
	PinCenters     []Point
	PinPositions   [][]Point // per installed panel, one entry per non-omitted pin
}

// Compute derives the full arena geometry from a validated
// configuration. Values are normalized to mm/rad through the config's
// unit converter; the configuration itself is left untouched.
//
// A panel count below 3 makes the tangent-derived front radius
// non-finite, so it is rejected outright rather than letting IEEE
// infinities propagate into the board.
func Compute(cfg *config.Config) (*Geometry, error) {
	if err := cfg.ValidateRing(); err != nil {
		return nil, err
	}
	if cfg.Panel.Number <= 2 {
		return nil, fmt.Errorf("panel.number = %d is degenerate: a ring needs at least 3 panels", cfg.Panel.Number)
	}

	conv := cfg.Converter()
	numPanel := cfg.Panel.Number
	panelWidth := conv.ToMM(cfg.Panel.Width)
	panelDepth := conv.ToMM(cfg.Panel.Depth)
	offsetAngle := conv.ToRad(cfg.Panel.OffsetAngle)
	numPins := cfg.Pins.Number
	pinPitch := conv.ToMM(cfg.Pins.Pitch)
	pinDepth := conv.ToMM(cfg.Pins.Depth)

	g := &Geometry{
		NumPanels:   numPanel,
		PanelWidth:  panelWidth,
		PanelDepth:  panelDepth,
		OffsetAngle: offsetAngle,
		NumPins:     numPins,
		PinPitch:    pinPitch,
		OmittedPins: append([]int(nil), cfg.Pins.Omitted...),
	}

	// Angle subtended by one panel.
	g.SubtendedAngle = 2.0 * math.Pi / float64(numPanel)

	// Radius of the circle tangent to every panel's front face: each
	// panel is one side of a regular polygon with numPanel sides.
	g.RadiusFront = (0.5 * panelWidth) / math.Tan(0.5*g.SubtendedAngle)
	g.RadiusBack = g.RadiusFront + panelDepth
	g.RadiusPins = g.RadiusFront + pinDepth

	g.Installed = make([]bool, numPanel)
	for i := 0; i < numPanel; i++ {
		g.Installed[i] = cfg.Installed(i)
		if g.Installed[i] {
			g.NumInstalled++
		}
	}

	// Angular positions, filtered to installed slots in ascending order.
	for k := 0; k < numPanel; k++ {
		if !g.Installed[k] {
			continue
		}
		g.Angles = append(g.Angles, float64(k)*g.SubtendedAngle+offsetAngle)
	}

	for _, ang := range g.Angles {
		front := Point{X: g.RadiusFront * math.Cos(ang), Y: g.RadiusFront * math.Sin(ang)}
		back := Point{X: g.RadiusBack * math.Cos(ang), Y: g.RadiusBack * math.Sin(ang)}
		g.FrontXY = append(g.FrontXY, front)
		g.BackXY = append(g.BackXY, back)

		g.FaceLinesFront = append(g.FaceLinesFront, faceLine(front, ang, panelWidth))
		g.FaceLinesBack = append(g.FaceLinesBack, faceLine(back, ang, panelWidth))

		center := Point{X: g.RadiusPins * math.Cos(ang), Y: g.RadiusPins * math.Sin(ang)}
		g.PinCenters = append(g.PinCenters, center)
		g.PinPositions = append(g.PinPositions, pinRow(center, ang, numPins, pinPitch, cfg.Pins.Omitted))
	}

	// Panel sides join front and back face endpoints by position.
	for i := range g.FaceLinesFront {
		f, b := g.FaceLinesFront[i], g.FaceLinesBack[i]
		g.SideLinesLeft = append(g.SideLinesLeft, Line{Start: f.Start, End: b.Start})
		g.SideLinesRight = append(g.SideLinesRight, Line{Start: f.End, End: b.End})
	}

	return g, nil
}

// faceLine returns the panel face through center, perpendicular to the
// radial direction at angle ang.
func faceLine(center Point, ang, width float64) Line {
	perp := ang + 0.5*math.Pi
	dx := 0.5 * width * math.Cos(perp)
	dy := 0.5 * width * math.Sin(perp)
	return Line{
		Start: Point{X: center.X - dx, Y: center.Y - dy},
		End:   Point{X: center.X + dx, Y: center.Y + dy},
	}
}

// pinRow lays out a header's pins along the face direction at ang.
// Omitted pins are addressed 1-based; out-of-range entries have no
// effect.
func pinRow(center Point, ang float64, num int, pitch float64, omitted []int) []Point {
	width := float64(num-1) * pitch
	perp := ang + 0.5*math.Pi

	var pins []Point
	for i := 0; i < num; i++ {
		if pinOmitted(i+1, omitted) {
			continue
		}
		d := float64(i)*pitch - 0.5*width
		pins = append(pins, Point{
			X: center.X + d*math.Cos(perp),
			Y: center.Y + d*math.Sin(perp),
		})
	}
	return pins
}

func pinOmitted(pin int, omitted []int) bool {
	for _, o := range omitted {
		if o == pin {
			return true
		}
	}
	return false
}

// HeaderOrientationDeg returns the board orientation, in degrees, for
// the installed panel at index i: -(angle - pi/2) under the package's
// sign convention.
func (g *Geometry) HeaderOrientationDeg(i int) float64 {
	return normalizeDeg((0.5*math.Pi - g.Angles[i]) * 180.0 / math.Pi)
}

// Summary writes the resolved layout parameters in the tool's
// four-decimal report format.
func (g *Geometry) Summary(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "parameters")
	fmt.Fprintln(w, "----------")
	fmt.Fprintln(w, "panel")
	fmt.Fprintf(w, "  number:        %d\n", g.NumPanels)
	fmt.Fprintf(w, "  installed:     %d\n", g.NumInstalled)
	fmt.Fprintf(w, "  width:         %0.4f (mm)\n", g.PanelWidth)
	fmt.Fprintf(w, "  depth:         %0.4f (mm)\n", g.PanelDepth)
	fmt.Fprintf(w, "  subtended:     %0.4f (rad)\n", g.SubtendedAngle)
	fmt.Fprintf(w, "  offset angle:  %0.4f (rad)\n", g.OffsetAngle)
	fmt.Fprintln(w, "pins")
	fmt.Fprintf(w, "  number:        %d\n", g.NumPins)
	fmt.Fprintf(w, "  pitch:         %0.4f (mm)\n", g.PinPitch)
	fmt.Fprintf(w, "radius_front:    %0.4f (mm)\n", g.RadiusFront)
	fmt.Fprintf(w, "radius_pins:     %0.4f (mm)\n", g.RadiusPins)
	fmt.Fprintf(w, "radius_back:     %0.4f (mm)\n", g.RadiusBack)
	fmt.Fprintln(w)
}
