// Package plot renders arena geometry to SVG for visual inspection:
// front faces in green, back and side faces in blue, header pins as
// black dots, with a mm-accurate viewbox.
package plot

import (
	"io"

	"zappem.net/pub/graphics/svgof"

	"github.com/flypanel/layout-tools/pkg/arena/ring"
)

const (
	margin    = 5.0  // mm of whitespace around the arena
	pinRadius = 0.35 // mm, drawn dot size
	frontSty  = "stroke:green;stroke-width:0.3;fill:none"
	backSty   = "stroke:blue;stroke-width:0.3;fill:none"
	pinSty    = "fill:black"
)

// WriteSVG renders the arena layout. The geometry's y axis points up;
// SVG's points down, so y is negated on output.
func WriteSVG(w io.Writer, g *ring.Geometry) {
	extent := g.RadiusBack + margin
	size := 2 * extent

	canvas := svgof.New(w)
	canvas.Decimals = 3
	canvas.StartviewUnit(size, size, "mm", -extent, -extent, size, size)

	drawLines(canvas, g.FaceLinesFront, frontSty)
	drawLines(canvas, g.FaceLinesBack, backSty)
	drawLines(canvas, g.SideLinesLeft, backSty)
	drawLines(canvas, g.SideLinesRight, backSty)

	for _, header := range g.PinPositions {
		for _, pin := range header {
			canvas.Circle(pin.X, -pin.Y, pinRadius, pinSty)
		}
	}

	canvas.End()
}

func drawLines(canvas *svgof.SVG, lines []ring.Line, style string) {
	for _, l := range lines {
		canvas.Line(l.Start.X, -l.Start.Y, l.End.X, -l.End.Y, style)
	}
}
