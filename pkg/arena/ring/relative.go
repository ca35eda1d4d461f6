package ring

import (
	"fmt"
	"math"
)

// Pose is a component placement on the board: position in mm plus
// orientation in degrees. It is a plain value; reading and writing it
// against the PCB document is the placement adapter's job.
type Pose struct {
	X     float64
	Y     float64
	Angle float64 // degrees
}

// RelativePattern is a panel's local component arrangement, captured
// from the model panel's as-found placement and normalized to a frame
// with the header at the origin and orientation 0. Applying the pattern
// to any target pose reproduces the arrangement rigidly.
type RelativePattern struct {
	offsets []Point   // header-local offsets
	deltas  []float64 // orientation deltas in degrees
}

// CapturePattern normalizes the model panel's component poses into a
// reusable pattern. Each offset is the component position relative to
// the model header, rotated by the negative of the model orientation;
// each delta is the component orientation relative to the model's.
func CapturePattern(model Pose, components []Pose) RelativePattern {
	p := RelativePattern{}
	for _, c := range components {
		off := rotate(Point{X: c.X - model.X, Y: c.Y - model.Y}, -model.Angle)
		p.offsets = append(p.offsets, off)
		p.deltas = append(p.deltas, c.Angle-model.Angle)
	}
	return p
}

// Len returns the number of components in the pattern.
func (p RelativePattern) Len() int { return len(p.offsets) }

// Apply maps the pattern onto a target header pose, returning one pose
// per component in capture order. An empty pattern returns nil.
func (p RelativePattern) Apply(target Pose) []Pose {
	var out []Pose
	for i, off := range p.offsets {
		r := rotate(off, target.Angle)
		out = append(out, Pose{
			X:     target.X + r.X,
			Y:     target.Y + r.Y,
			Angle: normalizeDeg(target.Angle + p.deltas[i]),
		})
	}
	return out
}

// Placement pairs a reference designator with its target pose.
type Placement struct {
	Ref  string
	Pose Pose
}

// Plan is the complete output of the relative-placement transform:
// a target pose for every installed panel's header and for every
// component riding on it.
type Plan struct {
	Headers    []Placement
	Components []Placement
}

// BuildPlan computes the target pose for every header and applies the
// captured pattern to each panel's own component list. Header targets
// come straight from the geometry output translated by the board
// center; the model panel goes through the same rule as every other
// panel, so its components land on the geometry target rather than
// their as-found positions.
//
// headerRefs must have one entry per installed panel, index-aligned
// with the geometry slices. components maps a header reference to its
// component references, position-for-position with the captured
// pattern; a header with no entry gets no components.
func BuildPlan(g *Geometry, centerX, centerY float64, headerRefs []string, components map[string][]string, pattern RelativePattern) (*Plan, error) {
	if len(headerRefs) != g.NumInstalled {
		return nil, fmt.Errorf("have %d header refs for %d installed panels", len(headerRefs), g.NumInstalled)
	}

	plan := &Plan{}
	for i, ref := range headerRefs {
		target := Pose{
			X:     g.PinCenters[i].X + centerX,
			Y:     g.PinCenters[i].Y + centerY,
			Angle: g.HeaderOrientationDeg(i),
		}
		plan.Headers = append(plan.Headers, Placement{Ref: ref, Pose: target})

		refs := components[ref]
		if len(refs) == 0 {
			continue
		}
		if len(refs) != pattern.Len() {
			return nil, fmt.Errorf("header %s lists %d components, model pattern has %d", ref, len(refs), pattern.Len())
		}
		for j, pose := range pattern.Apply(target) {
			plan.Components = append(plan.Components, Placement{Ref: refs[j], Pose: pose})
		}
	}
	return plan, nil
}

// rotate applies a counter-clockwise rotation by deg degrees.
func rotate(p Point, deg float64) Point {
	rad := deg * math.Pi / 180.0
	c, s := math.Cos(rad), math.Sin(rad)
	return Point{
		X: c*p.X - s*p.Y,
		Y: s*p.X + c*p.Y,
	}
}

// normalizeDeg folds an angle into (-180, 180].
func normalizeDeg(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}
