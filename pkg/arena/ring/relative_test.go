package ring

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureApplyRoundTrip(t *testing.T) {
	// Capturing against the model pose and re-applying to the same pose
	// must reproduce the original component placement.
	model := Pose{X: 40.0, Y: -12.0, Angle: 37.0}
	comps := []Pose{
		{X: 42.5, Y: -12.0, Angle: 37.0},
		{X: 40.0, Y: -8.5, Angle: 127.0},
		{X: 38.0, Y: -14.0, Angle: -90.0},
	}

	pattern := CapturePattern(model, comps)
	require.Equal(t, 3, pattern.Len())

	got := pattern.Apply(model)
	require.Len(t, got, 3)
	for i := range comps {
		assert.InDelta(t, comps[i].X, got[i].X, 1e-9)
		assert.InDelta(t, comps[i].Y, got[i].Y, 1e-9)
		assert.InDelta(t, comps[i].Angle, got[i].Angle, 1e-9)
	}
}

func TestApplyPreservesLocalArrangement(t *testing.T) {
	model := Pose{X: 10, Y: 0, Angle: 0}
	comps := []Pose{{X: 12, Y: 1, Angle: 45}}
	pattern := CapturePattern(model, comps)

	// Rotate the target a quarter turn: the offset rotates with it.
	target := Pose{X: 0, Y: 10, Angle: 90}
	got := pattern.Apply(target)
	require.Len(t, got, 1)
	assert.InDelta(t, -1.0, got[0].X, 1e-9)
	assert.InDelta(t, 12.0, got[0].Y, 1e-9)
	assert.InDelta(t, 135.0, got[0].Angle, 1e-9)

	// Distance from header to component is rigid under any target pose.
	wantDist := math.Hypot(2, 1)
	for _, angle := range []float64{-135, -10, 0, 30, 180} {
		tp := Pose{X: 3, Y: -7, Angle: angle}
		g := pattern.Apply(tp)[0]
		assert.InDelta(t, wantDist, math.Hypot(g.X-tp.X, g.Y-tp.Y), 1e-9)
	}
}

func TestApplyEmptyPattern(t *testing.T) {
	var pattern RelativePattern
	assert.Nil(t, pattern.Apply(Pose{X: 1, Y: 2, Angle: 3}))
}

func planFixture(t *testing.T) (*Geometry, []string) {
	t.Helper()
	g, err := Compute(ringConfig())
	require.NoError(t, err)

	refs := make([]string, g.NumInstalled)
	for i := range refs {
		refs[i] = fmt.Sprintf("J%d", i+1)
	}
	return g, refs
}

func TestBuildPlanHeadersMatchGeometry(t *testing.T) {
	// With no relative components the plan is exactly the geometry
	// output translated by the board center.
	g, refs := planFixture(t)
	const cx, cy = 150.0, 100.0

	plan, err := BuildPlan(g, cx, cy, refs, nil, RelativePattern{})
	require.NoError(t, err)
	require.Len(t, plan.Headers, g.NumInstalled)
	assert.Empty(t, plan.Components)

	for i, h := range plan.Headers {
		assert.Equal(t, refs[i], h.Ref)
		assert.InDelta(t, g.PinCenters[i].X+cx, h.Pose.X, 1e-9)
		assert.InDelta(t, g.PinCenters[i].Y+cy, h.Pose.Y, 1e-9)
		assert.InDelta(t, g.HeaderOrientationDeg(i), h.Pose.Angle, 1e-9)
	}
}

func TestBuildPlanModelSelfConsistency(t *testing.T) {
	g, refs := planFixture(t)
	const cx, cy = 150.0, 100.0

	// The model header J1 currently sits somewhere arbitrary with one
	// component 2mm to its local right.
	modelAsFound := Pose{X: 20, Y: 30, Angle: 10}
	local := rotate(Point{X: 2, Y: 0}, modelAsFound.Angle)
	compAsFound := Pose{X: modelAsFound.X + local.X, Y: modelAsFound.Y + local.Y, Angle: 10}
	pattern := CapturePattern(modelAsFound, []Pose{compAsFound})

	components := map[string][]string{}
	for i, ref := range refs {
		components[ref] = []string{fmt.Sprintf("C%d", i+1)}
	}

	plan, err := BuildPlan(g, cx, cy, refs, components, pattern)
	require.NoError(t, err)
	require.Len(t, plan.Components, len(refs))

	// The model panel's own component follows the generic rule: it ends
	// up 2mm along the *target* header frame, not at its as-found spot.
	j1 := plan.Headers[0].Pose
	c1 := plan.Components[0]
	require.Equal(t, "C1", c1.Ref)
	off := rotate(Point{X: 2, Y: 0}, j1.Angle)
	assert.InDelta(t, j1.X+off.X, c1.Pose.X, 1e-9)
	assert.InDelta(t, j1.Y+off.Y, c1.Pose.Y, 1e-9)
	assert.InDelta(t, j1.Angle, c1.Pose.Angle, 1e-9)

	// Every panel keeps the same header-to-component distance.
	for i, h := range plan.Headers {
		c := plan.Components[i]
		assert.InDelta(t, 2.0, math.Hypot(c.Pose.X-h.Pose.X, c.Pose.Y-h.Pose.Y), 1e-9)
	}
}

func TestBuildPlanErrors(t *testing.T) {
	g, refs := planFixture(t)

	_, err := BuildPlan(g, 0, 0, refs[:3], nil, RelativePattern{})
	assert.Error(t, err, "short header list")

	pattern := CapturePattern(Pose{}, []Pose{{X: 1}, {X: 2}})
	components := map[string][]string{"J1": {"C1"}} // one ref, pattern has two
	_, err = BuildPlan(g, 0, 0, refs, components, pattern)
	assert.Error(t, err, "component list length mismatch")
}

func TestNormalizeDeg(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{180, 180},
		{181, -179},
		{-180, 180},
		{360, 0},
		{-541, 179},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, normalizeDeg(tt.in), 1e-9, "normalizeDeg(%v)", tt.in)
	}
}
