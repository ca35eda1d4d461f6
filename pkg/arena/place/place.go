// Package place drives layout output into a KiCad board: it binds the
// computed arena geometry to footprint references, runs the
// relative-placement transform against the board's as-found state, and
// writes every new position in one in-memory pass. Nothing is saved
// here; the caller persists the document once, after every placement
// succeeded.
package place

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/flypanel/layout-tools/pkg/arena/config"
	"github.com/flypanel/layout-tools/pkg/arena/ledarray"
	"github.com/flypanel/layout-tools/pkg/arena/ring"
	"github.com/flypanel/layout-tools/pkg/kicad/pcb"
)

// Ring places every installed panel's header, and the components riding
// on each header, into the board. The model panel's current arrangement
// is captured first, so it must still be at its as-built placement when
// this runs.
func Ring(log zerolog.Logger, doc *pcb.Document, cfg *config.Config, g *ring.Geometry) error {
	conv := cfg.Converter()
	cx := conv.ToMM(cfg.PCB.CenterX)
	cy := conv.ToMM(cfg.PCB.CenterY)

	refs := headerRefs(cfg.PCB.Panel, g.NumInstalled)

	components, pattern, err := capturePattern(doc, cfg, refs)
	if err != nil {
		return err
	}

	plan, err := ring.BuildPlan(g, cx, cy, refs, components, pattern)
	if err != nil {
		return err
	}

	placements := append(append([]ring.Placement(nil), plan.Headers...), plan.Components...)

	// Verify every reference before touching the board: a missing
	// footprint must not leave a half-placed document behind.
	for _, p := range placements {
		if _, err := doc.Footprint(p.Ref); err != nil {
			return fmt.Errorf("cannot place %s: %w", p.Ref, err)
		}
	}

	for _, p := range placements {
		fp, _ := doc.Footprint(p.Ref)
		fp.SetPlacement(p.Pose.X, p.Pose.Y, p.Pose.Angle)
		log.Debug().
			Str("ref", p.Ref).
			Float64("x", p.Pose.X).
			Float64("y", p.Pose.Y).
			Float64("angle", p.Pose.Angle).
			Msg("placed footprint")
	}

	log.Info().
		Int("headers", len(plan.Headers)).
		Int("components", len(plan.Components)).
		Msg("ring placement complete")
	return nil
}

// headerRefs builds the per-panel reference list, prefix(start) through
// prefix(start+n-1), index-aligned with the geometry slices.
func headerRefs(series config.RefSeries, n int) []string {
	refs := make([]string, n)
	for i := range refs {
		refs[i] = fmt.Sprintf("%s%d", series.RefPrefix, series.RefStart+i)
	}
	return refs
}

// capturePattern reads the model panel's as-found arrangement from the
// board. Returns an empty pattern when no relative components are
// configured, in which case only headers get placed.
func capturePattern(doc *pcb.Document, cfg *config.Config, refs []string) (map[string][]string, ring.RelativePattern, error) {
	rel := cfg.PCB.Relative
	if len(rel.Components) == 0 {
		return nil, ring.RelativePattern{}, nil
	}
	if rel.Model == "" {
		return nil, ring.RelativePattern{}, fmt.Errorf("pcb.relative.components configured without pcb.relative.model")
	}

	// The TOML loader folds table keys to lower case; rebind the
	// component lists to the actual header references.
	byLower := make(map[string][]string, len(rel.Components))
	for k, v := range rel.Components {
		byLower[strings.ToLower(k)] = v
	}
	components := make(map[string][]string, len(refs))
	for _, ref := range refs {
		if list, ok := byLower[strings.ToLower(ref)]; ok {
			components[ref] = list
		}
	}

	// Resolve the model designation against the generated header refs
	// with the same case folding, so "j1" in the file means J1.
	modelRef := rel.Model
	for _, ref := range refs {
		if strings.EqualFold(ref, modelRef) {
			modelRef = ref
			break
		}
	}

	modelFp, err := doc.Footprint(modelRef)
	if err != nil {
		return nil, ring.RelativePattern{}, fmt.Errorf("model panel: %w", err)
	}
	mx, my, ma := modelFp.Placement()
	model := ring.Pose{X: mx, Y: my, Angle: ma}

	var comps []ring.Pose
	for _, ref := range components[modelRef] {
		fp, err := doc.Footprint(ref)
		if err != nil {
			return nil, ring.RelativePattern{}, fmt.Errorf("model component: %w", err)
		}
		x, y, a := fp.Placement()
		comps = append(comps, ring.Pose{X: x, Y: y, Angle: a})
	}

	return components, ring.CapturePattern(model, comps), nil
}

// DrawOutline adds the arena's front, back and side face segments to
// the board as line graphics, translated by the configured center.
func DrawOutline(doc *pcb.Document, cfg *config.Config, g *ring.Geometry, layer string, width float64) {
	conv := cfg.Converter()
	cx := conv.ToMM(cfg.PCB.CenterX)
	cy := conv.ToMM(cfg.PCB.CenterY)

	for _, lines := range [][]ring.Line{g.FaceLinesFront, g.FaceLinesBack, g.SideLinesLeft, g.SideLinesRight} {
		for _, l := range lines {
			doc.AddLine(l.Start.X+cx, l.Start.Y+cy, l.End.X+cx, l.End.Y+cy, width, layer)
		}
	}
}

// LEDArray places a computed LED grid into the board.
func LEDArray(log zerolog.Logger, doc *pcb.Document, grid *ledarray.Grid) error {
	for _, p := range grid.Placements {
		if _, err := doc.Footprint(p.Ref); err != nil {
			return fmt.Errorf("cannot place %s: %w", p.Ref, err)
		}
	}

	for _, p := range grid.Placements {
		fp, _ := doc.Footprint(p.Ref)
		fp.SetPlacement(p.Pose.X, p.Pose.Y, p.Pose.Angle)
		log.Debug().
			Str("ref", p.Ref).
			Float64("x", p.Pose.X).
			Float64("y", p.Pose.Y).
			Msg("placed LED")
	}

	log.Info().Int("leds", len(grid.Placements)).Msg("LED array placement complete")
	return nil
}
