// Package pcb edits component placement in KiCad board files
// (.kicad_pcb). It exposes the two contracts the layout engines need,
// looking a footprint's position/orientation up by reference and
// writing a new one back, plus primitives for adding simple edge
// geometry. The board is held as an editable S-expression tree so
// everything the parser does not model survives a load/save cycle
// untouched.
package pcb

import (
	"fmt"
	"io"
	"os"

	"github.com/flypanel/layout-tools/pkg/kicad/sexp"
)

// MinSupportedVersion is the oldest board file format accepted
// (KiCad 6.0).
const MinSupportedVersion = 20211014

// Document is a loaded KiCad board.
type Document struct {
	Version   int
	Generator string

	root       *sexp.Node
	footprints map[string]*Footprint
}

// Footprint is one component on the board. Position is in mm,
// orientation in degrees, exactly as the file stores them.
type Footprint struct {
	Library   string
	Name      string
	Reference string

	node *sexp.Node
}

// Open reads and parses a board file.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open board file: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return doc, nil
}

// Parse reads a board from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	root, err := sexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}

	if root.Name() != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: expected 'kicad_pcb', got %q", root.Name())
	}

	doc := &Document{root: root, footprints: make(map[string]*Footprint)}

	versionNode, found := root.Find("version")
	if !found {
		return nil, fmt.Errorf("missing required 'version' field")
	}
	version, err := versionNode.Int(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse version: %w", err)
	}
	if version < MinSupportedVersion {
		return nil, fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", version, MinSupportedVersion)
	}
	doc.Version = version

	doc.Generator = "unknown"
	if genNode, found := root.Find("generator"); found {
		if gen, err := genNode.Text(1); err == nil {
			doc.Generator = gen
		}
	} else if hostNode, found := root.Find("host"); found {
		if gen, err := hostNode.Text(1); err == nil {
			doc.Generator = gen
		}
	}

	for _, fpNode := range root.FindAll("footprint") {
		fp, err := parseFootprint(fpNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse footprint: %w", err)
		}
		if fp.Reference != "" {
			doc.footprints[fp.Reference] = fp
		}
	}

	return doc, nil
}

func parseFootprint(node *sexp.Node) (*Footprint, error) {
	fp := &Footprint{node: node}

	fpName, err := node.Text(1)
	if err != nil {
		return nil, fmt.Errorf("footprint has no name: %w", err)
	}
	for i, c := range fpName {
		if c == ':' {
			fp.Library = fpName[:i]
			fp.Name = fpName[i+1:]
			break
		}
	}
	if fp.Name == "" {
		fp.Name = fpName
	}

	if _, found := node.Find("at"); !found {
		return nil, fmt.Errorf("footprint %q missing required 'at' position", fpName)
	}

	// KiCad 7+ stores the reference as (property "Reference" "J1" ...);
	// KiCad 6 as (fp_text reference "J1" ...). Accept both.
	for _, prop := range node.FindAll("property") {
		key, err := prop.Text(1)
		if err != nil || key != "Reference" {
			continue
		}
		if ref, err := prop.Text(2); err == nil {
			fp.Reference = ref
		}
	}
	if fp.Reference == "" {
		for _, txt := range node.FindAll("fp_text") {
			kind, err := txt.Text(1)
			if err != nil || kind != "reference" {
				continue
			}
			if ref, err := txt.Text(2); err == nil {
				fp.Reference = ref
			}
		}
	}

	return fp, nil
}

// Footprint looks a component up by its reference designator. A missing
// reference is an error: the caller must not fall back to a partial
// placement.
func (d *Document) Footprint(ref string) (*Footprint, error) {
	fp, ok := d.footprints[ref]
	if !ok {
		return nil, fmt.Errorf("footprint %q not found in board", ref)
	}
	return fp, nil
}

// Footprints returns every footprint with a reference, keyed by it.
func (d *Document) Footprints() map[string]*Footprint {
	return d.footprints
}

// Placement returns the footprint position (mm) and orientation
// (degrees).
func (f *Footprint) Placement() (x, y, angle float64) {
	at, _ := f.node.Find("at")
	x, _ = at.Float(1)
	y, _ = at.Float(2)
	if at.Len() > 3 {
		angle, _ = at.Float(3)
	}
	return x, y, angle
}

// SetPlacement moves the footprint. Pads and text children keep their
// board orientation field in sync: KiCad stores their angles as the
// footprint angle plus the local angle, so a change of footprint
// orientation is propagated to them as a delta.
func (f *Footprint) SetPlacement(x, y, angle float64) {
	at, _ := f.node.Find("at")
	_, _, old := f.Placement()
	delta := angle - old

	at.SetFloat(1, x)
	at.SetFloat(2, y)
	at.SetFloat(3, angle)

	if delta == 0 {
		return
	}
	for _, name := range []string{"pad", "fp_text", "property"} {
		for _, child := range f.node.FindAll(name) {
			childAt, found := child.Find("at")
			if !found {
				continue
			}
			local := 0.0
			if childAt.Len() > 3 {
				local, _ = childAt.Float(3)
			}
			childAt.SetFloat(3, local+delta)
		}
	}
}

// AddLine appends a gr_line graphic to the board.
func (d *Document) AddLine(x1, y1, x2, y2, width float64, layer string) {
	d.root.Append(sexp.List("gr_line",
		sexp.List("start", sexp.Num(x1), sexp.Num(y1)),
		sexp.List("end", sexp.Num(x2), sexp.Num(y2)),
		sexp.List("stroke",
			sexp.List("width", sexp.Num(width)),
			sexp.List("type", sexp.Sym("default")),
		),
		sexp.List("layer", sexp.Str(layer)),
	))
}

// AddCircle appends a gr_circle graphic. KiCad defines circles by their
// center and one point on the circumference.
func (d *Document) AddCircle(cx, cy, radius, width float64, layer string) {
	d.root.Append(sexp.List("gr_circle",
		sexp.List("center", sexp.Num(cx), sexp.Num(cy)),
		sexp.List("end", sexp.Num(cx+radius), sexp.Num(cy)),
		sexp.List("stroke",
			sexp.List("width", sexp.Num(width)),
			sexp.List("type", sexp.Sym("default")),
		),
		sexp.List("fill", sexp.List("type", sexp.Sym("none"))),
		sexp.List("layer", sexp.Str(layer)),
	))
}

// Write serializes the whole board.
func (d *Document) Write(w io.Writer) error {
	return sexp.Write(w, d.root)
}

// Save writes the board to a file in one pass.
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	defer f.Close()

	if err := d.Write(f); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}
